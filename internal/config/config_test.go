package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-studyform/pkg/sticky"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STUDYFORM_TIMEZONE", "STUDYFORM_SCHEMA_DIR", "STUDYFORM_STICKY_BACKEND",
		"STUDYFORM_STICKY_PATH", "STUDYFORM_REDIS_URL", "STUDYFORM_LISTEN_ADDR",
		"STUDYFORM_HTTP_TIMEOUT", "STUDYFORM_STRICT_NUMBERS", "STUDYFORM_THEME",
		"STUDYFORM_THEME_VARIANT", "STUDYFORM_LOG_LEVEL", "STUDYFORM_LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimezone, cfg.Timezone)
	assert.Equal(t, sticky.BackendMemory, cfg.Backend())
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.StrictNumbers)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "studyform.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
timezone: Europe/London
sticky_backend: sqlite
sticky_path: /tmp/sticky.db
http_timeout: 5s
strict_numbers: true
`), 0o644))

	t.Setenv("STUDYFORM_TIMEZONE", "Asia/Tokyo")
	t.Setenv("STUDYFORM_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
	assert.Equal(t, sticky.BackendSQLite, cfg.Backend())
	assert.Equal(t, "/tmp/sticky.db", cfg.StickyTarget())
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.StrictNumbers)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown timezone", func(c *Config) { c.Timezone = "Mars/Base" }, "STUDYFORM_TIMEZONE"},
		{"empty timezone", func(c *Config) { c.Timezone = " " }, "STUDYFORM_TIMEZONE is required"},
		{"unknown backend", func(c *Config) { c.StickyBackend = "etcd" }, "STUDYFORM_STICKY_BACKEND"},
		{"file without path", func(c *Config) { c.StickyBackend = "file" }, "STUDYFORM_STICKY_PATH"},
		{"redis without url", func(c *Config) { c.StickyBackend = "redis"; c.RedisURL = "" }, "STUDYFORM_REDIS_URL"},
		{"bad timeout", func(c *Config) { c.HTTPTimeout = 0 }, "STUDYFORM_HTTP_TIMEOUT"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "STUDYFORM_LOG_LEVEL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), "config: "), err.Error())
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRedisTarget(t *testing.T) {
	cfg := Defaults()
	cfg.StickyBackend = "REDIS"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, cfg.RedisURL, cfg.StickyTarget())
}

func TestSetupLoggerWithWritersFansOut(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("schema loaded", "procedure", "vitals")

	assert.Contains(t, stderr.String(), "procedure=vitals")
	assert.NotContains(t, stderr.String(), "hidden")

	var record map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &record))
	assert.Equal(t, "schema loaded", record["msg"])
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studyform.log")
	logger, cleanup := SetupLogger(path, slog.LevelInfo)
	logger.Info("ready")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"ready"`)
}
