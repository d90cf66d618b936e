// Package config loads and validates studyform configuration from an
// optional YAML file overlaid by environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-studyform/components/timezones"
	"github.com/goliatone/go-studyform/pkg/sticky"
)

// DefaultTimezone is the site zone of the clinic the system was built for.
const DefaultTimezone = "Asia/Hong_Kong"

// Config holds all application configuration.
type Config struct {
	// Timezone is the IANA zone every datetime is shown and entered in.
	Timezone string `yaml:"timezone"`
	// SchemaDir holds procedure schema documents (JSON or YAML).
	SchemaDir string `yaml:"schema_dir"`

	// Sticky default settings.
	StickyBackend string `yaml:"sticky_backend"` // memory, file, sqlite or redis
	StickyPath    string `yaml:"sticky_path"`    // YAML file or SQLite DSN
	RedisURL      string `yaml:"redis_url"`

	// Preview server settings.
	ListenAddr  string        `yaml:"listen_addr"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// Form behaviour.
	StrictNumbers bool   `yaml:"strict_numbers"`
	Theme         string `yaml:"theme"`
	ThemeVariant  string `yaml:"theme_variant"`

	// Logging.
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Timezone:      DefaultTimezone,
		SchemaDir:     "schemas",
		StickyBackend: string(sticky.BackendMemory),
		StickyPath:    "",
		RedisURL:      "redis://localhost:6379/0",
		ListenAddr:    "127.0.0.1:8080",
		HTTPTimeout:   15 * time.Second,
		LogLevel:      "info",
	}
}

// Load reads path (when non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Timezone = envStr("STUDYFORM_TIMEZONE", c.Timezone)
	c.SchemaDir = envStr("STUDYFORM_SCHEMA_DIR", c.SchemaDir)
	c.StickyBackend = envStr("STUDYFORM_STICKY_BACKEND", c.StickyBackend)
	c.StickyPath = envStr("STUDYFORM_STICKY_PATH", c.StickyPath)
	c.RedisURL = envStr("STUDYFORM_REDIS_URL", c.RedisURL)
	c.ListenAddr = envStr("STUDYFORM_LISTEN_ADDR", c.ListenAddr)
	c.HTTPTimeout = envDuration("STUDYFORM_HTTP_TIMEOUT", c.HTTPTimeout)
	c.StrictNumbers = envBool("STUDYFORM_STRICT_NUMBERS", c.StrictNumbers)
	c.Theme = envStr("STUDYFORM_THEME", c.Theme)
	c.ThemeVariant = envStr("STUDYFORM_THEME_VARIANT", c.ThemeVariant)
	c.LogLevel = envStr("STUDYFORM_LOG_LEVEL", c.LogLevel)
	c.LogFile = envStr("STUDYFORM_LOG_FILE", c.LogFile)
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Timezone) == "" {
		return fmt.Errorf("config: STUDYFORM_TIMEZONE is required")
	}
	if _, err := timezones.Lookup(c.Timezone); err != nil {
		return fmt.Errorf("config: STUDYFORM_TIMEZONE: %w", err)
	}
	switch c.Backend() {
	case sticky.BackendMemory:
	case sticky.BackendFile, sticky.BackendSQLite:
		if strings.TrimSpace(c.StickyPath) == "" {
			return fmt.Errorf("config: STUDYFORM_STICKY_PATH is required for the %s backend", c.StickyBackend)
		}
	case sticky.BackendRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("config: STUDYFORM_REDIS_URL is required for the redis backend")
		}
	default:
		return fmt.Errorf("config: STUDYFORM_STICKY_BACKEND %q is not one of memory, file, sqlite, redis", c.StickyBackend)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: STUDYFORM_HTTP_TIMEOUT must be positive")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Backend normalises StickyBackend.
func (c Config) Backend() sticky.Backend {
	backend := sticky.Backend(strings.ToLower(strings.TrimSpace(c.StickyBackend)))
	if backend == "" {
		return sticky.BackendMemory
	}
	return backend
}

// StickyTarget is the target handed to sticky.Open for the configured backend.
func (c Config) StickyTarget() string {
	if c.Backend() == sticky.BackendRedis {
		return c.RedisURL
	}
	return c.StickyPath
}

// ParseLevel maps a level name onto slog.
func ParseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("config: STUDYFORM_LOG_LEVEL %q is not one of debug, info, warn, error", raw)
	}
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
