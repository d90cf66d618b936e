package sticky_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-studyform/pkg/sticky"
)

func exerciseStore(t *testing.T, store sticky.Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "event", "study")
	require.NoError(t, err)
	assert.False(t, ok, "empty store should report not found")

	require.NoError(t, store.Set(ctx, "event", "study", "s-1"))
	require.NoError(t, store.Set(ctx, "event", "procedure", "p-1"))
	require.NoError(t, store.Set(ctx, "event", "study", "s-2"))

	v, ok, err := store.Get(ctx, "event", "study")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "s-2", v)

	v, ok, err = store.Get(ctx, "event", "procedure")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "p-1", v)

	require.NoError(t, store.Delete(ctx, "event", "procedure"))
	_, ok, err = store.Get(ctx, "event", "procedure")
	require.NoError(t, err)
	assert.False(t, ok)

	err = store.Set(ctx, " ", "study", "x")
	require.ErrorIs(t, err, sticky.ErrInvalidKey)

	// Names containing the separator stay distinct.
	require.NoError(t, store.Set(ctx, "procedure/a:b", "c", "first"))
	require.NoError(t, store.Set(ctx, "procedure/a", "b:c", "second"))
	v, ok, err = store.Get(ctx, "procedure/a:b", "c")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first", v)
	v, ok, err = store.Get(ctx, "procedure/a", "b:c")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", v)
}

func TestMemoryStore(t *testing.T) {
	store := sticky.NewMemory()
	exerciseStore(t, store)

	require.NoError(t, store.Close())
	_, _, err := store.Get(context.Background(), "event", "study")
	require.ErrorIs(t, err, sticky.ErrClosed)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sticky.yaml")

	store, err := sticky.NewFile(path)
	require.NoError(t, err)
	exerciseStore(t, store)
	require.NoError(t, store.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "study: s-2")

	reopened, err := sticky.NewFile(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get(context.Background(), "event", "study")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "s-2", v)
}

func TestFileStoreRejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sticky.yaml")
	require.NoError(t, os.WriteFile(path, []byte("event: [unterminated"), 0o600))

	_, err := sticky.NewFile(path)
	require.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	store, err := sticky.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "sticky.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	exerciseStore(t, store)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("STUDYFORM_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("STUDYFORM_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	prefix := "studyform-test:" + t.Name()
	store := sticky.NewRedis(client, prefix)
	exerciseStore(t, store)

	ctx := context.Background()
	expiring := sticky.NewRedis(client, prefix+":ttl", sticky.WithTTL(time.Minute))
	require.NoError(t, expiring.Set(ctx, "event", "study", "s-1"))
	ttl, err := client.TTL(ctx, prefix+":ttl:"+sticky.Key("event", "study")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	require.NoError(t, store.Set(ctx, "event", "study", "s-1"))
	ttl, err = client.TTL(ctx, prefix+":"+sticky.Key("event", "study")).Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl, "defaults without WithTTL never expire")
}

func TestFileStoreKeepsEntryWhenDeleteCannotWrite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sticky.yaml")

	store, err := sticky.NewFile(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "event", "study", "s-1"))

	// A non-empty directory in place of the document makes the rename fail.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.MkdirAll(filepath.Join(path, "blocker"), 0o755))

	require.Error(t, store.Delete(ctx, "event", "study"))
	v, ok, err := store.Get(ctx, "event", "study")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "s-1", v)

	require.Error(t, store.Set(ctx, "event", "study", "s-2"))
	v, _, err = store.Get(ctx, "event", "study")
	require.NoError(t, err)
	assert.Equal(t, "s-1", v)
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	store, err := sticky.Open(ctx, sticky.BackendMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &sticky.Memory{}, store)

	store, err = sticky.Open(ctx, "FILE", filepath.Join(t.TempDir(), "s.yaml"))
	require.NoError(t, err)
	assert.IsType(t, &sticky.File{}, store)

	_, err = sticky.Open(ctx, "etcd", "")
	require.ErrorIs(t, err, sticky.ErrUnknownBackend)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "5:event:study", sticky.Key(" event ", "study "))
	assert.NotEqual(t, sticky.Key("procedure/a:b", "c"), sticky.Key("procedure/a", "b:c"))
}
