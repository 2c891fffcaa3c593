package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns every Store implementation, each freshly opened.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	badgerStore, err := OpenInMemoryBadgerStore()
	require.NoError(t, err)

	sqliteStore, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "kv.sqlite"))
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	redisStore := newRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:")

	stores := map[string]Store{
		BackendMemory: NewMemoryStore(),
		BackendFile:   fileStore,
		BackendBadger: badgerStore,
		BackendSQLite: sqliteStore,
		BackendRedis:  redisStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get(ctx, "bdd_streak_dates")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set(ctx, "bdd_streak_dates", `["2024-01-03"]`))
			v, ok, err := store.Get(ctx, "bdd_streak_dates")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `["2024-01-03"]`, v)

			require.NoError(t, store.Set(ctx, "bdd_streak_dates", `[]`))
			v, _, err = store.Get(ctx, "bdd_streak_dates")
			require.NoError(t, err)
			assert.Equal(t, `[]`, v)

			require.NoError(t, store.Remove(ctx, "bdd_streak_dates"))
			_, ok, err = store.Get(ctx, "bdd_streak_dates")
			require.NoError(t, err)
			assert.False(t, ok)

			// Removing a missing key is not an error.
			require.NoError(t, store.Remove(ctx, "never_set"))

			assert.ErrorIs(t, store.Set(ctx, "../escape", "x"), ErrInvalidKey)
			_, _, err = store.Get(ctx, "")
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "bdd_daily_listen_time", `{"2024-01-03":650}`))
	require.NoError(t, first.Close())

	second, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, second.Preload())

	memoryCount, fileCount := second.Stats()
	assert.Equal(t, 1, memoryCount)
	assert.Equal(t, 1, fileCount)

	v, ok, err := second.Get(ctx, "bdd_daily_listen_time")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"2024-01-03":650}`, v)

	require.NoError(t, second.Clear())
	_, fileCount = second.Stats()
	assert.Zero(t, fileCount)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.sqlite")

	first, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "k", "v1"))
	require.NoError(t, first.Close())

	second, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()
	v, ok, err := second.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", v)
}

func TestRedisStoreUsesPrefix(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	store := newRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "lectures:")
	defer store.Close()

	require.NoError(t, store.Set(ctx, "bdd_playback_history", "[]"))
	got, err := mr.Get("lectures:bdd_playback_history")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
	assert.Equal(t, []string{"lectures:bdd_playback_history"}, mr.Keys())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	for _, backend := range []string{"", BackendMemory, BackendFile, BackendBadger, "SQLite"} {
		t.Run("backend "+backend, func(t *testing.T) {
			store, err := Open(Config{Backend: backend, Dir: filepath.Join(dir, backend)})
			require.NoError(t, err)
			require.NoError(t, store.Close())
		})
	}

	_, err := Open(Config{Backend: "etcd"})
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Open(Config{Backend: BackendRedis})
	assert.Error(t, err)
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := Open(Config{Backend: BackendRedis, Redis: RedisConfig{Addr: mr.Addr(), Prefix: "x:"}})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(context.Background(), "a", "b"))
	assert.True(t, mr.Exists("x:a"))
}
