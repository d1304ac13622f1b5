package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/ratelimit"
)

func setupRedisStore(t *testing.T) (*ratelimit.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return ratelimit.NewRedisStore(client), mr
}

func TestRedisStoreIncrementAndGet(t *testing.T) {
	ctx := context.Background()
	store, mr := setupRedisStore(t)

	count, ttl, err := store.IncrementAndGet(ctx, "1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Greater(t, ttl, time.Duration(0))

	count, _, err = store.IncrementAndGet(ctx, "1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// A fresh window opens once the TTL elapses.
	mr.FastForward(2 * time.Minute)

	count, _, err = store.IncrementAndGet(ctx, "1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRedisStoreGet(t *testing.T) {
	ctx := context.Background()
	store, _ := setupRedisStore(t)

	count, _, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, _, err = store.IncrementAndGet(ctx, "present", time.Minute)
	require.NoError(t, err)

	count, ttl, err := store.Get(ctx, "present")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRedisStoreDelete(t *testing.T) {
	ctx := context.Background()
	store, _ := setupRedisStore(t)

	_, _, err := store.IncrementAndGet(ctx, "key", time.Minute)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "key"))

	count, _, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestRedisBackedLimiter(t *testing.T) {
	ctx := context.Background()
	store, _ := setupRedisStore(t)

	limiter, err := ratelimit.NewFixedWindow(store, 3, time.Minute)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		result, err := limiter.Allow(ctx, "client")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}

	result, err := limiter.Allow(ctx, "client")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
}
