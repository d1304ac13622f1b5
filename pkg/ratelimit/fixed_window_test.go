package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/ratelimit"
)

func newMemoryLimiter(t *testing.T, limit int, window time.Duration) *ratelimit.FixedWindow {
	t.Helper()
	store := ratelimit.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	limiter, err := ratelimit.NewFixedWindow(store, limit, window)
	require.NoError(t, err)
	return limiter
}

func TestNewFixedWindow(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	t.Run("nil store", func(t *testing.T) {
		_, err := ratelimit.NewFixedWindow(nil, 5, time.Minute)
		require.ErrorIs(t, err, ratelimit.ErrStoreRequired)
	})

	t.Run("invalid limit", func(t *testing.T) {
		_, err := ratelimit.NewFixedWindow(store, 0, time.Minute)
		require.ErrorIs(t, err, ratelimit.ErrInvalidLimit)
	})

	t.Run("invalid window", func(t *testing.T) {
		_, err := ratelimit.NewFixedWindow(store, 5, 0)
		require.ErrorIs(t, err, ratelimit.ErrInvalidWindow)
	})
}

func TestFixedWindowAllow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("budget of five admits five and rejects the sixth", func(t *testing.T) {
		limiter := newMemoryLimiter(t, 5, time.Minute)

		for i := 0; i < 5; i++ {
			result, err := limiter.Allow(ctx, "1.2.3.4")
			require.NoError(t, err)
			assert.True(t, result.Allowed, "request %d should be allowed", i+1)
			assert.Equal(t, 5-(i+1), result.Remaining)
		}

		result, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Equal(t, 0, result.Remaining)
		assert.Greater(t, result.RetryAfter(), time.Duration(0))
	})

	t.Run("keys count independently", func(t *testing.T) {
		limiter := newMemoryLimiter(t, 1, time.Minute)

		first, err := limiter.Allow(ctx, "1.1.1.1")
		require.NoError(t, err)
		assert.True(t, first.Allowed)

		blocked, err := limiter.Allow(ctx, "1.1.1.1")
		require.NoError(t, err)
		assert.False(t, blocked.Allowed)

		other, err := limiter.Allow(ctx, "2.2.2.2")
		require.NoError(t, err)
		assert.True(t, other.Allowed)
	})

	t.Run("window reset restores the budget", func(t *testing.T) {
		limiter := newMemoryLimiter(t, 1, 50*time.Millisecond)

		result, err := limiter.Allow(ctx, "key")
		require.NoError(t, err)
		assert.True(t, result.Allowed)

		result, err = limiter.Allow(ctx, "key")
		require.NoError(t, err)
		assert.False(t, result.Allowed)

		time.Sleep(60 * time.Millisecond)

		result, err = limiter.Allow(ctx, "key")
		require.NoError(t, err)
		assert.True(t, result.Allowed, "budget must reset after the window elapses")
	})

	t.Run("blocked requests still consume", func(t *testing.T) {
		limiter := newMemoryLimiter(t, 2, time.Minute)

		for i := 0; i < 10; i++ {
			_, err := limiter.Allow(ctx, "hammer")
			require.NoError(t, err)
		}

		status, err := limiter.Status(ctx, "hammer")
		require.NoError(t, err)
		assert.False(t, status.Allowed)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		limiter := newMemoryLimiter(t, 5, time.Minute)
		_, err := limiter.Allow(ctx, "")
		require.ErrorIs(t, err, ratelimit.ErrKeyRequired)
	})
}

func TestFixedWindowStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	limiter := newMemoryLimiter(t, 5, time.Minute)

	// Status never consumes budget.
	for i := 0; i < 10; i++ {
		result, err := limiter.Status(ctx, "watcher")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 5, result.Remaining)
	}
}

func TestFixedWindowReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	limiter := newMemoryLimiter(t, 1, time.Minute)

	_, err := limiter.Allow(ctx, "key")
	require.NoError(t, err)
	blocked, err := limiter.Allow(ctx, "key")
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)

	require.NoError(t, limiter.Reset(ctx, "key"))

	result, err := limiter.Allow(ctx, "key")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}
