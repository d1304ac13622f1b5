package ratelimit

import (
	"context"
	"time"
)

// Result reports the outcome of a rate limit check.
type Result struct {
	// Allowed indicates whether the request fits the budget.
	Allowed bool

	// Limit is the maximum number of requests allowed per window.
	Limit int

	// Remaining is the number of requests left in the current window.
	Remaining int

	// ResetAt is when the current window elapses and the counter resets.
	ResetAt time.Time
}

// RetryAfter returns how long to wait before the next request is allowed.
// Returns 0 if the current request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Limiter is the interface rate limiting implementations satisfy.
type Limiter interface {
	// Allow checks if a single request is allowed for the given key and,
	// if so, consumes one slot.
	Allow(ctx context.Context, key string) (*Result, error)

	// Status returns the current state without consuming a slot.
	Status(ctx context.Context, key string) (*Result, error)

	// Reset clears the counter for the given key.
	Reset(ctx context.Context, key string) error
}

// Store is the storage backend contract. Implementations must be safe for
// concurrent use; IncrementAndGet is the single atomic primitive the limiter
// depends on.
type Store interface {
	// IncrementAndGet atomically increments the counter for key, opening a
	// new window if none is live, and returns the new count plus the time
	// remaining in the window.
	IncrementAndGet(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)

	// Get returns the current count and remaining window time without
	// incrementing. A missing or expired key reports zero.
	Get(ctx context.Context, key string) (count int64, ttl time.Duration, err error)

	// Delete removes the counter for key.
	Delete(ctx context.Context, key string) error
}
