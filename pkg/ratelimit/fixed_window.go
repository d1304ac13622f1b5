package ratelimit

import (
	"context"
	"time"
)

// FixedWindow implements a fixed-window counter limiter: up to limit requests
// per key per window, counted from the first request that opens the window.
type FixedWindow struct {
	store  Store
	limit  int
	window time.Duration
}

// NewFixedWindow creates a fixed-window limiter backed by the given store.
func NewFixedWindow(store Store, limit int, window time.Duration) (*FixedWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidWindow
	}

	return &FixedWindow{
		store:  store,
		limit:  limit,
		window: window,
	}, nil
}

// Allow consumes one slot for key and reports whether the request fits the
// budget. The slot is consumed even when the answer is no, so hammering a
// blocked key never makes it unblock sooner than the window reset.
func (fw *FixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	count, ttl, err := fw.store.IncrementAndGet(ctx, key, fw.window)
	if err != nil {
		return nil, err
	}

	return fw.result(count, ttl, count <= int64(fw.limit)), nil
}

// Status returns the current state for key without consuming a slot.
func (fw *FixedWindow) Status(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	count, ttl, err := fw.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = fw.window
	}

	return fw.result(count, ttl, count < int64(fw.limit)), nil
}

// Reset clears the counter for key.
func (fw *FixedWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return fw.store.Delete(ctx, key)
}

func (fw *FixedWindow) result(count int64, ttl time.Duration, allowed bool) *Result {
	remaining := int64(fw.limit) - count
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:   allowed,
		Limit:     fw.limit,
		Remaining: int(remaining),
		ResetAt:   time.Now().Add(ttl),
	}
}
