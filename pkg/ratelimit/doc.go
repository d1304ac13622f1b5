// Package ratelimit bounds per-client request rates to slow brute-force and
// credential-stuffing attempts against authentication endpoints.
//
// The limiter counts requests per key inside a fixed window: the first request
// from a key opens a window, subsequent requests increment the counter, and
// the counter disappears when the window elapses. Windows expire lazily on
// next access — there is no per-key timer. State lives behind the Store
// interface with two backends: an in-process MemoryStore and a RedisStore for
// multi-instance deployments.
//
// # Usage
//
//	limiter, _ := ratelimit.NewFixedWindow(ratelimit.NewMemoryStore(), 5, 15*time.Minute)
//	r.Use(ratelimit.Middleware(limiter, ratelimit.ByClientIP("auth")))
//
// The middleware sets X-RateLimit-Limit, X-RateLimit-Remaining, and
// X-RateLimit-Reset on every response, and answers an exhausted budget with
// 429 plus a Retry-After hint. Store errors fail open: an unavailable backend
// must not take the API down with it.
package ratelimit
