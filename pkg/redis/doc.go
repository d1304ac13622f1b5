// Package redis provides Redis client construction with retry and a
// healthcheck helper. The client backs the distributed rate limit store.
package redis
