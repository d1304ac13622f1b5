// Package httpserver wraps http.Server with env-driven configuration,
// graceful shutdown on SIGINT/SIGTERM or context cancellation, and a
// health endpoint handler that doubles as liveness and readiness probe.
package httpserver
