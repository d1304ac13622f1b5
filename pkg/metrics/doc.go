// Package metrics collects Prometheus metrics for the HTTP surface and
// the authentication flows, and exposes them for scraping.
package metrics
