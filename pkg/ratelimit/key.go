package ratelimit

import (
	"net/http"

	"github.com/dmitrymomot/authkit/pkg/clientip"
)

// KeyFunc extracts the rate limit key from a request. An empty key means
// the request is not subject to limiting.
type KeyFunc func(r *http.Request) string

// ByClientIP keys the budget on the client's source address, namespaced so
// different budgets (global vs auth) count independently for the same client.
func ByClientIP(namespace string) KeyFunc {
	return func(r *http.Request) string {
		ip := clientip.GetIP(r)
		if ip == "" {
			return ""
		}
		if namespace == "" {
			return ip
		}
		return namespace + ":" + ip
	}
}
