// Package clientip resolves the client's source address from an HTTP
// request, looking through the proxy headers common in front of an API
// before falling back to the socket address. The resolved address is the
// rate limiter's per-client key.
package clientip
