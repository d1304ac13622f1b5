package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/authkit/svc/auth"
)

// Router mounts the credential endpoints. The limiter middleware, when
// given, wraps every route in this module.
func Router(svc *auth.Service, opts ...Option) chi.Router {
	h := newHandler(svc, opts...)

	r := chi.NewRouter()
	if h.limiter != nil {
		r.Use(h.limiter)
	}

	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/forgot-password", h.forgotPassword)
	r.Post("/reset-password/{token}", h.resetPassword)

	return r
}

// Option configures the module.
type Option func(*handler)

// WithLimiter sets the rate limit middleware for the whole module.
func WithLimiter(mw func(http.Handler) http.Handler) Option {
	return func(h *handler) { h.limiter = mw }
}
