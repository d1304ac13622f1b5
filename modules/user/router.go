package user

import (
	"io"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/authkit/pkg/jwt"
	"github.com/dmitrymomot/authkit/pkg/rbac"
	"github.com/dmitrymomot/authkit/pkg/upload"
)

// Router mounts the user management endpoints behind the token
// middleware.
func Router(store Store, tokens *jwt.Service, storage upload.Storage, opts ...Option) chi.Router {
	h := &handler{
		store:   store,
		storage: storage,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(jwt.Middleware(tokens))

	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.With(rbac.Require(rbac.RoleAdmin)).Delete("/{id}", h.remove)
	r.Post("/{id}/profile-picture", h.uploadAvatar)

	return r
}

// Option configures the module.
type Option func(*handler)

func WithLogger(log *slog.Logger) Option {
	return func(h *handler) {
		if log != nil {
			h.log = log
		}
	}
}
