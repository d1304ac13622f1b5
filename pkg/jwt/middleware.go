package jwt

import (
	"log/slog"
	"net/http"
	"strings"
)

// TokenExtractorFunc extracts a token string from an HTTP request.
type TokenExtractorFunc func(r *http.Request) (string, error)

// SkipFunc decides whether a request bypasses token verification.
type SkipFunc func(r *http.Request) bool

// MiddlewareConfig configures the authentication middleware.
type MiddlewareConfig struct {
	Service   *Service           // token service for verification
	Extractor TokenExtractorFunc // defaults to BearerTokenExtractor
	Skip      SkipFunc           // optional request filter
	Logger    *slog.Logger       // optional; records the failure kind server-side
}

// Middleware returns authentication middleware with default Bearer extraction.
// Every failure — missing header, malformed scheme, bad signature, expired
// token — produces the same generic 401 so callers cannot probe token state.
func Middleware(service *Service) func(next http.Handler) http.Handler {
	return MiddlewareWithConfig(MiddlewareConfig{Service: service})
}

// MiddlewareWithConfig returns authentication middleware with custom config.
func MiddlewareWithConfig(cfg MiddlewareConfig) func(next http.Handler) http.Handler {
	if cfg.Extractor == nil {
		cfg.Extractor = BearerTokenExtractor
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, err := cfg.Extractor(r)
			if err != nil {
				unauthorized(w)
				return
			}

			claims, err := cfg.Service.Verify(tokenString)
			if err != nil {
				// The distinction between expired and invalid stays in the
				// server log; the response is identical either way.
				if cfg.Logger != nil {
					cfg.Logger.DebugContext(r.Context(), "token rejected",
						slog.String("reason", err.Error()),
					)
				}
				unauthorized(w)
				return
			}

			ctx := SetToken(r.Context(), tokenString)
			ctx = SetClaims(ctx, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerTokenExtractor extracts tokens from "Authorization: Bearer <token>"
// headers per RFC 6750.
func BearerTokenExtractor(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrMissingToken
	}

	return parts[1], nil
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}
