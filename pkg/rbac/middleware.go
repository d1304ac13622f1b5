package rbac

import (
	"errors"
	"net/http"
)

// Require returns middleware that admits only identities whose role is in the
// allowed set. Unauthenticated requests get 401, authenticated requests with
// an insufficient role get 403. Mount strictly after jwt.Middleware.
func Require(allowed ...Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := Check(r.Context(), allowed...); err != nil {
				if errors.Is(err, ErrNotAuthenticated) {
					writeJSONError(w, http.StatusUnauthorized, `{"error":"Unauthorized"}`)
					return
				}
				writeJSONError(w, http.StatusForbidden, `{"message":"Forbidden: Access is denied"}`)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
