package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/jwt"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := jwt.ClaimsFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-User", claims.Email)
		w.WriteHeader(http.StatusOK)
	})
	handler := jwt.Middleware(svc)(next)

	t.Run("valid token passes and claims reach handler", func(t *testing.T) {
		token, err := svc.Issue(uuid.New(), "ann@x.io", "Ann", "user")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ann@x.io", rec.Header().Get("X-User"))
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	})

	t.Run("malformed scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired and invalid tokens are indistinguishable", func(t *testing.T) {
		shortLived, err := jwt.New(jwt.Config{SigningKey: testSigningKey, TokenTTL: time.Nanosecond})
		require.NoError(t, err)
		expired, err := shortLived.Issue(uuid.New(), "ann@x.io", "Ann", "user")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)

		for _, token := range []string{expired, "garbage"} {
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
		}
	})

	t.Run("skip func bypasses verification", func(t *testing.T) {
		skipping := jwt.MiddlewareWithConfig(jwt.MiddlewareConfig{
			Service: svc,
			Skip:    func(r *http.Request) bool { return r.URL.Path == "/health" },
		})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()

		skipping.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestBearerTokenExtractor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"empty header", "", "", false},
		{"no scheme", "abc.def.ghi", "", false},
		{"wrong scheme", "Token abc", "", false},
		{"empty token", "Bearer ", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			token, err := jwt.BearerTokenExtractor(req)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.token, token)
			} else {
				require.ErrorIs(t, err, jwt.ErrMissingToken)
			}
		})
	}
}
