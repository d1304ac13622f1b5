// Package jwt issues and verifies the signed bearer tokens used to
// authenticate API requests.
//
// Tokens are stateless claim bundles built on github.com/golang-jwt/jwt/v5:
// user id, email, name, and role plus the registered jti/iat/exp claims. The
// service signs with HMAC-SHA256 and a single server secret. Verification pins
// the algorithm to HS256 before any claim is trusted, so a token whose header
// declares a different algorithm is rejected outright regardless of its
// signature.
//
// # Architecture
//
//   - Service – issues and verifies tokens (pure CPU work, no I/O).
//   - middleware.go – HTTP middleware that extracts a Bearer token, verifies
//     it, and injects the claims into the request context.
//   - context.go – helpers to read verified claims downstream.
//   - errors.go – sentinel error values returned by the package.
//
// # Usage
//
//	svc, err := jwt.New(jwt.Config{SigningKey: secret, TokenTTL: 24 * time.Hour})
//	token, err := svc.Issue(userID, "ann@x.io", "Ann", "user")
//
//	claims, err := svc.Verify(token)
//	switch {
//	case errors.Is(err, jwt.ErrExpiredToken):
//	case errors.Is(err, jwt.ErrInvalidSignature):
//	}
//
// # Error Handling
//
// Verify collapses library errors into the package sentinels so callers can
// branch with errors.Is without importing golang-jwt. HTTP middleware callers
// should return a single generic 401 for every verification failure; the
// distinction is for server-side logging only.
package jwt
