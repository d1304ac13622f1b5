package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// signingMethod is the only algorithm the service ever signs with or accepts.
// Pinning a single method closes algorithm-substitution attacks.
var signingMethod = gojwt.SigningMethodHS256

// DefaultTokenTTL is the access token lifetime applied when Config.TokenTTL
// is zero. There is no refresh flow; expiry forces re-authentication.
const DefaultTokenTTL = 24 * time.Hour

// Config holds token issuance policy.
type Config struct {
	SigningKey string        `env:"JWT_SIGNING_KEY,required"`
	TokenTTL   time.Duration `env:"JWT_TOKEN_TTL" envDefault:"24h"`
	Issuer     string        `env:"JWT_ISSUER" envDefault:"authkit"`
}

// AccessClaims is the claim bundle carried by every access token.
// The jti claim is a random UUID so individual tokens stay distinguishable
// if a revocation store is added later; it is not checked against anything
// today.
type AccessClaims struct {
	gojwt.RegisteredClaims

	UserID uuid.UUID `json:"uid"`
	Email  string    `json:"email"`
	Name   string    `json:"name,omitempty"`
	Role   string    `json:"role"`
}

// Service signs and verifies access tokens. Both operations are pure CPU
// work and safe for concurrent use.
type Service struct {
	signingKey []byte
	tokenTTL   time.Duration
	issuer     string
}

// New creates a token service from config. The signing key must be non-empty;
// at least 32 bytes is recommended for HMAC-SHA256.
func New(cfg Config) (*Service, error) {
	if cfg.SigningKey == "" {
		return nil, ErrMissingSigningKey
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{
		signingKey: []byte(cfg.SigningKey),
		tokenTTL:   ttl,
		issuer:     cfg.Issuer,
	}, nil
}

// Issue creates a signed access token for the given identity.
func (s *Service) Issue(userID uuid.UUID, email, name, role string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		UserID: userID,
		Email:  email,
		Name:   name,
		Role:   role,
	}

	return gojwt.NewWithClaims(signingMethod, claims).SignedString(s.signingKey)
}

// TokenTTL returns the configured access token lifetime.
func (s *Service) TokenTTL() time.Duration {
	return s.tokenTTL
}

// Verify parses and validates a token string and returns its claims.
// A token is valid iff the signature verifies with the server secret, the
// header algorithm is exactly HS256, and exp is in the future. Failures are
// mapped onto the package sentinels.
func (s *Service) Verify(tokenString string) (AccessClaims, error) {
	var claims AccessClaims

	// The algorithm check lives in the keyfunc because it runs before
	// signature verification: a token declaring any other method is refused
	// without its signature ever being considered.
	token, err := gojwt.ParseWithClaims(tokenString, &claims, func(t *gojwt.Token) (any, error) {
		if t.Method.Alg() != signingMethod.Alg() {
			return nil, ErrUnexpectedSigningMethod
		}
		return s.signingKey, nil
	}, gojwt.WithIssuedAt())
	if err != nil {
		switch {
		case errors.Is(err, ErrUnexpectedSigningMethod):
			return AccessClaims{}, ErrUnexpectedSigningMethod
		case errors.Is(err, gojwt.ErrTokenExpired):
			return AccessClaims{}, ErrExpiredToken
		case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
			return AccessClaims{}, ErrInvalidSignature
		case errors.Is(err, gojwt.ErrTokenMalformed):
			return AccessClaims{}, ErrMalformedToken
		default:
			return AccessClaims{}, ErrInvalidToken
		}
	}
	if !token.Valid {
		return AccessClaims{}, ErrInvalidToken
	}

	return claims, nil
}
