package rbac

import (
	"context"

	"github.com/dmitrymomot/authkit/pkg/jwt"
)

// RoleFromContext returns the role of the authenticated identity, read from
// the verified token claims the jwt middleware attached to the context.
func RoleFromContext(ctx context.Context) (Role, bool) {
	claims, ok := jwt.ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	role, err := ParseRole(claims.Role)
	if err != nil {
		return "", false
	}
	return role, true
}

// Check verifies that the identity in ctx holds one of the allowed roles.
// Returns ErrNotAuthenticated when no verified claims are present and
// ErrInsufficientRole when the role is outside the set.
func Check(ctx context.Context, allowed ...Role) error {
	role, ok := RoleFromContext(ctx)
	if !ok {
		return ErrNotAuthenticated
	}
	if !role.In(allowed...) {
		return ErrInsufficientRole
	}
	return nil
}
