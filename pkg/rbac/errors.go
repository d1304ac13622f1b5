package rbac

import "errors"

var (
	// ErrNotAuthenticated indicates no verified claims were found in the
	// request context; the jwt middleware did not run or rejected the token.
	ErrNotAuthenticated = errors.New("rbac: no authenticated identity in context")

	// ErrInsufficientRole indicates an authenticated identity whose role is
	// outside the required set.
	ErrInsufficientRole = errors.New("rbac: role not allowed")

	// ErrUnknownRole indicates a role claim outside the known set.
	ErrUnknownRole = errors.New("rbac: unknown role")
)
