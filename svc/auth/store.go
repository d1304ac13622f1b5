package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore is the persistence contract for the credential flows.
// Implementations must treat soft-deleted rows as nonexistent on every
// path and return the package sentinels: ErrUserNotFound for misses and
// ErrEmailTaken for unique email violations.
type UserStore interface {
	// Create persists a new user and returns it with generated fields
	// populated.
	Create(ctx context.Context, user User) (User, error)

	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id uuid.UUID) (User, error)

	// SetResetToken stores a reset secret with its expiry, replacing any
	// previous one so at most one reset is live per user.
	SetResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error

	// ClearResetToken removes a pending reset secret, if any.
	ClearResetToken(ctx context.Context, userID uuid.UUID) error

	// FindByValidResetToken returns the user holding token, provided the
	// token has not expired at now. Expired, unknown and consumed tokens
	// all miss with ErrUserNotFound.
	FindByValidResetToken(ctx context.Context, token string, now time.Time) (User, error)

	// UpdatePassword sets a new password hash and clears the reset
	// fields in a single statement. When resetToken is non-empty the
	// update applies only while the stored token still matches, so of
	// two concurrent consumers exactly one succeeds and the other gets
	// ErrUserNotFound.
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash, resetToken string) error
}
