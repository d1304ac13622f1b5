package auth

import "errors"

var (
	// ErrEmailTaken is returned when registering with an email that
	// already belongs to a live account.
	ErrEmailTaken = errors.New("email is already taken")

	// ErrInvalidCredentials covers unknown email, deleted account and
	// wrong password alike, so a caller cannot probe which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound is returned by lookups that miss, including
	// soft-deleted accounts.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidResetToken covers unknown, already-consumed and expired
	// reset secrets alike.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")

	// ErrNotificationFailed is returned when the reset email could not
	// be delivered. The stored reset token is cleared first.
	ErrNotificationFailed = errors.New("failed to send notification email")
)
