package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is the account record the credential flows operate on.
// PasswordHash and the reset fields never leave the service layer.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}
