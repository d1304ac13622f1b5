package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/svc/auth"
)

// ListParams paginate and filter the user listing.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

// UpdateParams carry a partial profile update; nil fields stay as-is.
type UpdateParams struct {
	Name  *string
	Email *string
}

// Store is the persistence the module needs. Implementations must skip
// soft-deleted rows everywhere and use the svc/auth sentinels:
// auth.ErrUserNotFound for misses, auth.ErrEmailTaken for unique email
// conflicts on update.
type Store interface {
	List(ctx context.Context, p ListParams) ([]auth.User, int64, error)
	Get(ctx context.Context, id uuid.UUID) (auth.User, error)
	Update(ctx context.Context, id uuid.UUID, p UpdateParams) (auth.User, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	SetAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (auth.User, error)
}
