package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/authkit/modules/user"
	"github.com/dmitrymomot/authkit/pkg/pg"
	"github.com/dmitrymomot/authkit/svc/auth"
)

// UserStore implements auth.UserStore and user.Store on a pgx pool.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, COALESCE(avatar_url, ''), created_at, updated_at, deleted_at`

func scanUser(row pgx.Row) (auth.User, error) {
	var u auth.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.AvatarURL, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
	)
	return u, err
}

func (s *UserStore) Create(ctx context.Context, u auth.User) (auth.User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		uuid.New(), u.Name, u.Email, u.PasswordHash, u.Role,
	)

	created, err := scanUser(row)
	if err != nil {
		if pg.IsDuplicateKey(err) {
			return auth.User{}, auth.ErrEmailTaken
		}
		return auth.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (auth.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE email = $1 AND deleted_at IS NULL`,
		email,
	)

	u, err := scanUser(row)
	if err != nil {
		if pg.IsNotFound(err) {
			return auth.User{}, auth.ErrUserNotFound
		}
		return auth.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (auth.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)

	u, err := scanUser(row)
	if err != nil {
		if pg.IsNotFound(err) {
			return auth.User{}, auth.ErrUserNotFound
		}
		return auth.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (s *UserStore) SetResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET reset_token = $2, reset_token_expires_at = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`,
		userID, token, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) ClearResetToken(ctx context.Context, userID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET reset_token = NULL, reset_token_expires_at = NULL, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("clear reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) FindByValidResetToken(ctx context.Context, token string, now time.Time) (auth.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE reset_token = $1 AND reset_token_expires_at > $2 AND deleted_at IS NULL`,
		token, now,
	)

	u, err := scanUser(row)
	if err != nil {
		if pg.IsNotFound(err) {
			return auth.User{}, auth.ErrUserNotFound
		}
		return auth.User{}, fmt.Errorf("find user by reset token: %w", err)
	}
	return u, nil
}

// UpdatePassword sets the new hash and clears the reset fields in one
// statement. With a non-empty resetToken the WHERE clause re-matches the
// stored token, so a concurrent consume of the same secret updates zero
// rows and reports ErrUserNotFound.
func (s *UserStore) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash, resetToken string) error {
	query := `
		UPDATE users
		SET password_hash = $2, reset_token = NULL, reset_token_expires_at = NULL, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`
	args := []any{userID, passwordHash}
	if resetToken != "" {
		query += ` AND reset_token = $3`
		args = append(args, resetToken)
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) List(ctx context.Context, p user.ListParams) ([]auth.User, int64, error) {
	offset := (p.Page - 1) * p.Limit
	search := "%" + p.Search + "%"

	// name and email are NOT NULL, so the empty-search pattern "%%"
	// matches every live row.
	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE deleted_at IS NULL
		  AND (name ILIKE $1 OR email ILIKE $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		search, p.Limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []auth.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	var total int64
	err = s.pool.QueryRow(ctx, `
		SELECT count(*) FROM users
		WHERE deleted_at IS NULL
		  AND (name ILIKE $1 OR email ILIKE $1)`,
		search,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

func (s *UserStore) Get(ctx context.Context, id uuid.UUID) (auth.User, error) {
	return s.FindByID(ctx, id)
}

func (s *UserStore) Update(ctx context.Context, id uuid.UUID, p user.UpdateParams) (auth.User, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE users
		SET name = COALESCE($2, name), email = COALESCE($3, email), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+userColumns,
		id, p.Name, p.Email,
	)

	u, err := scanUser(row)
	if err != nil {
		switch {
		case pg.IsNotFound(err):
			return auth.User{}, auth.ErrUserNotFound
		case pg.IsDuplicateKey(err):
			return auth.User{}, auth.ErrEmailTaken
		}
		return auth.User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (s *UserStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) SetAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (auth.User, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE users
		SET avatar_url = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+userColumns,
		id, avatarURL,
	)

	u, err := scanUser(row)
	if err != nil {
		if pg.IsNotFound(err) {
			return auth.User{}, auth.ErrUserNotFound
		}
		return auth.User{}, fmt.Errorf("set avatar: %w", err)
	}
	return u, nil
}
