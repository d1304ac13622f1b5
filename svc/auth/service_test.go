package auth_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/email"
	"github.com/dmitrymomot/authkit/pkg/validator"
	"github.com/dmitrymomot/authkit/svc/auth"
)

// memStore is an in-memory UserStore with the same observable semantics
// the postgres adapter provides.
type memStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*auth.User

	resetTokens  map[uuid.UUID]string
	resetExpires map[uuid.UUID]time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[uuid.UUID]*auth.User),
		resetTokens:  make(map[uuid.UUID]string),
		resetExpires: make(map[uuid.UUID]time.Time),
	}
}

func (m *memStore) Create(ctx context.Context, user auth.User) (auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email && u.DeletedAt == nil {
			return auth.User{}, auth.ErrEmailTaken
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = &user
	return user, nil
}

func (m *memStore) FindByEmail(ctx context.Context, emailAddr string) (auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == emailAddr && u.DeletedAt == nil {
			return *u, nil
		}
	}
	return auth.User{}, auth.ErrUserNotFound
}

func (m *memStore) FindByID(ctx context.Context, id uuid.UUID) (auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok && u.DeletedAt == nil {
		return *u, nil
	}
	return auth.User{}, auth.ErrUserNotFound
}

func (m *memStore) SetResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetTokens[userID] = token
	m.resetExpires[userID] = expiresAt
	return nil
}

func (m *memStore) ClearResetToken(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.resetTokens, userID)
	delete(m.resetExpires, userID)
	return nil
}

func (m *memStore) FindByValidResetToken(ctx context.Context, token string, now time.Time) (auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, stored := range m.resetTokens {
		if stored == token && now.Before(m.resetExpires[id]) {
			if u, ok := m.users[id]; ok && u.DeletedAt == nil {
				return *u, nil
			}
		}
	}
	return auth.User{}, auth.ErrUserNotFound
}

func (m *memStore) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash, resetToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.DeletedAt != nil {
		return auth.ErrUserNotFound
	}
	if resetToken != "" && m.resetTokens[userID] != resetToken {
		return auth.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	delete(m.resetTokens, userID)
	delete(m.resetExpires, userID)
	return nil
}

// fakeHasher keeps tests fast; the real bcrypt wrapper has its own tests.
type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (fakeHasher) Verify(hash, plain string) error {
	if hash != "hashed:"+plain {
		return errors.New("mismatch")
	}
	return nil
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(userID uuid.UUID, email, name, role string) (string, error) {
	return fmt.Sprintf("token-for-%s", userID), nil
}

type capturingSender struct {
	mu       sync.Mutex
	messages []email.Message
	err      error
}

func (s *capturingSender) Send(ctx context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *capturingSender) last(t *testing.T) email.Message {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.messages)
	return s.messages[len(s.messages)-1]
}

type testEnv struct {
	svc    *auth.Service
	store  *memStore
	sender *capturingSender
	now    time.Time
}

func newTestEnv(t *testing.T, opts ...auth.Option) *testEnv {
	t.Helper()
	env := &testEnv{
		store:  newMemStore(),
		sender: &capturingSender{},
		now:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	opts = append([]auth.Option{
		auth.WithClock(func() time.Time { return env.now }),
		auth.WithResetBaseURL("https://app.example.com/reset-password"),
	}, opts...)
	env.svc = auth.NewService(env.store, fakeHasher{}, fakeIssuer{}, env.sender, opts...)
	return env
}

func (e *testEnv) register(t *testing.T, name, emailAddr, password string) auth.User {
	t.Helper()
	user, err := e.svc.Register(context.Background(), name, emailAddr, password)
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates user with hashed password and default role", func(t *testing.T) {
		env := newTestEnv(t)

		user, err := env.svc.Register(ctx, "Alice", "Alice@Example.COM", "s3cretpass")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "user", user.Role)
		assert.NotEqual(t, "s3cretpass", user.PasswordHash)
	})

	t.Run("duplicate email", func(t *testing.T) {
		env := newTestEnv(t)
		env.register(t, "Alice", "alice@example.com", "s3cretpass")

		_, err := env.svc.Register(ctx, "Other Alice", "alice@example.com", "different1")
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})

	t.Run("validation failures", func(t *testing.T) {
		env := newTestEnv(t)

		cases := []struct {
			name, userName, email, password, field string
		}{
			{"short name", "Al", "alice@example.com", "s3cretpass", "name"},
			{"bad email", "Alice", "not-an-email", "s3cretpass", "email"},
			{"short password", "Alice", "alice@example.com", "short", "password"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := env.svc.Register(ctx, tc.userName, tc.email, tc.password)
				require.Error(t, err)
				ve := validator.Extract(err)
				require.NotNil(t, ve, "expected validation error")
				assert.True(t, ve.Has(tc.field))
			})
		}
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success issues token", func(t *testing.T) {
		env := newTestEnv(t)
		registered := env.register(t, "Alice", "alice@example.com", "s3cretpass")

		token, user, err := env.svc.Login(ctx, "ALICE@example.com", "s3cretpass")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.Equal(t, fmt.Sprintf("token-for-%s", registered.ID), token)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		env := newTestEnv(t)
		env.register(t, "Alice", "alice@example.com", "s3cretpass")

		_, _, errUnknown := env.svc.Login(ctx, "nobody@example.com", "s3cretpass")
		_, _, errWrongPass := env.svc.Login(ctx, "alice@example.com", "wrongwrong")

		assert.ErrorIs(t, errUnknown, auth.ErrInvalidCredentials)
		assert.ErrorIs(t, errWrongPass, auth.ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
	})

	t.Run("missing fields fail validation before store access", func(t *testing.T) {
		env := newTestEnv(t)

		_, _, err := env.svc.Login(ctx, "", "")
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))
	})

	t.Run("soft-deleted user cannot log in", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.register(t, "Alice", "alice@example.com", "s3cretpass")

		deletedAt := time.Now()
		env.store.users[user.ID].DeletedAt = &deletedAt

		_, _, err := env.svc.Login(ctx, "alice@example.com", "s3cretpass")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestRequestPasswordReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stores secret and mails the link", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.register(t, "Alice", "alice@example.com", "s3cretpass")

		require.NoError(t, env.svc.RequestPasswordReset(ctx, "alice@example.com"))

		secret := env.store.resetTokens[user.ID]
		require.NotEmpty(t, secret)
		assert.Equal(t, env.now.Add(time.Hour), env.store.resetExpires[user.ID])

		msg := env.sender.last(t)
		assert.Equal(t, "alice@example.com", msg.To)
		assert.Contains(t, msg.BodyText, "https://app.example.com/reset-password/"+secret)
	})

	t.Run("unknown email", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.svc.RequestPasswordReset(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("delivery failure clears the stored secret", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.register(t, "Alice", "alice@example.com", "s3cretpass")
		env.sender.err = errors.New("smtp down")

		err := env.svc.RequestPasswordReset(ctx, "alice@example.com")
		assert.ErrorIs(t, err, auth.ErrNotificationFailed)
		assert.Empty(t, env.store.resetTokens[user.ID])
	})

	t.Run("second request replaces the first secret", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.register(t, "Alice", "alice@example.com", "s3cretpass")

		require.NoError(t, env.svc.RequestPasswordReset(ctx, "alice@example.com"))
		first := env.store.resetTokens[user.ID]
		require.NoError(t, env.svc.RequestPasswordReset(ctx, "alice@example.com"))
		second := env.store.resetTokens[user.ID]

		require.NotEqual(t, first, second)
		assert.ErrorIs(t, env.svc.ResetPassword(ctx, first, "newpassword1"), auth.ErrInvalidResetToken)
		assert.NoError(t, env.svc.ResetPassword(ctx, second, "newpassword1"))
	})
}

func TestResetPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// requestReset runs the full request flow and returns the live secret.
	requestReset := func(t *testing.T, env *testEnv, user auth.User) string {
		t.Helper()
		require.NoError(t, env.svc.RequestPasswordReset(ctx, user.Email))
		secret := env.store.resetTokens[user.ID]
		require.NotEmpty(t, secret)
		return secret
	}

	t.Run("consumes secret and sets new password", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.register(t, "Alice", "alice@example.com", "s3cretpass")
		secret := requestReset(t, env, user)

		require.NoError(t, env.svc.ResetPassword(ctx, secret, "newpassword1"))

		_, _, err := env.svc.Login(ctx, "alice@example.com", "newpassword1")
		assert.NoError(t, err)
		_, _, err = env.svc.Login(ctx, "alice@example.com", "s3cretpass")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("secret is single use", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.register(t, "Alice", "alice@example.com", "s3cretpass")
		secret := requestReset(t, env, user)

		require.NoError(t, env.svc.ResetPassword(ctx, secret, "newpassword1"))
		err := env.svc.ResetPassword(ctx, secret, "anotherpass2")
		assert.ErrorIs(t, err, auth.ErrInvalidResetToken)

		_, _, loginErr := env.svc.Login(ctx, "alice@example.com", "newpassword1")
		assert.NoError(t, loginErr, "failed second attempt must not disturb the first reset")
	})

	t.Run("expired secret fails like a wrong one", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.register(t, "Alice", "alice@example.com", "s3cretpass")
		secret := requestReset(t, env, user)

		env.now = env.now.Add(time.Hour + time.Minute)

		errExpired := env.svc.ResetPassword(ctx, secret, "newpassword1")
		errWrong := env.svc.ResetPassword(ctx, "bogus-secret", "newpassword1")
		assert.ErrorIs(t, errExpired, auth.ErrInvalidResetToken)
		assert.ErrorIs(t, errWrong, auth.ErrInvalidResetToken)
		assert.Equal(t, errExpired.Error(), errWrong.Error())
	})

	t.Run("weak new password rejected before token lookup", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.svc.ResetPassword(ctx, "whatever", "short")
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))
	})

	t.Run("empty secret rejected", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.svc.ResetPassword(ctx, "", "newpassword1")
		assert.ErrorIs(t, err, auth.ErrInvalidResetToken)
	})
}
