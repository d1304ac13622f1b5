package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/email"
	"github.com/dmitrymomot/authkit/pkg/metrics"
	"github.com/dmitrymomot/authkit/pkg/rbac"
	"github.com/dmitrymomot/authkit/pkg/validator"
)

const (
	// DefaultResetTokenTTL bounds how long a reset secret stays usable.
	DefaultResetTokenTTL = time.Hour

	resetSecretBytes = 32

	minNameLen     = 3
	minPasswordLen = 8
	maxPasswordLen = 72
)

// PasswordHasher abstracts the bcrypt wrapper so tests can substitute a
// cheap implementation.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) error
}

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID uuid.UUID, email, name, role string) (string, error)
}

// Service implements the credential flows on top of the injected
// collaborators.
type Service struct {
	store    UserStore
	hasher   PasswordHasher
	tokens   TokenIssuer
	mailer   email.Sender
	metrics  metrics.Recorder
	log      *slog.Logger
	now      func() time.Time
	resetTTL time.Duration
	resetURL string
}

// Option configures the service.
type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithMetrics(rec metrics.Recorder) Option {
	return func(s *Service) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithClock substitutes the time source, used by expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithResetTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.resetTTL = ttl
		}
	}
}

// WithResetBaseURL sets the base of the link embedded in reset emails,
// e.g. "https://app.example.com/reset-password".
func WithResetBaseURL(u string) Option {
	return func(s *Service) {
		s.resetURL = strings.TrimSuffix(u, "/")
	}
}

// NewService wires the credential service. All four collaborators are
// required.
func NewService(store UserStore, hasher PasswordHasher, tokens TokenIssuer, mailer email.Sender, opts ...Option) *Service {
	s := &Service{
		store:    store,
		hasher:   hasher,
		tokens:   tokens,
		mailer:   mailer,
		metrics:  noopRecorder{},
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		resetTTL: DefaultResetTokenTTL,
		resetURL: "/reset-password",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account with a hashed password and the default
// role. The email is lowercased before storage so lookups are
// case-insensitive.
func (s *Service) Register(ctx context.Context, name, email, password string) (User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if err := validator.Apply(
		validator.Required("name", name),
		validator.MinLen("name", name, minNameLen),
		validator.ValidEmail("email", email),
		validator.MinLen("password", password, minPasswordLen),
		validator.MaxLen("password", password, maxPasswordLen),
	); err != nil {
		return User{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.Create(ctx, User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         rbac.DefaultRole.String(),
	})
	if err != nil {
		return User{}, err
	}

	s.metrics.RecordRegistration()
	s.log.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials and issues an access token. Unknown email,
// deleted account and wrong password are indistinguishable to the
// caller.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (string, User, error) {
	emailAddr = normalizeEmail(emailAddr)

	if err := validator.Apply(
		validator.Required("email", emailAddr),
		validator.Required("password", password),
	); err != nil {
		return "", User{}, err
	}

	user, err := s.store.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.metrics.RecordLoginFailure()
			return "", User{}, ErrInvalidCredentials
		}
		return "", User{}, err
	}

	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		s.metrics.RecordLoginFailure()
		return "", User{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return "", User{}, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.RecordLoginSuccess()
	s.log.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return token, user, nil
}

// RequestPasswordReset stores a fresh single-use secret for the account
// and mails the reset link. A newly stored secret replaces any earlier
// one. If the mail cannot be sent the secret is cleared again, so no
// live token exists without a delivered email.
func (s *Service) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)

	if err := validator.Apply(validator.ValidEmail("email", emailAddr)); err != nil {
		return err
	}

	user, err := s.store.FindByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	secret, err := generateResetSecret()
	if err != nil {
		return fmt.Errorf("generate reset secret: %w", err)
	}

	expiresAt := s.now().Add(s.resetTTL)
	if err := s.store.SetResetToken(ctx, user.ID, secret, expiresAt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	msg := email.Message{
		To:      user.Email,
		Subject: "Reset your password",
		Tag:     "password-reset",
		BodyText: fmt.Sprintf(
			"Hi %s,\n\nFollow the link below to choose a new password. The link expires in %s.\n\n%s/%s\n\nIf you did not request this, you can ignore this email.",
			user.Name, s.resetTTL, s.resetURL, secret,
		),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		if clearErr := s.store.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.log.ErrorContext(ctx, "failed to clear reset token after delivery failure",
				"user_id", user.ID, "error", clearErr)
		}
		s.log.ErrorContext(ctx, "reset email delivery failed", "user_id", user.ID, "error", err)
		return errors.Join(ErrNotificationFailed, err)
	}

	s.metrics.RecordPasswordResetRequested()
	s.log.InfoContext(ctx, "password reset requested", "user_id", user.ID)
	return nil
}

// ResetPassword consumes a reset secret and sets the new password.
// Wrong and expired secrets fail identically. The consuming update
// matches the secret again, so a concurrent consume of the same secret
// succeeds at most once.
func (s *Service) ResetPassword(ctx context.Context, secret, newPassword string) error {
	if err := validator.Apply(
		validator.MinLen("password", newPassword, minPasswordLen),
		validator.MaxLen("password", newPassword, maxPasswordLen),
	); err != nil {
		return err
	}
	if secret == "" {
		return ErrInvalidResetToken
	}

	user, err := s.store.FindByValidResetToken(ctx, secret, s.now())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.UpdatePassword(ctx, user.ID, hash, secret); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	s.metrics.RecordPasswordResetCompleted()
	s.log.InfoContext(ctx, "password reset completed", "user_id", user.ID)
	return nil
}

func normalizeEmail(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// generateResetSecret returns a 32-byte random secret in URL-safe
// base64, fit for embedding in a reset link.
func generateResetSecret() (string, error) {
	buf := make([]byte, resetSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

type noopRecorder struct{}

func (noopRecorder) RecordLoginSuccess()                  {}
func (noopRecorder) RecordLoginFailure()                  {}
func (noopRecorder) RecordRegistration()                  {}
func (noopRecorder) RecordPasswordResetRequested()        {}
func (noopRecorder) RecordPasswordResetCompleted()        {}
func (noopRecorder) RecordRateLimitRejection(scope string) {}
