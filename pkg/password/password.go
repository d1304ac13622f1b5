package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when no explicit cost is given.
const DefaultCost = bcrypt.DefaultCost

var (
	ErrMismatch    = errors.New("password: hash does not match")
	ErrEmptyInput  = errors.New("password: empty password")
	ErrHashTooLong = errors.New("password: password exceeds 72 bytes")
)

// Hasher hashes and verifies passwords with a fixed bcrypt cost.
type Hasher struct {
	cost int
}

// New creates a Hasher with the given bcrypt cost. Costs outside the valid
// bcrypt range fall back to DefaultCost rather than failing at runtime.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of plain. The raw password is never stored or
// logged by this package.
func (h *Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrHashTooLong
		}
		return "", err
	}
	return string(hash), nil
}

// Verify compares a stored bcrypt hash with a candidate password.
// Returns ErrMismatch on any failed comparison so callers cannot distinguish
// a malformed hash from a wrong password.
func (h *Hasher) Verify(hash, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		return ErrMismatch
	}
	return nil
}
