package validator_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all rules pass", func(t *testing.T) {
		err := validator.Apply(
			validator.Required("name", "Alice"),
			validator.MinLen("name", "Alice", 3),
			validator.ValidEmail("email", "alice@example.com"),
		)
		assert.NoError(t, err)
	})

	t.Run("collects all failures", func(t *testing.T) {
		err := validator.Apply(
			validator.MinLen("name", "Al", 3),
			validator.ValidEmail("email", "nope"),
			validator.MinLen("password", "short", 8),
		)
		require.Error(t, err)

		ve := validator.Extract(err)
		require.Len(t, ve, 3)
		assert.Equal(t, []string{"name", "email", "password"}, ve.Fields())
		assert.True(t, ve.Has("password"))
		assert.False(t, ve.Has("role"))
	})

	t.Run("by field grouping", func(t *testing.T) {
		err := validator.Apply(
			validator.Required("email", ""),
			validator.ValidEmail("email", ""),
		)
		ve := validator.Extract(err)
		require.NotNil(t, ve)
		assert.Len(t, ve.ByField()["email"], 2)
	})

	t.Run("wrapped error still extractable", func(t *testing.T) {
		err := validator.Apply(validator.Required("name", ""))
		wrapped := fmt.Errorf("register: %w", err)
		assert.True(t, validator.IsValidationError(wrapped))
		assert.NotNil(t, validator.Extract(wrapped))
	})
}

func TestRules(t *testing.T) {
	t.Parallel()

	t.Run("required", func(t *testing.T) {
		assert.True(t, validator.Required("f", "x").Check())
		assert.False(t, validator.Required("f", "").Check())
		assert.False(t, validator.Required("f", "   ").Check())
	})

	t.Run("min len", func(t *testing.T) {
		assert.True(t, validator.MinLen("f", "abcdefgh", 8).Check())
		assert.False(t, validator.MinLen("f", "abcdefg", 8).Check())
	})

	t.Run("max len", func(t *testing.T) {
		assert.True(t, validator.MaxLen("f", "abc", 3).Check())
		assert.False(t, validator.MaxLen("f", "abcd", 3).Check())
	})

	t.Run("valid email", func(t *testing.T) {
		valid := []string{"user@example.com", "first.last@sub.example.org", "a+tag@example.io"}
		for _, v := range valid {
			assert.True(t, validator.ValidEmail("email", v).Check(), v)
		}

		invalid := []string{"", "plain", "@example.com", "user@localhost", "user@.com", "Name <user@example.com>"}
		for _, v := range invalid {
			assert.False(t, validator.ValidEmail("email", v).Check(), v)
		}
	})

	t.Run("one of", func(t *testing.T) {
		assert.True(t, validator.OneOf("role", "admin", "user", "admin").Check())
		assert.False(t, validator.OneOf("role", "root", "user", "admin").Check())
	})
}
