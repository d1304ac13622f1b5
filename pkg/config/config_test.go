package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/config"
)

func TestLoad(t *testing.T) {
	type testConfig struct {
		Host    string        `env:"TEST_CFG_HOST" envDefault:"localhost"`
		Port    int           `env:"TEST_CFG_PORT" envDefault:"5432"`
		Timeout time.Duration `env:"TEST_CFG_TIMEOUT" envDefault:"30s"`
	}

	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.Load[testConfig]()
		require.NoError(t, err)
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 5432, cfg.Port)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_CFG_HOST", "db.internal")
		t.Setenv("TEST_CFG_PORT", "6543")

		cfg, err := config.Load[testConfig]()
		require.NoError(t, err)
		assert.Equal(t, "db.internal", cfg.Host)
		assert.Equal(t, 6543, cfg.Port)
	})

	t.Run("required missing", func(t *testing.T) {
		type strictConfig struct {
			Secret string `env:"TEST_CFG_ABSENT_SECRET,required"`
		}

		_, err := config.Load[strictConfig]()
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("TEST_CFG_PORT", "not-a-number")

		_, err := config.Load[testConfig]()
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}
