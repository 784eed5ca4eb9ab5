package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorly/entitlement/pkg/config"
)

type testConfig struct {
	Host    string        `env:"TEST_CFG_HOST" envDefault:"localhost"`
	Port    int           `env:"TEST_CFG_PORT" envDefault:"6379"`
	Timeout time.Duration `env:"TEST_CFG_TIMEOUT" envDefault:"5s"`
}

type requiredConfig struct {
	Secret string `env:"TEST_CFG_SECRET,required"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults when env is empty", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 6379, cfg.Port)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("reads values from environment", func(t *testing.T) {
		t.Setenv("TEST_CFG_HOST", "redis.internal")
		t.Setenv("TEST_CFG_PORT", "6380")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "redis.internal", cfg.Host)
		assert.Equal(t, 6380, cfg.Port)
	})

	t.Run("fails on missing required variable", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParseFailed)
	})

	t.Run("rejects nil pointer", func(t *testing.T) {
		err := config.Load[testConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilConfig)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on missing required variable", func(t *testing.T) {
		assert.Panics(t, func() {
			config.MustLoad(&requiredConfig{})
		})
	})

	t.Run("returns populated config", func(t *testing.T) {
		t.Setenv("TEST_CFG_SECRET", "s3cret")
		cfg := config.MustLoad(&requiredConfig{})
		assert.Equal(t, "s3cret", cfg.Secret)
	})
}
