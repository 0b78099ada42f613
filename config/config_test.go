package config

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pcErrors "github.com/ezoic/plantcare/pkg/errors"
)

var envKeys = []string{
	"LOG_LEVEL", "HTTP_ADDR", "GIN_MODE", "HTTP_CACHE_SIZE",
	"TRAIN_LEARNING_RATE", "TRAIN_LAMBDA", "TRAIN_ITERATIONS", "TRAIN_SEED",
}

// clearEnv unsets every key for the duration of the test; an empty but set
// variable would bypass the defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "release", cfg.HTTP.GinMode)
	assert.Equal(t, 256, cfg.HTTP.CacheSize)
	assert.Equal(t, 0.01, cfg.Training.LearningRate)
	assert.Equal(t, 0.01, cfg.Training.Lambda)
	assert.Equal(t, 1000, cfg.Training.Iterations)
	assert.Equal(t, int64(-1), cfg.Training.Seed)
	assert.Len(t, cfg.Training.Options(), 4)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("GIN_MODE", "test")
	t.Setenv("TRAIN_LEARNING_RATE", "0.05")
	t.Setenv("TRAIN_ITERATIONS", "250")
	t.Setenv("TRAIN_SEED", "42")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.Equal(t, "test", cfg.HTTP.GinMode)
	assert.Equal(t, 0.05, cfg.Training.LearningRate)
	assert.Equal(t, 250, cfg.Training.Iterations)
	assert.Equal(t, int64(42), cfg.Training.Seed)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"LOG_LEVEL", "verbose"},
		{"GIN_MODE", "production"},
		{"HTTP_CACHE_SIZE", "-1"},
		{"TRAIN_LEARNING_RATE", "0"},
		{"TRAIN_LAMBDA", "-0.5"},
		{"TRAIN_ITERATIONS", "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.True(t, errors.Is(err, pcErrors.ErrInvalidInput))
		})
	}

	t.Run("unparsable number", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TRAIN_ITERATIONS", "many")
		_, err := Load()
		assert.Error(t, err)
	})
}
