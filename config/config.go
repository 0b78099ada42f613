// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/ezoic/plantcare/advisor"
	pcErrors "github.com/ezoic/plantcare/pkg/errors"
)

type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Training TrainingConfig
}

type AppConfig struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type HTTPConfig struct {
	Addr      string `envconfig:"HTTP_ADDR" default:":8080"`
	GinMode   string `envconfig:"GIN_MODE" default:"release"`
	CacheSize int    `envconfig:"HTTP_CACHE_SIZE" default:"256"` // 0 disables
}

// TrainingConfig holds the classifier hyperparameters.
type TrainingConfig struct {
	LearningRate float64 `envconfig:"TRAIN_LEARNING_RATE" default:"0.01"`
	Lambda       float64 `envconfig:"TRAIN_LAMBDA" default:"0.01"`
	Iterations   int     `envconfig:"TRAIN_ITERATIONS" default:"1000"`
	Seed         int64   `envconfig:"TRAIN_SEED" default:"-1"` // -1 = time-seeded
}

// Options converts the training settings to advisor options.
func (c TrainingConfig) Options() []advisor.Option {
	return []advisor.Option{
		advisor.WithLearningRate(c.LearningRate),
		advisor.WithLambda(c.Lambda),
		advisor.WithIterations(c.Iterations),
		advisor.WithSeed(c.Seed),
	}
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, pcErrors.Wrap(err, "failed to process env config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	switch c.App.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return pcErrors.NewValidationError("LOG_LEVEL",
			"must be one of debug, info, warn, error", c.App.LogLevel)
	}
	switch c.HTTP.GinMode {
	case "debug", "release", "test":
	default:
		return pcErrors.NewValidationError("GIN_MODE",
			"must be one of debug, release, test", c.HTTP.GinMode)
	}
	if c.HTTP.CacheSize < 0 {
		return pcErrors.NewValidationError("HTTP_CACHE_SIZE", "must be >= 0", c.HTTP.CacheSize)
	}
	if !(c.Training.LearningRate > 0) {
		return pcErrors.NewValidationError("TRAIN_LEARNING_RATE", "must be > 0", c.Training.LearningRate)
	}
	if !(c.Training.Lambda >= 0) {
		return pcErrors.NewValidationError("TRAIN_LAMBDA", "must be >= 0", c.Training.Lambda)
	}
	if c.Training.Iterations <= 0 {
		return pcErrors.NewValidationError("TRAIN_ITERATIONS",
			fmt.Sprintf("must be > 0, got %d", c.Training.Iterations), c.Training.Iterations)
	}
	return nil
}
