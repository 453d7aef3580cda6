// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New(ctx) returns a Config populated with defaults.
// - Load(ctx) layers a YAML file and environment variables on top.
// - Errors wrap this package's sentinels so callers can use errors.Is.
package config

import (
	"context"
	"fmt"
	"runtime"

	"github.com/okian/stageorder/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// WorkerCount sets the number of batch scheduling workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the batch job queue.
	QueueSize int `koanf:"queue_size"`

	// BatchLimit caps the number of lineups in one batch request.
	BatchLimit int `koanf:"batch_limit"`

	// AuthSecret enables HS256 bearer authentication on /api/v1 when set.
	AuthSecret string `koanf:"auth_secret"`

	// PreferenceLocale picks the keyword table for band notes: ja, en or all.
	PreferenceLocale string `koanf:"preference_locale"`

	// LineupFile seeds the in-memory lineup store (YAML or JSON).
	LineupFile string `koanf:"lineup_file"`

	// DatabaseURL switches the lineup store to Postgres when set.
	DatabaseURL string `koanf:"database_url"`

	// Weights overrides the scheduler's score terms.
	Weights scoring.Weights `koanf:"weights"`
}

// New creates a Config with defaults. The context is accepted to follow the
// project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		WorkerCount:      runtime.NumCPU(),
		QueueSize:        1024,
		BatchLimit:       64,
		PreferenceLocale: "ja",
		Weights:          scoring.DefaultWeights(),
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.BatchLimit <= 0:
		return fmt.Errorf("%w: batch_limit must be positive", ErrInvalidConfig)
	}
	switch c.PreferenceLocale {
	case "ja", "en", "all":
	default:
		return fmt.Errorf("%w: unknown preference_locale %q", ErrInvalidConfig, c.PreferenceLocale)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
