// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers defaults, an optional YAML file and UNIRANK_* env vars.
// - Errors wrap this package's sentinel kinds.
package config

import (
	"context"
	"fmt"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataPath is the rankings CSV loaded at startup.
	DataPath string `koanf:"data_path"`

	// MaxBins caps the number of distribution bins.
	MaxBins int `koanf:"max_bins"`

	// MaxTableRows caps the rows returned for the detail table; 0 means no cap.
	MaxTableRows int `koanf:"max_table_rows"`

	// RequestTimeoutMS bounds HTTP read and write time.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`
}

// New creates a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		DataPath:         "topuniversities.csv",
		MaxBins:          20,
		MaxTableRows:     0,
		RequestTimeoutMS: 10_000,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DataPath == "":
		return fmt.Errorf("%w: data_path must not be empty", ErrInvalidConfig)
	case c.MaxBins < 1:
		return fmt.Errorf("%w: max_bins must be at least 1", ErrInvalidConfig)
	case c.MaxTableRows < 0:
		return fmt.Errorf("%w: max_table_rows must not be negative", ErrInvalidConfig)
	case c.RequestTimeoutMS < 1:
		return fmt.Errorf("%w: request_timeout_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
