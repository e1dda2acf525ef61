// Package config loads r2x-plexos settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/r2x-project/r2x-go/pkg/plexos"
)

// ErrInvalidConfig is returned by Validate and Load for unusable settings.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the settings shared by the loader, the store and the CLI.
type Config struct {
	// PercentScale is "percent" (5 means 5 %) or "fraction" (0.05 means 5 %).
	PercentScale string `yaml:"percent_scale"`

	// DisallowUnknownFields rejects records carrying keys outside the schema.
	DisallowUnknownFields bool `yaml:"disallow_unknown_fields"`

	// HeatRateShapeCheck requires load_points and heat_rate_incr to have the
	// same length.
	HeatRateShapeCheck bool `yaml:"heat_rate_shape_check"`

	// EventLog is the path of the translation event log. Empty disables it.
	EventLog string `yaml:"event_log"`

	// Database is the SQLite path used by import. Empty means in-memory.
	Database string `yaml:"database"`

	// LogLevel is the slog level: debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		PercentScale:       plexos.PercentScaleHundred.String(),
		HeatRateShapeCheck: true,
		LogLevel:           "info",
	}
}

// Load reads a YAML config file. Keys missing from the file keep their
// defaults; unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Parse decodes YAML config content over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if _, err := plexos.ParsePercentScale(c.PercentScale); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// PlexosOptions returns the schema options selected by the config.
func (c *Config) PlexosOptions() []plexos.Option {
	var opts []plexos.Option
	if scale, err := plexos.ParsePercentScale(c.PercentScale); err == nil {
		opts = append(opts, plexos.WithPercentScale(scale))
	}
	if c.DisallowUnknownFields {
		opts = append(opts, plexos.WithDisallowUnknownFields())
	}
	if !c.HeatRateShapeCheck {
		opts = append(opts, plexos.WithoutHeatRateShapeCheck())
	}
	return opts
}

// Level returns the configured slog level.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
}
