// Package config loads the run configuration of the minituna command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate is shared; validator.Validate caches struct metadata.
var validate = validator.New()

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// Format is text or json.
	Format string `yaml:"format" validate:"oneof=text json"`
}

// RunConfig is the configuration of one optimize run.
//
// Example file:
//
//	study_name: quadratic
//	n_trials: 200
//	seed: 42
//	concurrency: 4
//	log:
//	  level: debug
//	  format: json
type RunConfig struct {
	// StudyName names the study; generated when empty.
	StudyName string `yaml:"study_name"`

	// NTrials is the number of trials to run.
	NTrials int `yaml:"n_trials" validate:"gte=0"`

	// Seed makes sampling reproducible; nil seeds from the clock.
	Seed *int64 `yaml:"seed"`

	// Concurrency is the number of trials evaluated at once.
	Concurrency int `yaml:"concurrency" validate:"gte=1,lte=256"`

	Log LogConfig `yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() RunConfig {
	return RunConfig{
		NTrials:     100,
		Concurrency: 1,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads and validates a YAML file. Keys missing from the file keep
// their Default values.
func Load(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return RunConfig{}, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes and validates YAML. Unknown keys are rejected.
func Parse(data []byte) (RunConfig, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	// An empty document decodes to io.EOF and leaves the defaults.
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return RunConfig{}, fmt.Errorf("decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return RunConfig{}, err
	}

	return cfg, nil
}

// Validate checks field constraints.
func (c RunConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// SlogLevel maps Log.Level onto a slog.Level, defaulting to info.
func (c RunConfig) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a logger writing to w in the configured format.
func (c RunConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}

	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}
