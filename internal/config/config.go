// Package config loads .twevals.yml, the optional per-project settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = ".twevals.yml"

// Config carries project-level settings. Zero values mean "use the built-in
// default"; Normalize fills those in.
type Config struct {
	ResultsDir     string  `yaml:"results_dir"`
	Session        string  `yaml:"session"`
	Concurrency    int     `yaml:"concurrency"`
	TimeoutSeconds float64 `yaml:"timeout_seconds"`
	UI             string  `yaml:"ui"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		ResultsDir:  "eval_results",
		Concurrency: 1,
		UI:          "auto",
	}
}

// Timeout converts the configured timeout to a duration; zero means none.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// Load reads, parses, normalizes and validates a config file. A missing file
// at the default path is not an error; explicit paths must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	Normalize(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes a single YAML document with strict field checking: unknown
// keys are rejected so typos surface immediately.
func Parse(data []byte) (Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Config{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Normalize fills unset fields with defaults.
func Normalize(cfg *Config) {
	defaults := Default()
	if cfg.ResultsDir == "" {
		cfg.ResultsDir = defaults.ResultsDir
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = defaults.Concurrency
	}
	if cfg.UI == "" {
		cfg.UI = defaults.UI
	}
}

// Validate rejects values no command could act on.
func Validate(cfg Config) error {
	if cfg.Concurrency < 1 {
		return fmt.Errorf("config: concurrency must be at least 1, got %d", cfg.Concurrency)
	}
	if cfg.TimeoutSeconds < 0 {
		return fmt.Errorf("config: timeout_seconds must not be negative, got %g", cfg.TimeoutSeconds)
	}
	switch cfg.UI {
	case "auto", "live", "plain":
	default:
		return fmt.Errorf("config: invalid ui mode %q (expected auto|live|plain)", cfg.UI)
	}
	return nil
}
