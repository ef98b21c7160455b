// Package config loads simulator settings from SKIRMISH_* environment
// variables. Command-line flags override them in cmd/skirmish.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/nathoo/skirmish/logging"
)

// Config holds the simulator settings.
type Config struct {
	// Trials is used for scenarios that do not set their own count.
	Trials int `env:"SKIRMISH_TRIALS" envDefault:"5000"`
	// Workers bounds concurrent battles; 0 means GOMAXPROCS.
	Workers int `env:"SKIRMISH_WORKERS" envDefault:"0"`
	// Seed is the run seed trial seeds are derived from.
	Seed int64 `env:"SKIRMISH_SEED" envDefault:"1"`
	// RoundCap bounds a single battle; 0 means unlimited.
	RoundCap int `env:"SKIRMISH_ROUND_CAP" envDefault:"500"`
	LogLevel string `env:"SKIRMISH_LOG_LEVEL" envDefault:"warn"`
	// ReportDir is where /save writes reports. Defaults to
	// ~/.skirmish/reports.
	ReportDir string `env:"SKIRMISH_REPORT_DIR"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment, fills in defaults and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	if cfg.ReportDir == "" {
		home, _ := os.UserHomeDir()
		cfg.ReportDir = filepath.Join(home, ".skirmish", "reports")
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.Trials < 1 {
		errs = append(errs, fmt.Errorf("SKIRMISH_TRIALS must be at least 1, got %d", c.Trials))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("SKIRMISH_WORKERS must not be negative, got %d", c.Workers))
	}
	if c.RoundCap < 0 {
		errs = append(errs, fmt.Errorf("SKIRMISH_ROUND_CAP must not be negative, got %d", c.RoundCap))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("SKIRMISH_LOG_LEVEL: %w", err))
	}
	return errors.Join(errs...)
}

// RunnerRoundCap converts RoundCap to the sim.Runner convention, where
// zero selects the engine default and a negative value disables the cap.
func (c Config) RunnerRoundCap() int {
	if c.RoundCap == 0 {
		return -1
	}
	return c.RoundCap
}
