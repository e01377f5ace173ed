// Package config loads agileplanner settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/agileplanner/internal/backlog"
	"github.com/alexanderramin/agileplanner/internal/domain"
	"github.com/caarlos0/env/v11"
)

// DateLayout is the accepted format for dates given on the command line or
// in the environment.
const DateLayout = "2006-01-02"

type Config struct {
	BaseURL    string        `env:"AGILEPLANNER_BASE_URL" envDefault:"http://localhost:8000"`
	Timeout    time.Duration `env:"AGILEPLANNER_TIMEOUT" envDefault:"10s"`
	MaxRetries int           `env:"AGILEPLANNER_MAX_RETRIES" envDefault:"1"`

	// DBPath defaults to ~/.agileplanner/agileplanner.db when unset.
	DBPath string `env:"AGILEPLANNER_DB"`

	SprintWeeks int    `env:"AGILEPLANNER_SPRINT_WEEKS" envDefault:"2"`
	StartDate   string `env:"AGILEPLANNER_START_DATE"`

	LogEnabled bool `env:"AGILEPLANNER_LOG" envDefault:"false"`
}

// Load parses the environment and fills derived defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".agileplanner", "agileplanner.db")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("AGILEPLANNER_BASE_URL must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("AGILEPLANNER_TIMEOUT must be positive, got %s", c.Timeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("AGILEPLANNER_MAX_RETRIES must not be negative, got %d", c.MaxRetries)
	}
	if c.SprintWeeks <= 0 {
		return fmt.Errorf("AGILEPLANNER_SPRINT_WEEKS: %w", domain.ErrInvalidSprintLength)
	}
	if c.StartDate != "" {
		if _, err := time.Parse(DateLayout, c.StartDate); err != nil {
			return fmt.Errorf("AGILEPLANNER_START_DATE %q: expected YYYY-MM-DD", c.StartDate)
		}
	}
	return nil
}

// Backlog returns the HTTP client settings.
func (c Config) Backlog() backlog.Config {
	return backlog.Config{
		BaseURL:    c.BaseURL,
		Timeout:    c.Timeout,
		MaxRetries: c.MaxRetries,
	}
}

// PlanningSettings returns the initial planning state. Without a configured
// start date the plan starts at the beginning of the current week.
func (c Config) PlanningSettings(now time.Time) domain.PlanningSettings {
	start := StartOfWeek(now)
	if c.StartDate != "" {
		if t, err := time.Parse(DateLayout, c.StartDate); err == nil {
			start = t
		}
	}
	return domain.PlanningSettings{
		StartDate:         start,
		SprintLengthWeeks: c.SprintWeeks,
	}
}

// StartOfWeek returns midnight UTC of the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, time.UTC)
}
