// Package config loads calculator settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"landshare/internal/area"
	"landshare/internal/export"
	"landshare/internal/shares"
)

// DefaultPath is looked up in the working directory when no --config is given.
const DefaultPath = "landshare.yaml"

// Config holds calculator settings.
type Config struct {
	// Tolerance is how far an estate's share total may be from one
	// before it is reported.
	Tolerance float64 `yaml:"tolerance"`
	// Rounding is the sarshai rounding mode: half_even or half_away.
	Rounding string `yaml:"rounding"`
	// Carry rolls a rounded-up sarshai into marla (and onwards). Turn off
	// to reproduce spreadsheets made by the legacy calculator.
	Carry bool `yaml:"carry"`

	ExportPath string `yaml:"export_path"`
	// Sheet is the upload sheet to read; empty means the first one.
	Sheet string `yaml:"sheet"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Tolerance:  shares.DefaultTolerance,
		Rounding:   area.HalfEven.String(),
		Carry:      true,
		ExportPath: export.DefaultFileName,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Tolerance <= 0 || c.Tolerance >= 1 {
		return fmt.Errorf("tolerance %v out of range (0, 1)", c.Tolerance)
	}
	if _, err := area.ParseRounding(c.Rounding); err != nil {
		return err
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}

// AreaOptions translates the rounding and carry settings.
func (c *Config) AreaOptions() []area.Option {
	r, err := area.ParseRounding(c.Rounding)
	if err != nil {
		r = area.HalfEven
	}
	return []area.Option{area.WithRounding(r), area.WithCarry(c.Carry)}
}
