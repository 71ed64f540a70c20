package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
// A nil f applies no flag overrides.
func Load(f *Flags) (*Config, error) {
	// Start with defaults
	cfg := Default()

	if f != nil && f.Config != "" {
		if err := loadFromFile(cfg, f.Config); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", f.Config, err)
		}
	}

	// Apply CLI flags (highest priority)
	if f != nil {
		f.apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
