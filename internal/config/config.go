// Package config holds the linkedgames configuration file model.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"linkedgames/internal/browser"
	"linkedgames/internal/solve"
)

// Config is the full tool configuration.
type Config struct {
	Browser browser.Config `yaml:"browser"`
	Solver  solve.Config   `yaml:"solver"`
	Archive ArchiveConfig  `yaml:"archive"`
}

// ArchiveConfig configures the optional sqlite run history.
type ArchiveConfig struct {
	// Path of the database file. Empty disables archiving.
	Path string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Browser: browser.DefaultConfig(),
		Solver:  solve.DefaultConfig(),
		Archive: ArchiveConfig{Path: "results/history.db"},
	}
}

// Load reads a YAML config file over the defaults. Values absent from the
// file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
