// Package config loads sigindex runtime settings from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config defines runtime settings for the sigindex tools.
type Config struct {
	DBPath    string  `yaml:"dbPath"`
	LogLevel  string  `yaml:"logLevel"`
	LogFormat string  `yaml:"logFormat"`
	Threshold float64 `yaml:"threshold"`
	Prefix    string  `yaml:"prefix"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DBPath:    "sigindex.sqlite",
		LogLevel:  "info",
		LogFormat: "text",
		Threshold: 0.1,
		Prefix:    "index",
	}
}

// Load reads settings from a YAML file, when path is set, then applies
// SIGINDEX_DB, SIGINDEX_LOG_LEVEL and SIGINDEX_LOG_FORMAT overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("SIGINDEX_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("SIGINDEX_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SIGINDEX_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("config: dbPath is empty")
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("config: threshold %v outside [0,1]", c.Threshold)
	}
	return nil
}
