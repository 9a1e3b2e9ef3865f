// Package config resolves the immutable per-run configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration for one run. It is resolved once at
// startup and read-only afterwards.
type Config struct {
	SourceBucket       string `yaml:"source_bucket"`
	DestinationBucket  string `yaml:"destination_bucket"`
	SourceProfile      string `yaml:"source_profile"`
	DestinationProfile string `yaml:"destination_profile"`
	Region             string `yaml:"region"`
	Endpoint           string `yaml:"endpoint"`
	KeyPattern         string `yaml:"key_pattern"`
	StartTime          string `yaml:"start_time"`
	EndTime            string `yaml:"end_time"`
	Prefix             string `yaml:"prefix"`
	DestinationFolder  string `yaml:"destination_folder"`
	DryRun             bool   `yaml:"dry_run"`
	MaxConcurrency     int    `yaml:"max_concurrency"`

	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LogConfig configures the console and file log streams.
type LogConfig struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
}

// MetricsConfig configures the optional Prometheus scrape endpoint.
type MetricsConfig struct {
	Address string `yaml:"address"`
}

// Default returns the baseline configuration before flags and config
// files are applied.
func Default() Config {
	return Config{
		Region:         "us-east-1",
		MaxConcurrency: 10,
		Log: LogConfig{
			Format: "text",
			Level:  "info",
			File:   "bucketsift.log",
		},
	}
}

// LoadFile overlays values from a YAML file onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks the fully resolved configuration.
func (c *Config) Validate() error {
	if c.SourceBucket == "" {
		return fmt.Errorf("source bucket is required")
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max concurrency must be at least 1, got %d", c.MaxConcurrency)
	}
	return nil
}
