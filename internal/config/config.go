// Package config loads and persists shopscout configuration from a YAML
// file, with environment overrides for the service endpoint.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all shopscout configuration.
type Config struct {
	// Service configures the recommendation service connection.
	Service ServiceConfig `yaml:"service"`

	// Details configures the product-detail polling loop.
	Details DetailsConfig `yaml:"details"`

	// UI configures the terminal interface.
	UI UIConfig `yaml:"ui"`
}

// ServiceConfig configures the recommendation service client.
type ServiceConfig struct {
	BaseURL     string `yaml:"base_url"`
	Timeout     string `yaml:"timeout"`
	ModelChoice string `yaml:"model_choice"` // perplexity, openai, hybrid
}

// DetailsConfig configures the enrichment polling loop.
type DetailsConfig struct {
	PollInterval string `yaml:"poll_interval"`
	MaxAttempts  int    `yaml:"max_attempts"`
}

// UIConfig configures the terminal interface.
type UIConfig struct {
	Theme string `yaml:"theme"` // auto, light, dark
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL:     "http://localhost:8000",
			Timeout:     "90s",
			ModelChoice: "perplexity",
		},
		Details: DetailsConfig{
			PollInterval: "2s",
			MaxAttempts:  60,
		},
		UI: UIConfig{
			Theme: "auto",
		},
	}
}

// DefaultPath returns the default config file location,
// $HOME/.config/shopscout/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "shopscout", "config.yaml")
}

// Load reads the config at path. A missing file yields the defaults; a
// present file is merged over them, and SHOPSCOUT_API_URL overrides the
// service base URL either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// HTTPTimeout parses the service timeout, falling back to 90s.
func (c *Config) HTTPTimeout() time.Duration {
	return parseDuration(c.Service.Timeout, 90*time.Second)
}

// PollInterval parses the detail poll interval, falling back to 2s.
func (c *Config) PollInterval() time.Duration {
	return parseDuration(c.Details.PollInterval, 2*time.Second)
}

func applyEnvOverrides(cfg *Config) {
	if url := os.Getenv("SHOPSCOUT_API_URL"); url != "" {
		cfg.Service.BaseURL = url
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
