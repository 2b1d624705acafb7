// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration that can be loaded from
// a JSON file. All fields are optional; missing values use defaults or
// must be provided via CLI flags or environment variables.
type Config struct {
	// External services
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL (optional)
	FeedURL     string `json:"feed_url,omitempty"`     // Job feed endpoint

	// Data
	CatalogPath string `json:"catalog_path,omitempty"` // Path to course catalog JSON

	// Server
	Port int `json:"port,omitempty"`

	// Analysis tuning
	MaxJobs            int     `json:"max_jobs,omitempty"`            // Max postings pulled per analysis
	SemanticThreshold  float64 `json:"semantic_threshold,omitempty"`  // Cosine cutoff for semantic skill matches (0.0-1.0)
	CriticalImportance int     `json:"critical_importance,omitempty"` // Importance above which gaps are Critical

	// Behavior
	Verbose bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Required
// fields are enforced by the CLI after merging, not here.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.MaxJobs < 0 {
		return fmt.Errorf("config error: 'max_jobs' must be non-negative")
	}
	if c.SemanticThreshold < 0 || c.SemanticThreshold > 1 {
		return fmt.Errorf("config error: 'semantic_threshold' must be between 0.0 and 1.0")
	}
	if c.CriticalImportance < 0 {
		return fmt.Errorf("config error: 'critical_importance' must be non-negative")
	}

	if c.CatalogPath != "" {
		if _, err := os.Stat(c.CatalogPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: catalog file not found: %s", c.CatalogPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled
// from defaults. This applies config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.FeedURL == "" {
		result.FeedURL = defaults.FeedURL
	}
	if result.CatalogPath == "" {
		result.CatalogPath = defaults.CatalogPath
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxJobs == 0 {
		result.MaxJobs = defaults.MaxJobs
	}
	if result.SemanticThreshold == 0 {
		result.SemanticThreshold = defaults.SemanticThreshold
	}
	if result.CriticalImportance == 0 {
		result.CriticalImportance = defaults.CriticalImportance
	}
	if !result.Verbose {
		result.Verbose = defaults.Verbose
	}

	return result
}
