// Package config provides configuration loading and validation for the
// server and the CLI. Values come from the environment; the CLI may also
// read defaults from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port              int    `env:"PORT" envDefault:"8080"`
	DatabaseURL       string `env:"DATABASE_URL"`
	LogJSON           bool   `env:"LOG_JSON" envDefault:"false"`
	LogDebug          bool   `env:"LOG_DEBUG" envDefault:"false"`
	CORSAllowedOrigin string `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`
}

// NewServerConfig reads ServerConfig from the environment.
func NewServerConfig() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize validates the configuration.
func (c *ServerConfig) normalize() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	if c.CORSAllowedOrigin == "" {
		c.CORSAllowedOrigin = "*"
	}
	return nil
}

// RequireDatabase returns an error when no DATABASE_URL is set.
func (c *ServerConfig) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	return nil
}

// Config represents CLI defaults that can be loaded from a JSON file.
// All fields are optional; flags override them.
type Config struct {
	Job         string `json:"job,omitempty"`          // Path to job description text file
	JobURL      string `json:"job_url,omitempty"`      // URL to import the job posting from
	JobTitle    string `json:"job_title,omitempty"`    // Job title when reading from a file
	Platform    string `json:"platform,omitempty"`     // UPWORK, FIVERR, LINKEDIN or CUSTOM
	Profile     string `json:"profile,omitempty"`      // Path to a UserProfile JSON file
	UserID      string `json:"user_id,omitempty"`      // Read the stored profile for this user
	Output      string `json:"output,omitempty"`       // Output file; stdout when empty
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	UseBrowser  bool   `json:"use_browser,omitempty"`  // Render job pages with a headless browser
	Verbose     bool   `json:"verbose,omitempty"`      // Print a human-readable summary
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

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}
	if c.Profile != "" && c.UserID != "" {
		return fmt.Errorf("config error: 'profile' and 'user_id' are mutually exclusive")
	}

	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}
	if c.Profile != "" {
		if _, err := os.Stat(c.Profile); os.IsNotExist(err) {
			return fmt.Errorf("config error: profile file not found: %s", c.Profile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// Bools are not merged: unset and false look the same, so flags always win.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&result.Job, defaults.Job)
	fill(&result.JobURL, defaults.JobURL)
	fill(&result.JobTitle, defaults.JobTitle)
	fill(&result.Platform, defaults.Platform)
	fill(&result.Profile, defaults.Profile)
	fill(&result.UserID, defaults.UserID)
	fill(&result.Output, defaults.Output)
	fill(&result.DatabaseURL, defaults.DatabaseURL)

	return result
}
