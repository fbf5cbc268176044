package ratelimit

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// envConfig is the RATE_LIMIT_* environment.
type envConfig struct {
	Enabled         bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	DefaultLimit    int           `env:"RATE_LIMIT_DEFAULT_LIMIT" envDefault:"1000"`
	DefaultWindow   time.Duration `env:"RATE_LIMIT_DEFAULT_WINDOW" envDefault:"1m"`
	CleanupInterval time.Duration `env:"RATE_LIMIT_CLEANUP_INTERVAL" envDefault:"5m"`
	Whitelist       []string      `env:"RATE_LIMIT_WHITELIST" envSeparator:","`
	Blacklist       []string      `env:"RATE_LIMIT_BLACKLIST" envSeparator:","`
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() (*Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("invalid rate limit configuration: %w", err)
	}
	if !raw.Enabled {
		return &Config{Enabled: false}, nil
	}
	if raw.DefaultLimit < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_DEFAULT_LIMIT must be positive, got: %d", raw.DefaultLimit)
	}
	if raw.DefaultWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_DEFAULT_WINDOW must be positive, got: %s", raw.DefaultWindow)
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    raw.DefaultLimit,
		DefaultWindow:   raw.DefaultWindow,
		CleanupInterval: raw.CleanupInterval,
		Whitelist:       toSet(raw.Whitelist),
		Blacklist:       toSet(raw.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}, nil
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: provider calls and outbound fetches (strictest limits)
		{Path: "/api/proposals/generate", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/api/proposals/generate/stream", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/api/proposals/import", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// Tier 2: credential checks
		{Path: "/api/auth/signin", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/api/auth/signup", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/api/auth/password", Method: "PUT", Limit: 10, Window: time.Minute, Burst: 5},

		// Tier 3: write operations (moderate limits)
		{Path: "/api/profile", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/profile", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/profile", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/proposals/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/proposals/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/proposals/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},

		// Tier 4: reads use the default limit; /health is unlimited (see MatchEndpoint)
	}
}

// toSet turns a list of addresses into a lookup set, skipping blanks.
func toSet(list []string) map[string]bool {
	result := make(map[string]bool, len(list))
	for _, ip := range list {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
