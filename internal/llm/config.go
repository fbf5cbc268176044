// Package llm provides the text-completion clients used to draft proposals.
// A Client is built from an explicit Config; nothing is read from globals.
package llm

import (
	"fmt"
	"strings"
	"time"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenAI is any OpenAI-compatible chat completions endpoint
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Defaults for the OpenAI-compatible provider.
const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-3.5-turbo"
	DefaultGeminiModel   = "gemini-2.5-flash"
	DefaultTemperature   = 0.7
	DefaultMaxTokens     = 1500
	DefaultTimeout       = 60 * time.Second
	DefaultSystemMessage = "You are an expert proposal writer who creates compelling, professional job proposals tailored to specific job descriptions and platforms."
)

// Config holds everything a Client needs to make a call.
type Config struct {
	Provider      Provider
	APIKey        string
	BaseURL       string
	Model         string
	SystemMessage string
	Temperature   float64
	MaxTokens     int
	Timeout       time.Duration
}

// DefaultConfig returns the OpenAI configuration with no credential set.
func DefaultConfig() *Config {
	return &Config{
		Provider:      ProviderOpenAI,
		BaseURL:       DefaultOpenAIBaseURL,
		Model:         DefaultOpenAIModel,
		SystemMessage: DefaultSystemMessage,
		Temperature:   DefaultTemperature,
		MaxTokens:     DefaultMaxTokens,
		Timeout:       DefaultTimeout,
	}
}

// Normalize fills zero values with defaults and rejects impossible settings.
// A missing API key is not an error here; it surfaces on the first call.
func (c *Config) Normalize() error {
	c.Provider = Provider(strings.ToLower(strings.TrimSpace(string(c.Provider))))
	switch c.Provider {
	case "":
		c.Provider = ProviderOpenAI
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unsupported LLM provider %q", c.Provider)
	}

	if c.Model == "" {
		if c.Provider == ProviderGemini {
			c.Model = DefaultGeminiModel
		} else {
			c.Model = DefaultOpenAIModel
		}
	}
	if c.Provider == ProviderOpenAI && c.BaseURL == "" {
		c.BaseURL = DefaultOpenAIBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.SystemMessage == "" {
		c.SystemMessage = DefaultSystemMessage
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("LLM temperature must be between 0 and 2, got %v", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return nil
}

// Configured reports whether a credential is present.
func (c *Config) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}
