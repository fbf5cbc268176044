package llm

import (
	"context"
	"net/http"
)

// Client sends one prompt to a completion provider and returns the raw text.
type Client interface {
	// Complete performs exactly one provider call. No retries.
	Complete(ctx context.Context, prompt string) (string, error)
	// Model returns the model identifier reported to callers
	Model() string
}

// NewClient creates a Client for the configured provider.
// The config is normalized first; a missing key does not fail construction.
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Normalize(); err != nil {
		return nil, err
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config)
	default:
		return NewOpenAIClient(config, &http.Client{Timeout: config.Timeout}), nil
	}
}
