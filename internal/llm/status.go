package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Status is the readiness of the configured provider.
type Status struct {
	Provider   Provider `json:"provider"`
	Model      string   `json:"model"`
	Configured bool     `json:"configured"`
	Reachable  bool     `json:"reachable"`
	ModelCount int      `json:"modelCount,omitempty"`
	Message    string   `json:"message"`
}

// CheckOpenAI verifies the credential by listing models on the configured
// endpoint. It never makes a completion call.
func CheckOpenAI(ctx context.Context, config *Config) (*Status, error) {
	status := &Status{
		Provider:   ProviderOpenAI,
		Model:      config.Model,
		Configured: config.Configured(),
	}
	if !status.Configured {
		status.Message = "OpenAI API key not found in environment variables"
		return status, &ConfigurationError{Message: "OpenAI API key not configured"}
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL+"/"))
	}
	client := openai.NewClient(opts...)

	start := time.Now()
	page, err := client.Models.List(ctx)
	if err != nil {
		status.Message = fmt.Sprintf("OpenAI API check failed: %v", err)
		return status, &ProviderError{Message: status.Message}
	}

	status.Reachable = true
	status.ModelCount = len(page.Data)
	status.Message = fmt.Sprintf("OpenAI API is working, %d models available (%s)", status.ModelCount, time.Since(start).Round(time.Millisecond))
	return status, nil
}
