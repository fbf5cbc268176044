package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/jonathan/proposal-writer/internal/llm"
)

// llmEnv mirrors the LLM_* and provider key variables.
type llmEnv struct {
	Provider     string        `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIKey    string        `env:"OPENAI_API_KEY"`
	OpenAIURL    string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAIModel  string        `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	GeminiKey    string        `env:"GEMINI_API_KEY"`
	GeminiModel  string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	Temperature  float64       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	MaxTokens    int           `env:"LLM_MAX_TOKENS" envDefault:"1500"`
	Timeout      time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
	SystemPrompt string        `env:"LLM_SYSTEM_MESSAGE"`
}

// LoadLLMConfig builds the completion client configuration from the
// environment. A missing API key is not an error.
func LoadLLMConfig() (*llm.Config, error) {
	var e llmEnv
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("invalid LLM configuration: %w", err)
	}

	cfg := &llm.Config{
		Provider:      llm.Provider(strings.ToLower(strings.TrimSpace(e.Provider))),
		SystemMessage: e.SystemPrompt,
		Temperature:   e.Temperature,
		MaxTokens:     e.MaxTokens,
		Timeout:       e.Timeout,
	}

	switch cfg.Provider {
	case llm.ProviderGemini:
		cfg.APIKey = e.GeminiKey
		cfg.Model = e.GeminiModel
	default:
		cfg.APIKey = e.OpenAIKey
		cfg.Model = e.OpenAIModel
		cfg.BaseURL = e.OpenAIURL
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}
