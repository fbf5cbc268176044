package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckProviderCommand_NoKey(t *testing.T) {
	clearProviderEnv(t)

	out, err := executeRoot(t, "check-provider")
	assert.EqualError(t, err, "OpenAI API key not configured")
	assert.Contains(t, out, "PROVIDER STATUS")
	assert.Contains(t, out, "Key set:  no")
}

func TestCheckProviderCommand_OpenAI(t *testing.T) {
	clearProviderEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"gpt-3.5-turbo","object":"model","created":1,"owned_by":"openai"}]}`))
	}))
	defer srv.Close()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", srv.URL)

	out, err := executeRoot(t, "check-provider")
	require.NoError(t, err)
	assert.Contains(t, out, "Key set:  yes")
	assert.Contains(t, out, "1 models available")
}

func TestCheckProviderCommand_Gemini(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("LLM_PROVIDER", "gemini")

	out, err := executeRoot(t, "check-provider")
	assert.EqualError(t, err, "gemini API key not configured")
	assert.Contains(t, out, "Provider: gemini")

	t.Setenv("GEMINI_API_KEY", "g-test")
	out, err = executeRoot(t, "check-provider")
	require.NoError(t, err)
	assert.Contains(t, out, "Key set:  yes")
}
