package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rulebot/internal/core/ports/driven"
)

func TestNewLLMService(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.ErrorContains(t, err, "API key is required")
}

func TestLLMService_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultMaxTokens, req.MaxTokens)
		assert.Equal(t, "prompt", req.Messages[0].Content)

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"part one, "},{"type":"tool_use"},{"type":"text","text":"part two"}],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "sk-ant", BaseURL: server.URL})
	require.NoError(t, err)

	text, err := svc.Generate(context.Background(), "prompt", driven.GenerateOptions{})

	require.NoError(t, err)
	assert.Equal(t, "part one, part two", text)
	assert.Equal(t, DefaultModel, svc.ModelName())
}

func TestLLMService_Generate_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "p", driven.GenerateOptions{MaxTokens: 10})
	assert.ErrorContains(t, err, "status 429")
}

func TestLLMService_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("x-api-key"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)
	assert.NoError(t, svc.Ping(context.Background()))
}
