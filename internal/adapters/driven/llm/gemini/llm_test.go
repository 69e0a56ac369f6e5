package gemini

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

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewLLMService(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	return svc
}

func TestNewLLMService(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.ErrorContains(t, err, "API key is required")

	svc, err := NewLLMService(Config{APIKey: "k", Model: "models/gemini-1.5-pro"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-pro", svc.ModelName())
}

func TestLLMService_Generate(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.Len(t, req.Contents, 1) {
			assert.Equal(t, "user", req.Contents[0].Role)
			assert.Equal(t, "KULLANICI SORUSU: SG1?", req.Contents[0].Parts[0].Text)
		}
		if assert.NotNil(t, req.GenerationConfig) && assert.NotNil(t, req.GenerationConfig.Temperature) {
			assert.InDelta(t, 0.1, *req.GenerationConfig.Temperature, 1e-9)
			assert.Equal(t, 1000, req.GenerationConfig.MaxOutputTokens)
		}

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Robot 18 inç "},{"text":"olmalı."}]},"finishReason":"STOP"}]}`))
	})

	text, err := svc.Generate(context.Background(), "KULLANICI SORUSU: SG1?", driven.GenerateOptions{MaxTokens: 1000, Temperature: 0.1})

	require.NoError(t, err)
	assert.Equal(t, "Robot 18 inç olmalı.", text)
}

func TestLLMService_Generate_ZeroTemperatureIsSent(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var raw struct {
			GenerationConfig map[string]any `json:"generationConfig"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Contains(t, raw.GenerationConfig, "temperature")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	})

	_, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{})
	assert.NoError(t, err)
}

func TestLLMService_Generate_EmptyResults(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no candidates", `{"candidates":[]}`},
		{"blocked", `{"promptFeedback":{"blockReason":"SAFETY"}}`},
		{"no parts", `{"candidates":[{"content":{"parts":[]},"finishReason":"MAX_TOKENS"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			text, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{})

			require.NoError(t, err)
			assert.Empty(t, text)
		})
	}
}

func TestLLMService_Generate_HTTPError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	})

	_, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{})

	assert.ErrorContains(t, err, "status 503")
}

func TestLLMService_Ping(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/models/gemini-1.5-flash", r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	})

	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}
