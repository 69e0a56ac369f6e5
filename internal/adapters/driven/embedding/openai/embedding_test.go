package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

func TestNewEmbeddingService(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.Error(t, err)

	svc, err := NewEmbeddingService(Config{APIKey: "k", Model: "text-embedding-3-large"})
	require.NoError(t, err)
	assert.Equal(t, 3072, svc.Dimensions())

	svc, err = NewEmbeddingService(Config{APIKey: "k", Model: "custom"})
	require.NoError(t, err)
	assert.Equal(t, 1536, svc.Dimensions())
	assert.Equal(t, "custom", svc.ModelName())
}

func TestEmbeddingService_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req embeddingRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"SG1 nedir"}, req.Input)
		assert.Equal(t, 1536, req.Dimensions)

		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[0.5,0.25]}]}`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	vec, err := svc.Embed(context.Background(), "SG1 nedir", domain.EmbeddingTaskQuery)

	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.25}, vec)
}

func TestEmbeddingService_Embed_OmitsDimensionsForLegacyModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, has := raw["dimensions"]
		assert.False(t, has)
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[1]}]}`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "k", BaseURL: server.URL, Model: "text-embedding-ada-002"})
	require.NoError(t, err)

	_, err = svc.Embed(context.Background(), "x", domain.EmbeddingTaskDocument)
	assert.NoError(t, err)
}

func TestEmbeddingService_Embed_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"api error", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, "status 401"},
		{"no data", http.StatusOK, `{"data":[]}`, "no embedding returned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			svc, err := NewEmbeddingService(Config{APIKey: "k", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = svc.Embed(context.Background(), "x", domain.EmbeddingTaskDocument)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestEmbeddingService_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	assert.NoError(t, svc.Ping(context.Background()))
}
