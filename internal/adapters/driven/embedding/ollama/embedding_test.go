package ollama

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

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.NoError(t, svc.Close())
}

func TestEmbeddingService_Embed_TaskPrefixes(t *testing.T) {
	tests := []struct {
		model string
		task  domain.EmbeddingTask
		want  string
	}{
		{"nomic-embed-text", domain.EmbeddingTaskDocument, "search_document: Robot boyutu"},
		{"nomic-embed-text:latest", domain.EmbeddingTaskQuery, "search_query: Robot boyutu"},
		{"all-minilm", domain.EmbeddingTaskQuery, "Robot boyutu"},
	}

	for _, tt := range tests {
		t.Run(tt.model+"/"+tt.task.String(), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/embeddings", r.URL.Path)
				var req embedRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, tt.model, req.Model)
				assert.Equal(t, tt.want, req.Prompt)
				_, _ = w.Write([]byte(`{"embedding":[1,2,3]}`))
			}))
			defer server.Close()

			svc := NewEmbeddingService(Config{BaseURL: server.URL, Model: tt.model})

			vec, err := svc.Embed(context.Background(), "Robot boyutu", tt.task)

			require.NoError(t, err)
			assert.Equal(t, []float32{1, 2, 3}, vec)
		})
	}
}

func TestEmbeddingService_Embed_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"empty vector", http.StatusOK, `{"embedding":[]}`, "no embedding returned"},
		{"unknown model", http.StatusNotFound, `model not found`, "status 404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewEmbeddingService(Config{BaseURL: server.URL}).Embed(context.Background(), "x", domain.EmbeddingTaskQuery)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestEmbeddingService_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	assert.NoError(t, NewEmbeddingService(Config{BaseURL: server.URL}).Ping(context.Background()))
}
