// Package gemini provides an embedding service adapter for the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/rulebot/internal/adapters/driven/httpclient"
	"github.com/custodia-labs/rulebot/internal/core/domain"
	"github.com/custodia-labs/rulebot/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel      = "text-embedding-004"
	DefaultTimeout    = 30 * time.Second
	DefaultDimensions = 768
)

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Google AI Studio key (required).
	APIKey string

	// BaseURL is the API base URL.
	BaseURL string

	// Model is the embedding model (default: text-embedding-004).
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// Dimensions is the expected vector size (default: 768).
	Dimensions int
}

// EmbeddingService generates embeddings with Gemini embedContent.
type EmbeddingService struct {
	client     *httpclient.Client
	baseURL    string
	model      string
	dimensions int
}

type embedRequest struct {
	Model    string  `json:"model"`
	Content  content `json:"content"`
	TaskType string  `json:"taskType,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

// NewEmbeddingService creates a Gemini embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}

	return &EmbeddingService{
		client: httpclient.New("gemini", cfg.Timeout, map[string]string{
			"x-goog-api-key": cfg.APIKey,
		}),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      strings.TrimPrefix(cfg.Model, "models/"),
		dimensions: cfg.Dimensions,
	}, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string, task domain.EmbeddingTask) ([]float32, error) {
	reqBody := embedRequest{
		Model:    "models/" + s.model,
		Content:  content{Parts: []part{{Text: text}}},
		TaskType: taskType(task),
	}

	var resp embedResponse
	url := fmt.Sprintf("%s/models/%s:embedContent", s.baseURL, s.model)
	if err := s.client.PostJSON(ctx, url, reqBody, &resp); err != nil {
		return nil, err
	}

	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini: no embedding returned")
	}
	return httpclient.ToFloat32(resp.Embedding.Values), nil
}

// taskType maps the embedding task onto the Gemini task names.
func taskType(task domain.EmbeddingTask) string {
	switch task {
	case domain.EmbeddingTaskDocument:
		return "RETRIEVAL_DOCUMENT"
	case domain.EmbeddingTaskQuery:
		return "RETRIEVAL_QUERY"
	default:
		return ""
	}
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping checks the key by fetching the model description.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.client.Get(ctx, fmt.Sprintf("%s/models/%s", s.baseURL, s.model))
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
