// Package ollama provides an embedding service adapter using Ollama.
package ollama

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
	DefaultBaseURL    = "http://localhost:11434"
	DefaultModel      = "nomic-embed-text"
	DefaultTimeout    = 30 * time.Second
	DefaultDimensions = 768 // nomic-embed-text default
)

// taskPrefixes are the instruction prefixes nomic-embed-text was trained with.
var taskPrefixes = map[domain.EmbeddingTask]string{
	domain.EmbeddingTaskDocument: "search_document: ",
	domain.EmbeddingTaskQuery:    "search_query: ",
}

// Config holds configuration for the Ollama embedding service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the embedding model to use (default: nomic-embed-text).
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// Dimensions is the embedding vector size (model-dependent).
	Dimensions int
}

// EmbeddingService generates embeddings using Ollama.
type EmbeddingService struct {
	client     *httpclient.Client
	baseURL    string
	model      string
	dimensions int
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// NewEmbeddingService creates a new Ollama embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
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
		client:     httpclient.New("ollama", cfg.Timeout, nil),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string, task domain.EmbeddingTask) ([]float32, error) {
	reqBody := embedRequest{
		Model:  s.model,
		Prompt: s.prefix(task) + text,
	}

	var resp embedResponse
	if err := s.client.PostJSON(ctx, s.baseURL+"/api/embeddings", reqBody, &resp); err != nil {
		return nil, err
	}

	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("ollama: no embedding returned")
	}
	return httpclient.ToFloat32(resp.Embedding), nil
}

// prefix returns the task prefix for nomic models and nothing for others.
func (s *EmbeddingService) prefix(task domain.EmbeddingTask) string {
	if !strings.HasPrefix(s.model, "nomic-embed-text") {
		return ""
	}
	return taskPrefixes[task]
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping checks connectivity through /api/tags without running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.client.Get(ctx, s.baseURL+"/api/tags")
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
