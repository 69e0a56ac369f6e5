// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from VectorIndex which searches vectors.
// EmbeddingService generates vectors; VectorIndex compares them.
//
// Implementations may include:
//   - Gemini (text-embedding-004)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	// The task hint lets providers that distinguish stored passages from
	// search queries pick the matching representation.
	Embed(ctx context.Context, text string, task domain.EmbeddingTask) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	// Zero means the size is only known after the first call.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
