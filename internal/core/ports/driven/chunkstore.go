package driven

import (
	"context"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

// ChunkStore persists the chunk collection produced by ingestion.
type ChunkStore interface {
	// Save replaces the stored collection. Writes are atomic: readers see
	// either the previous collection or the new one.
	Save(ctx context.Context, chunks []domain.Chunk) error

	// Load returns the stored collection in reading order.
	// Returns domain.ErrNoChunks if the collection does not exist.
	Load(ctx context.Context) ([]domain.Chunk, error)

	// Path returns the location of the collection.
	Path() string
}
