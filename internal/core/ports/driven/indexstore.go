package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

// IndexArtifact is the embedded chunk sequence and its vectors.
// Vectors[i] is the embedding of Chunks[i].
type IndexArtifact struct {
	// Meta describes the build.
	Meta IndexMeta

	// Chunks is the sequence of chunks that were embedded successfully.
	Chunks []domain.Chunk

	// Vectors holds one vector per chunk, all of Meta.Dimensions length.
	Vectors [][]float32
}

// IndexMeta records how an index artifact was produced.
type IndexMeta struct {
	// BuildID uniquely identifies the build.
	BuildID string

	// Model is the embedding model used.
	Model string

	// Dimensions is the vector size.
	Dimensions int

	// BuiltAt is when the build finished.
	BuiltAt time.Time
}

// IndexStore persists index artifacts.
type IndexStore interface {
	// Save writes the artifact, replacing any previous one.
	// The write goes to a temporary file that is renamed into place.
	Save(ctx context.Context, artifact *IndexArtifact) error

	// Load reads the artifact.
	// Returns domain.ErrIndexUnavailable if none exists and
	// domain.ErrIndexCorrupt if chunks and vectors are not aligned.
	Load(ctx context.Context) (*IndexArtifact, error)

	// Path returns the location of the artifact.
	Path() string
}
