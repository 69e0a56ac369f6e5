package driving

import (
	"context"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

// IngestService turns the rule manual into a persisted chunk collection.
type IngestService interface {
	// Ingest extracts, segments and stores the manual at path.
	// An empty path uses the configured manual.
	Ingest(ctx context.Context, path string) (*IngestReport, error)
}

// IngestReport summarises an ingestion run.
type IngestReport struct {
	// Pages is the number of pages extracted.
	Pages int

	// Chunks is the number of chunks written.
	Chunks int

	// Path is where the collection was written.
	Path string
}

// IndexService builds the embedding index from the chunk collection.
type IndexService interface {
	// Build embeds every chunk and persists the index artifact.
	Build(ctx context.Context) (*IndexReport, error)
}

// IndexReport summarises an index build.
type IndexReport struct {
	// BuildID identifies the build.
	BuildID string

	// Embedded is the number of chunks in the index.
	Embedded int

	// Skipped lists the chunks that failed to embed.
	Skipped []domain.Chunk

	// Dimensions is the vector size.
	Dimensions int

	// Path is where the artifact was written.
	Path string
}
