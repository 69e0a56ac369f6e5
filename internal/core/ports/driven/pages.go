package driven

import (
	"context"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

// PageExtractor extracts page-indexed text from a document file.
type PageExtractor interface {
	// Extract returns one page per page of the document, numbered from 1.
	Extract(ctx context.Context, path string) ([]domain.Page, error)
}

// Segmenter splits page text into rule-tagged chunks.
type Segmenter interface {
	// Name returns the segmenter name for logging.
	Name() string

	// Segment returns chunks in reading order.
	Segment(ctx context.Context, pages []domain.Page) ([]domain.Chunk, error)
}
