package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/rulebot/internal/core/domain"
	"github.com/custodia-labs/rulebot/internal/core/ports/driven"
	"github.com/custodia-labs/rulebot/internal/core/ports/driving"
	"github.com/custodia-labs/rulebot/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns the rule manual into the chunk collection.
type IngestService struct {
	extractor  driven.PageExtractor
	segmenter  driven.Segmenter
	store      driven.ChunkStore
	manualPath string
}

// NewIngestService creates a new ingest service.
// manualPath is used when Ingest is called without a path.
func NewIngestService(
	extractor driven.PageExtractor,
	segmenter driven.Segmenter,
	store driven.ChunkStore,
	manualPath string,
) *IngestService {
	return &IngestService{
		extractor:  extractor,
		segmenter:  segmenter,
		store:      store,
		manualPath: manualPath,
	}
}

// Ingest extracts, segments and stores the manual. Nothing is written when
// any step fails or no chunk is produced.
func (s *IngestService) Ingest(ctx context.Context, path string) (*driving.IngestReport, error) {
	logger.Section("Ingest")

	if path == "" {
		path = s.manualPath
	}
	logger.Debug("Manual: %s", path)

	pages, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract pages: %w", err)
	}
	logger.Debug("Extracted %d pages", len(pages))

	chunks, err := s.segmenter.Segment(ctx, pages)
	if err != nil {
		return nil, fmt.Errorf("segment with %s: %w", s.segmenter.Name(), err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no rule markers found in %s", domain.ErrNoChunks, path)
	}

	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("segment with %s: %w", s.segmenter.Name(), err)
		}
	}

	if err := s.store.Save(ctx, chunks); err != nil {
		return nil, fmt.Errorf("save chunks: %w", err)
	}
	logger.Info("Wrote %d chunks to %s", len(chunks), s.store.Path())

	return &driving.IngestReport{
		Pages:  len(pages),
		Chunks: len(chunks),
		Path:   s.store.Path(),
	}, nil
}
