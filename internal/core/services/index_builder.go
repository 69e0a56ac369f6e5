package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/rulebot/internal/core/domain"
	"github.com/custodia-labs/rulebot/internal/core/ports/driven"
	"github.com/custodia-labs/rulebot/internal/core/ports/driving"
	"github.com/custodia-labs/rulebot/internal/logger"
)

// Ensure IndexBuilder implements the interface.
var _ driving.IndexService = (*IndexBuilder)(nil)

// IndexBuilder embeds the chunk collection and persists the index artifact.
type IndexBuilder struct {
	chunks   driven.ChunkStore
	index    driven.IndexStore
	embedder driven.EmbeddingService
	limiter  *rate.Limiter
	now      func() time.Time
}

// NewIndexBuilder creates a new index builder.
func NewIndexBuilder(chunks driven.ChunkStore, index driven.IndexStore, embedder driven.EmbeddingService) *IndexBuilder {
	return &IndexBuilder{
		chunks:   chunks,
		index:    index,
		embedder: embedder,
		now:      time.Now,
	}
}

// SetRateLimit caps embedding requests per second. Zero or less disables throttling.
func (b *IndexBuilder) SetRateLimit(rps float64) {
	if rps <= 0 {
		b.limiter = nil
		return
	}
	b.limiter = rate.NewLimiter(rate.Limit(rps), 1)
}

// Build embeds every chunk with the document task and writes the artifact.
// Chunks that fail to embed are skipped; nothing is written unless at least
// one chunk was embedded.
func (b *IndexBuilder) Build(ctx context.Context) (*driving.IndexReport, error) {
	logger.Section("Index Build")

	if b.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	chunks, err := b.chunks.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil, domain.ErrNoChunks
	}
	logger.Info("Embedding %d chunks with %s", len(chunks), b.embedder.ModelName())

	report := &driving.IndexReport{Path: b.index.Path()}
	artifact := &driven.IndexArtifact{}
	var lastErr error

	for i, chunk := range chunks {
		if b.limiter != nil {
			if err := b.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		vector, err := b.embedder.Embed(ctx, chunk.Content, domain.EmbeddingTaskDocument)
		if err == nil && len(vector) == 0 {
			err = fmt.Errorf("%w: empty vector", domain.ErrDimensionMismatch)
		}
		if err == nil && report.Dimensions > 0 && len(vector) != report.Dimensions {
			err = fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(vector), report.Dimensions)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("Skipping chunk %d (page %d, rule %s): %v", i, chunk.PageNumber, chunk.RuleID, err)
			report.Skipped = append(report.Skipped, chunk)
			lastErr = err
			continue
		}

		if report.Dimensions == 0 {
			report.Dimensions = len(vector)
		}
		artifact.Chunks = append(artifact.Chunks, chunk)
		artifact.Vectors = append(artifact.Vectors, vector)
	}

	if len(artifact.Chunks) == 0 {
		return nil, errors.Join(
			fmt.Errorf("%w: no chunk could be embedded", domain.ErrEmbeddingUnavailable),
			lastErr,
		)
	}

	artifact.Meta = driven.IndexMeta{
		BuildID:    uuid.NewString(),
		Model:      b.embedder.ModelName(),
		Dimensions: report.Dimensions,
		BuiltAt:    b.now().UTC(),
	}

	if err := b.index.Save(ctx, artifact); err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}

	report.BuildID = artifact.Meta.BuildID
	report.Embedded = len(artifact.Chunks)
	logger.Info("Index %s built: %d embedded, %d skipped", report.BuildID, report.Embedded, len(report.Skipped))

	return report, nil
}
