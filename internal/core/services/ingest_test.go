package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

func TestIngestService_Ingest(t *testing.T) {
	extractor := &mockPageExtractor{pages: []domain.Page{{Number: 1, Text: "x"}, {Number: 2, Text: "y"}}}
	store := &mockChunkStore{}
	svc := NewIngestService(extractor, &mockSegmenter{chunks: sampleChunks()}, store, "data/game_manual.pdf")

	report, err := svc.Ingest(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "data/game_manual.pdf", extractor.path)
	assert.Equal(t, 2, report.Pages)
	assert.Equal(t, len(sampleChunks()), report.Chunks)
	assert.Equal(t, store.Path(), report.Path)
	assert.Equal(t, sampleChunks(), store.saved)
}

func TestIngestService_Ingest_ExplicitPath(t *testing.T) {
	extractor := &mockPageExtractor{pages: []domain.Page{{Number: 1}}}
	svc := NewIngestService(extractor, &mockSegmenter{chunks: sampleChunks()}, &mockChunkStore{}, "default.pdf")

	_, err := svc.Ingest(context.Background(), "other.pdf")
	require.NoError(t, err)
	assert.Equal(t, "other.pdf", extractor.path)
}

func TestIngestService_Ingest_Errors(t *testing.T) {
	tests := []struct {
		name      string
		extractor *mockPageExtractor
		segmenter *mockSegmenter
		store     *mockChunkStore
		wantErr   error
		contains  string
	}{
		{
			name:      "extraction fails",
			extractor: &mockPageExtractor{err: errors.New("pdftotext failed")},
			segmenter: &mockSegmenter{},
			store:     &mockChunkStore{},
			contains:  "extract pages",
		},
		{
			name:      "segmentation fails",
			extractor: &mockPageExtractor{},
			segmenter: &mockSegmenter{err: errors.New("bad page")},
			store:     &mockChunkStore{},
			contains:  "segment",
		},
		{
			name:      "no chunks",
			extractor: &mockPageExtractor{},
			segmenter: &mockSegmenter{},
			store:     &mockChunkStore{},
			wantErr:   domain.ErrNoChunks,
		},
		{
			name:      "invalid chunk",
			extractor: &mockPageExtractor{},
			segmenter: &mockSegmenter{chunks: []domain.Chunk{{PageNumber: 1, RuleID: "bad", Content: "x"}}},
			store:     &mockChunkStore{},
			wantErr:   domain.ErrInvalidInput,
		},
		{
			name:      "save fails",
			extractor: &mockPageExtractor{},
			segmenter: &mockSegmenter{chunks: sampleChunks()},
			store:     &mockChunkStore{saveErr: errors.New("read-only")},
			contains:  "save chunks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewIngestService(tt.extractor, tt.segmenter, tt.store, "m.pdf")

			report, err := svc.Ingest(context.Background(), "")
			require.Error(t, err)
			assert.Nil(t, report)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
			assert.Zero(t, tt.store.saves)
		})
	}
}
