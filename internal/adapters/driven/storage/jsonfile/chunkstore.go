// Package jsonfile stores the chunk collection as a JSON array on disk.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/rulebot/internal/core/domain"
	"github.com/custodia-labs/rulebot/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore reads and writes processed_chunks.json style files:
// an array of {"page_number", "rule_id", "content"} objects in reading order.
type ChunkStore struct {
	path string
}

// NewChunkStore creates a store for the collection at path.
func NewChunkStore(path string) *ChunkStore {
	return &ChunkStore{path: path}
}

// Path returns the collection file path.
func (s *ChunkStore) Path() string {
	return s.path
}

// Save writes the collection through a temporary file so a crash never
// leaves a half-written file behind.
func (s *ChunkStore) Save(ctx context.Context, chunks []domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if chunks == nil {
		chunks = []domain.Chunk{}
	}

	// Rule ids keep their angle brackets instead of \u003c escapes.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(chunks); err != nil {
		return fmt.Errorf("encoding chunks: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating chunk directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing chunks: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing chunks: %w", err)
	}

	return nil
}

// Load reads the collection.
func (s *ChunkStore) Load(ctx context.Context) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoChunks, s.path)
		}
		return nil, fmt.Errorf("reading chunks: %w", err)
	}

	var chunks []domain.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.path, err)
	}

	return chunks, nil
}
