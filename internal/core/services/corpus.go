package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/rulebot/internal/core/domain"
	"github.com/custodia-labs/rulebot/internal/core/ports/driven"
	"github.com/custodia-labs/rulebot/internal/logger"
)

// VectorIndexFactory builds a searchable index from vectors in chunk order.
type VectorIndexFactory func(vectors [][]float32) (driven.VectorIndex, error)

// Corpus is the loaded index artifact: the embedded chunk sequence and the
// vector index built over it. It is read-only once loaded.
type Corpus struct {
	Meta   driven.IndexMeta
	Chunks []domain.Chunk
	Index  driven.VectorIndex
}

// CorpusProvider returns the shared corpus.
type CorpusProvider interface {
	Load(ctx context.Context) (*Corpus, error)
}

// CorpusLoader loads the corpus at most once per process.
// A load failure is cached like a success; restart to retry. A load cut
// short by the caller's context is not cached.
type CorpusLoader struct {
	store    driven.IndexStore
	newIndex VectorIndexFactory

	mu     sync.Mutex
	done   bool
	corpus *Corpus
	err    error
}

// Ensure CorpusLoader implements the interface.
var _ CorpusProvider = (*CorpusLoader)(nil)

// NewCorpusLoader creates a loader over the given index store.
func NewCorpusLoader(store driven.IndexStore, newIndex VectorIndexFactory) *CorpusLoader {
	return &CorpusLoader{
		store:    store,
		newIndex: newIndex,
	}
}

// Load returns the corpus, reading it from the store on first use.
func (l *CorpusLoader) Load(ctx context.Context) (*Corpus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done {
		return l.corpus, l.err
	}

	corpus, err := l.load(ctx)
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		logger.Debug("Index load interrupted: %v", err)
		return nil, err
	}
	if err != nil {
		logger.Error("Index could not be loaded: %v", err)
	}

	l.corpus, l.err, l.done = corpus, err, true
	return l.corpus, l.err
}

func (l *CorpusLoader) load(ctx context.Context) (*Corpus, error) {
	if l.store == nil || l.newIndex == nil {
		return nil, domain.ErrIndexUnavailable
	}

	artifact, err := l.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	if len(artifact.Chunks) == 0 {
		return nil, fmt.Errorf("%w: index holds no chunks", domain.ErrIndexUnavailable)
	}
	if len(artifact.Chunks) != len(artifact.Vectors) {
		return nil, fmt.Errorf("%w: %d chunks but %d vectors",
			domain.ErrIndexCorrupt, len(artifact.Chunks), len(artifact.Vectors))
	}

	index, err := l.newIndex(artifact.Vectors)
	if err != nil {
		return nil, fmt.Errorf("build vector index: %w", err)
	}

	logger.Debug("Loaded index %s: %d chunks, %d dimensions, model %s",
		artifact.Meta.BuildID, len(artifact.Chunks), artifact.Meta.Dimensions, artifact.Meta.Model)

	return &Corpus{
		Meta:   artifact.Meta,
		Chunks: artifact.Chunks,
		Index:  index,
	}, nil
}
