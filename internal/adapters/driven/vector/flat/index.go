package flat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/rulebot/internal/core/domain"
	"github.com/custodia-labs/rulebot/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index holds a fixed set of equal-length vectors.
type Index struct {
	mu        sync.RWMutex
	vectors   [][]float32
	dimension int
}

// New builds an index over vectors. The slice is copied; position i in the
// index is vectors[i].
func New(vectors [][]float32) (*Index, error) {
	if len(vectors) == 0 {
		return nil, errors.New("flat: no vectors")
	}

	dimension := len(vectors[0])
	if dimension == 0 {
		return nil, errors.New("flat: dimension must be positive")
	}

	stored := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dimension {
			return nil, fmt.Errorf("flat: vector %d: %w: got %d, want %d",
				i, domain.ErrDimensionMismatch, len(v), dimension)
		}
		stored[i] = append([]float32(nil), v...)
	}

	return &Index{vectors: stored, dimension: dimension}, nil
}

// NewIndex adapts New to the corpus loader's factory signature.
func NewIndex(vectors [][]float32) (driven.VectorIndex, error) {
	return New(vectors)
}

// Search returns up to k positions ordered by ascending distance.
// Ties keep insertion order.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("flat: %w: query has %d, index has %d",
			domain.ErrDimensionMismatch, len(query), idx.dimension)
	}
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(idx.vectors))
	for i, v := range idx.vectors {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		hits = append(hits, driven.VectorHit{Position: i, Distance: squaredL2(query, v)})
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of stored vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

// Dimensions returns the vector length.
func (idx *Index) Dimensions() int {
	return idx.dimension
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
