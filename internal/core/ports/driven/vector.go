package driven

import "context"

// VectorIndex provides nearest-neighbour search over a fixed set of vectors.
// Positions are the insertion order of the vectors the index was built from,
// so position i always refers to chunk i of the sequence persisted with it.
type VectorIndex interface {
	// Search finds the k nearest vectors to the query.
	// Results are ordered by ascending distance.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Dimensions returns the vector size of the index.
	Dimensions() int
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Position is the index of the matched vector.
	Position int

	// Distance is the squared Euclidean distance to the query.
	Distance float32
}
