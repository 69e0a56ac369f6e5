package driving

import (
	"context"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

// Retriever finds the rule passages relevant to a query.
type Retriever interface {
	// Retrieve returns at most domain.MaxResults results, best first.
	// k is the nearest-neighbour pool size; zero means the configured default.
	// Retrieval degrades to keyword matching instead of failing when the
	// embedding service or the vector index is unavailable.
	Retrieve(ctx context.Context, query string, k int) ([]domain.SearchResult, error)
}
