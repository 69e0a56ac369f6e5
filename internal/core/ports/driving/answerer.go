package driving

import (
	"context"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

// Answerer answers questions about the rule manual.
type Answerer interface {
	// Answer runs retrieval, prompt composition and generation for one query.
	// It never returns an empty answer: every failure is turned into a
	// user-facing message and recorded in the returned state and cause.
	Answer(ctx context.Context, query string, history []domain.Turn) domain.Answer
}
