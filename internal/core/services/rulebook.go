package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/rulebot/internal/core/domain"
	"github.com/custodia-labs/rulebot/internal/core/ports/driving"
)

// Ensure RuleBookService implements the interface.
var _ driving.RuleBook = (*RuleBookService)(nil)

// RuleBookService answers rule lookups from the shared corpus.
type RuleBookService struct {
	corpus CorpusProvider
}

// NewRuleBookService creates a new rule book over the corpus.
func NewRuleBookService(corpus CorpusProvider) *RuleBookService {
	return &RuleBookService{corpus: corpus}
}

// Rule returns the chunks of one rule.
func (s *RuleBookService) Rule(ctx context.Context, id string) ([]domain.Chunk, error) {
	ruleID := NormaliseRuleID(id)
	if !domain.IsRuleID(ruleID) {
		return nil, fmt.Errorf("%w: rule id %q", domain.ErrInvalidInput, id)
	}

	corpus, err := s.corpus.Load(ctx)
	if err != nil {
		return nil, err
	}

	var chunks []domain.Chunk
	for _, c := range corpus.Chunks {
		if c.RuleID == ruleID {
			chunks = append(chunks, c)
		}
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("rule %s: %w", ruleID, domain.ErrNotFound)
	}
	return chunks, nil
}

// Info describes the loaded corpus.
func (s *RuleBookService) Info(ctx context.Context) (*driving.IndexInfo, error) {
	corpus, err := s.corpus.Load(ctx)
	if err != nil {
		return nil, err
	}

	rules := make(map[string]struct{})
	for _, c := range corpus.Chunks {
		rules[c.RuleID] = struct{}{}
	}

	return &driving.IndexInfo{
		BuildID:    corpus.Meta.BuildID,
		Model:      corpus.Meta.Model,
		Dimensions: corpus.Meta.Dimensions,
		Chunks:     len(corpus.Chunks),
		Rules:      len(rules),
		BuiltAt:    corpus.Meta.BuiltAt,
	}, nil
}

// NormaliseRuleID turns "sg1", "SG1" or "< SG1 >" into "<SG1>".
func NormaliseRuleID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, "<")
	id = strings.TrimSuffix(id, ">")
	id = strings.ToUpper(strings.TrimSpace(id))
	return "<" + id + ">"
}
