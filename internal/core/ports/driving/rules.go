package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

// RuleBook looks up rule passages in the loaded index.
type RuleBook interface {
	// Rule returns every chunk tagged with the rule, in reading order.
	// The id may be given with or without brackets and in any case.
	// Returns domain.ErrNotFound if the rule is not in the index.
	Rule(ctx context.Context, id string) ([]domain.Chunk, error)

	// Info describes the loaded index.
	Info(ctx context.Context) (*IndexInfo, error)
}

// IndexInfo describes a loaded index.
type IndexInfo struct {
	BuildID    string    `json:"build_id"`
	Model      string    `json:"model"`
	Dimensions int       `json:"dimensions"`
	Chunks     int       `json:"chunks"`
	Rules      int       `json:"rules"`
	BuiltAt    time.Time `json:"built_at"`
}
