package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

// MockAnswerer implements driving.Answerer for testing.
type MockAnswerer struct {
	AnswerFunc func(ctx context.Context, query string, history []domain.Turn) domain.Answer
}

func (m *MockAnswerer) Answer(ctx context.Context, query string, history []domain.Turn) domain.Answer {
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, query, history)
	}
	return domain.Answer{Text: "ok", State: domain.AnswerSucceeded}
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{name: "nil ports", ports: nil, wantErr: ErrInvalidPorts},
		{name: "missing answerer", ports: &Ports{}, wantErr: ErrMissingAnswerer},
		{name: "valid", ports: &Ports{Answerer: &MockAnswerer{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
