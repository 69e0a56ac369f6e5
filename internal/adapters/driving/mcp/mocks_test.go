package mcp

import (
	"context"

	"github.com/custodia-labs/rulebot/internal/core/domain"
	"github.com/custodia-labs/rulebot/internal/core/ports/driving"
)

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	results []domain.SearchResult
	err     error
	gotK    int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ string, k int) ([]domain.SearchResult, error) {
	m.gotK = k
	return m.results, m.err
}

// mockAnswerer is a mock implementation of driving.Answerer.
type mockAnswerer struct {
	answer     domain.Answer
	gotQuery   string
	gotHistory []domain.Turn
}

func (m *mockAnswerer) Answer(_ context.Context, query string, history []domain.Turn) domain.Answer {
	m.gotQuery = query
	m.gotHistory = history
	return m.answer
}

// mockRuleBook is a mock implementation of driving.RuleBook.
type mockRuleBook struct {
	chunks []domain.Chunk
	info   *driving.IndexInfo
	err    error
	gotID  string
}

func (m *mockRuleBook) Rule(_ context.Context, id string) ([]domain.Chunk, error) {
	m.gotID = id
	return m.chunks, m.err
}

func (m *mockRuleBook) Info(_ context.Context) (*driving.IndexInfo, error) {
	return m.info, m.err
}

func validPorts() *Ports {
	return &Ports{
		Retriever: &mockRetriever{},
		Answerer:  &mockAnswerer{},
	}
}
