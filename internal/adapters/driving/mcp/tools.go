package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query      string `json:"query" jsonschema:"the question or keywords to look up in the rule manual"`
	Candidates int    `json:"candidates,omitempty" jsonschema:"nearest-neighbour pool size before re-ranking (default 30)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Results []domain.SearchResult `json:"results"`
	Count   int                   `json:"count"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string        `json:"question" jsonschema:"the question about the game rules"`
	History  []domain.Turn `json:"history,omitempty" jsonschema:"earlier turns of the conversation, oldest first"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer   string                `json:"answer"`
	State    string                `json:"state"`
	Attempts int                   `json:"attempts"`
	Sources  []domain.SearchResult `json:"sources,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Find the rule manual passages most relevant to a query (at most 5)",
	}, s.handleRetrieve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question about the game rules, citing rule and page",
	}, s.handleAsk)
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	if input.Query == "" {
		return nil, RetrieveOutput{}, errors.New("query is required")
	}

	results, err := s.ports.Retriever.Retrieve(ctx, input.Query, input.Candidates)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}
	if results == nil {
		results = []domain.SearchResult{}
	}

	return nil, RetrieveOutput{Results: results, Count: len(results)}, nil
}

// handleAsk handles the ask tool invocation. Degraded answers are returned
// as results, not errors: their text is meant for the user.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if input.Question == "" {
		return nil, AskOutput{}, errors.New("question is required")
	}

	answer := s.ports.Answerer.Answer(ctx, input.Question, input.History)

	return nil, AskOutput{
		Answer:   answer.Text,
		State:    answer.State.String(),
		Attempts: answer.Attempts,
		Sources:  answer.Sources,
	}, nil
}
