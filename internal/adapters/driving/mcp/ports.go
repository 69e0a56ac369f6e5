package mcp

import (
	"github.com/custodia-labs/rulebot/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Retriever finds rule passages for the retrieve tool.
	Retriever driving.Retriever

	// Answerer answers questions for the ask tool.
	Answerer driving.Answerer

	// Rules backs the rule and index resources. Optional.
	Rules driving.RuleBook
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	if p.Answerer == nil {
		return ErrMissingAnswerer
	}
	return nil
}
