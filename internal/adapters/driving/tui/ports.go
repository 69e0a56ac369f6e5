// Package tui provides the interactive terminal chat for rulebot.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/rulebot/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Answerer answers the questions typed into the chat.
	Answerer driving.Answerer
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Answerer == nil {
		return ErrMissingAnswerer
	}
	return nil
}
