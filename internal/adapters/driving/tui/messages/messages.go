// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/rulebot/internal/core/domain"
)

// QuestionSubmitted is sent when the user submits a question.
type QuestionSubmitted struct {
	Question string
}

// AnswerCompleted carries the answer to a submitted question.
type AnswerCompleted struct {
	Question string
	Answer   domain.Answer
}

// ConversationCleared is sent when the transcript and history are reset.
type ConversationCleared struct{}

// ErrorOccurred is sent when an error occurs outside answering.
// Answers never fail: degraded answers arrive as AnswerCompleted.
type ErrorOccurred struct {
	Err error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the conversation view.
	ViewChat ViewType = iota
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}
