package domain

// AnswerState is a state of the answer state machine.
type AnswerState string

// Answer states. Succeeded, Fallback and Failed are terminal.
const (
	AnswerIdle       AnswerState = "idle"
	AnswerRetrieving AnswerState = "retrieving"
	AnswerComposing  AnswerState = "composing"
	AnswerGenerating AnswerState = "generating"
	AnswerRetrying   AnswerState = "retrying"
	AnswerSucceeded  AnswerState = "succeeded"
	AnswerFallback   AnswerState = "fallback"
	AnswerFailed     AnswerState = "failed"
)

// IsTerminal returns true if no further transition is possible.
func (s AnswerState) IsTerminal() bool {
	switch s {
	case AnswerSucceeded, AnswerFallback, AnswerFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s AnswerState) String() string {
	return string(s)
}

// Answer is the outcome of answering one query.
// Text is never empty once the state machine has terminated.
type Answer struct {
	// Text is the answer shown to the user.
	Text string

	// State is the terminal state the query ended in.
	State AnswerState

	// Attempts is the number of generation calls made.
	Attempts int

	// Sources are the retrieval results the answer was built from.
	Sources []SearchResult

	// Err is the cause when the answer is degraded, nil otherwise.
	Err error
}

// String returns the answer text.
func (a Answer) String() string {
	return a.Text
}
