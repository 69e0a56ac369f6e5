// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/custodia-labs/rulebot/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/rulebot/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/rulebot/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/rulebot/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/rulebot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/rulebot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/rulebot/internal/core/domain"
	"github.com/custodia-labs/rulebot/internal/core/ports/driving"
	"github.com/custodia-labs/rulebot/internal/logger"
)

// chromeHeight is the number of lines used by the header, input and status bar.
const chromeHeight = 7

// View is the chat view: a transcript, a question input and a status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	transcript *transcript.Transcript
	statusbar  *status.Bar

	answerer driving.Answerer
	ctx      context.Context

	session  string
	history  []domain.Turn
	thinking bool
	width    int
	height   int
	ready    bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, answerer driving.Answerer) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		transcript: transcript.New(s),
		statusbar:  status.NewBar(s, km),
		answerer:   answerer,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
	v.newSession()
	return v
}

// WithContext sets the context answers are requested with.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd

	case messages.QuestionSubmitted:
		return v, v.submit(msg.Question)

	case messages.AnswerCompleted:
		v.handleAnswer(msg)
		return v, v.input.Focus()

	case messages.ConversationCleared:
		v.clear()
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.statusbar, cmd = v.statusbar.Update(msg)
	cmds = append(cmds, cmd)
	v.input, cmd = v.input.Update(msg)
	cmds = append(cmds, cmd)
	return v, tea.Batch(cmds...)
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Send):
		question := strings.TrimSpace(v.input.Value())
		if question == "" || v.thinking {
			return v, nil
		}
		v.input.Reset()
		return v, v.submit(question)

	case keymap.Matches(keyStr, v.keymap.Clear):
		if v.thinking {
			return v, nil
		}
		v.clear()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.ScrollUp):
		v.transcript.ScrollUp()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.ScrollDown):
		v.transcript.ScrollDown()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit starts answering a question with the history so far.
func (v *View) submit(question string) tea.Cmd {
	if v.thinking {
		return nil
	}
	v.thinking = true
	v.input.Blur()
	v.transcript.SetPending(question)

	return tea.Batch(v.statusbar.StartThinking(), v.ask(question))
}

// ask runs the answerer off the update loop.
func (v *View) ask(question string) tea.Cmd {
	history := make([]domain.Turn, len(v.history))
	copy(history, v.history)
	answerer := v.answerer
	ctx := v.ctx

	return func() tea.Msg {
		if answerer == nil {
			return messages.AnswerCompleted{
				Question: question,
				Answer: domain.Answer{
					Text:  domain.FailedMessage(ErrNoAnswerer),
					State: domain.AnswerFailed,
					Err:   ErrNoAnswerer,
				},
			}
		}
		return messages.AnswerCompleted{
			Question: question,
			Answer:   answerer.Answer(ctx, question, history),
		}
	}
}

func (v *View) handleAnswer(msg messages.AnswerCompleted) {
	v.thinking = false
	v.history = append(v.history, domain.Turn{User: msg.Question, Model: msg.Answer.Text})
	v.transcript.Append(transcript.Entry{Question: msg.Question, Answer: msg.Answer})

	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetTurns(len(v.history))
	v.statusbar.SetMessage("")
	if msg.Answer.Err != nil {
		logger.Debug("chat %s: answer degraded (%s): %v", v.session, msg.Answer.State, msg.Answer.Err)
		v.statusbar.SetMessage(string(msg.Answer.State))
	}
}

func (v *View) clear() {
	v.history = nil
	v.transcript.Reset()
	v.statusbar.Clear()
	v.newSession()
}

func (v *View) newSession() {
	v.session = uuid.NewString()
	v.statusbar.SetSession(v.session[:8])
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	header := v.styles.Title.Render("rulebot") + v.styles.Muted.Render("  VEX Push Back kural asistanı")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		v.transcript.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.transcript.SetSize(width, height-chromeHeight)
}

// History returns the conversation so far, oldest first.
func (v *View) History() []domain.Turn {
	return v.history
}

// Session returns the current session id.
func (v *View) Session() string {
	return v.session
}

// Thinking reports whether an answer is pending.
func (v *View) Thinking() bool {
	return v.thinking
}

// Ready reports whether the view has received its dimensions.
func (v *View) Ready() bool {
	return v.ready
}
