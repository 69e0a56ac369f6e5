package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rulebot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/rulebot/internal/core/domain"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(&Ports{Answerer: &MockAnswerer{}})
	require.NoError(t, err)
	return app
}

func sized(t *testing.T) *App {
	t.Helper()
	app := newTestApp(t)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return app
}

func TestNewApp(t *testing.T) {
	t.Run("valid ports", func(t *testing.T) {
		app := newTestApp(t)

		assert.Equal(t, messages.ViewChat, app.CurrentView())
		assert.NotNil(t, app.Chat())
		assert.False(t, app.Ready())
	})

	t.Run("invalid ports", func(t *testing.T) {
		app, err := NewApp(&Ports{})

		assert.Nil(t, app)
		assert.ErrorIs(t, err, ErrMissingAnswerer)
	})
}

func TestApp_WithContext(t *testing.T) {
	type ctxKey struct{}
	var got context.Context
	app, err := NewApp(&Ports{Answerer: &MockAnswerer{
		AnswerFunc: func(ctx context.Context, _ string, _ []domain.Turn) domain.Answer {
			got = ctx
			return domain.Answer{Text: "ok", State: domain.AnswerSucceeded}
		},
	}})
	require.NoError(t, err)
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")

	assert.Same(t, app, app.WithContext(ctx))

	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	_, cmd := app.Update(messages.QuestionSubmitted{Question: "q"})
	drain(cmd)

	require.NotNil(t, got)
	assert.Equal(t, "v", got.Value(ctxKey{}))
}

// drain runs cmd and any batched commands, returning the messages produced.
func drain(cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		out = append(out, msg)
	}
	return out
}

func TestApp_Init(t *testing.T) {
	app := newTestApp(t)

	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	app := newTestApp(t)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Nil(t, cmd)
	assert.True(t, model.(*App).Ready())
	assert.True(t, app.Chat().Ready())
}

func TestApp_View(t *testing.T) {
	t.Run("not ready", func(t *testing.T) {
		assert.Equal(t, "Initialising...", newTestApp(t).View())
	})

	t.Run("chat", func(t *testing.T) {
		assert.Contains(t, sized(t).View(), "rulebot")
	})
}

func TestApp_Quit(t *testing.T) {
	for _, keyType := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlD} {
		app := sized(t)

		_, cmd := app.Update(tea.KeyMsg{Type: keyType})

		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestApp_HelpToggle(t *testing.T) {
	app := sized(t)

	app.Update(tea.KeyMsg{Type: tea.KeyF1})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	view := app.View()
	assert.Contains(t, view, "Help")
	assert.Contains(t, view, "new chat")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewChat, app.CurrentView())

	app.Update(tea.KeyMsg{Type: tea.KeyF1})
	app.Update(tea.KeyMsg{Type: tea.KeyF1})
	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestApp_TypingGoesToChat(t *testing.T) {
	app := sized(t)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q?")})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.True(t, app.Chat().Thinking())
}

func TestApp_AnswerArrivesWhileHelpOpen(t *testing.T) {
	app := sized(t)
	_, cmd := app.Update(messages.QuestionSubmitted{Question: "q"})
	app.Update(tea.KeyMsg{Type: tea.KeyF1})

	for _, msg := range drain(cmd) {
		if _, ok := msg.(messages.AnswerCompleted); ok {
			app.Update(msg)
		}
	}

	assert.False(t, app.Chat().Thinking())
	assert.Len(t, app.Chat().History(), 1)
}

func TestApp_ViewChanged(t *testing.T) {
	app := sized(t)

	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	assert.Equal(t, messages.ViewHelp, app.CurrentView())
}
