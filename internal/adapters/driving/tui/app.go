package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/rulebot/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/rulebot/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/rulebot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/rulebot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/rulebot/internal/adapters/driving/tui/views/chat"
)

// App is the TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports    *Ports
	ctx      context.Context
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	chatView *chat.View

	currentView messages.ViewType

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		chatView:    chat.NewView(s, km, ports.Answerer),
		currentView: messages.ViewChat,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("rulebot"),
		a.chatView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.chatView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		keyStr := msg.String()
		if keymap.Matches(keyStr, a.keymap.Quit) {
			return a, tea.Quit
		}

		if a.currentView == messages.ViewHelp {
			if keymap.Matches(keyStr, a.keymap.Back) || keymap.Matches(keyStr, a.keymap.Help) {
				a.currentView = messages.ViewChat
			}
			return a, nil
		}

		if keymap.Matches(keyStr, a.keymap.Help) {
			a.currentView = messages.ViewHelp
			return a, nil
		}

		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil
	}

	// Answers, ticks and other messages always go to the chat, even while help is open.
	a.chatView, cmd = a.chatView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	if a.currentView == messages.ViewHelp {
		return a.renderHelp()
	}
	return a.chatView.View()
}

func (a *App) renderHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("rulebot - Help"))
	b.WriteString("\n\n")

	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-8s %s\n", h.Key, a.styles.Muted.Render(h.Desc)))
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Help.Render("Answers cite the rule and page they come from. Press esc to return."))

	bar := status.NewBar(a.styles, a.keymap)
	bar.SetWidth(a.width)
	bar.SetState(status.StateHelp)
	b.WriteString("\n\n")
	b.WriteString(bar.View())

	return b.String()
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Chat returns the chat view.
func (a *App) Chat() *chat.View {
	return a.chatView
}

// Ready reports whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}
