// Package transcript renders the scrolling conversation log of the chat view.
package transcript

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/rulebot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/rulebot/internal/core/domain"
)

const (
	userLabel = "Sen"
	botLabel  = "rulebot"
)

// Entry is one question and its answer.
type Entry struct {
	Question string
	Answer   domain.Answer
}

// Transcript is a viewport over the rendered conversation.
type Transcript struct {
	styles   *styles.Styles
	viewport viewport.Model
	entries  []Entry
	pending  string
	width    int
}

// New creates an empty transcript.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}
	t := &Transcript{
		styles:   s,
		viewport: viewport.New(80, 20),
		width:    80,
	}
	t.refresh()
	return t
}

// Update forwards scrolling messages to the viewport.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// View renders the visible part of the transcript.
func (t *Transcript) View() string {
	return t.viewport.View()
}

// SetPending shows a question that is still being answered.
func (t *Transcript) SetPending(question string) {
	t.pending = question
	t.refresh()
}

// Append adds a finished exchange and clears the pending question.
func (t *Transcript) Append(e Entry) {
	t.entries = append(t.entries, e)
	t.pending = ""
	t.refresh()
}

// Entries returns the finished exchanges, oldest first.
func (t *Transcript) Entries() []Entry {
	return t.entries
}

// Reset removes every entry.
func (t *Transcript) Reset() {
	t.entries = nil
	t.pending = ""
	t.refresh()
}

// SetSize resizes the viewport.
func (t *Transcript) SetSize(width, height int) {
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}
	t.width = width
	t.viewport.Width = width
	t.viewport.Height = height
	t.refresh()
}

// ScrollUp scrolls one page up.
func (t *Transcript) ScrollUp() {
	t.viewport.PageUp()
}

// ScrollDown scrolls one page down.
func (t *Transcript) ScrollDown() {
	t.viewport.PageDown()
}

// AtBottom reports whether the newest content is visible.
func (t *Transcript) AtBottom() bool {
	return t.viewport.AtBottom()
}

// Content returns the full rendered transcript.
func (t *Transcript) Content() string {
	return t.render()
}

func (t *Transcript) refresh() {
	t.viewport.SetContent(t.render())
	t.viewport.GotoBottom()
}

func (t *Transcript) render() string {
	if len(t.entries) == 0 && t.pending == "" {
		return t.styles.Muted.Render("Push Back oyun kılavuzu hakkında soru sorun. Örnek: \"Robot boyut sınırı nedir?\"")
	}

	wrap := lipgloss.NewStyle().Width(t.width)
	blocks := make([]string, 0, len(t.entries)+1)
	for _, e := range t.entries {
		blocks = append(blocks, wrap.Render(t.renderEntry(e)))
	}
	if t.pending != "" {
		blocks = append(blocks, wrap.Render(t.renderQuestion(t.pending)))
	}
	return strings.Join(blocks, "\n\n")
}

func (t *Transcript) renderQuestion(q string) string {
	return t.styles.UserLabel.Render(userLabel+": ") + t.styles.Normal.Render(q)
}

func (t *Transcript) renderEntry(e Entry) string {
	var b strings.Builder
	b.WriteString(t.renderQuestion(e.Question))
	b.WriteString("\n")

	text := t.styles.Normal.Render(e.Answer.Text)
	if e.Answer.State == domain.AnswerFallback || e.Answer.State == domain.AnswerFailed {
		text = t.styles.Degraded.Render(e.Answer.Text)
	}
	b.WriteString(t.styles.BotLabel.Render(botLabel+": ") + text)

	if sources := SourceLine(e.Answer.Sources); sources != "" {
		b.WriteString("\n")
		b.WriteString(t.styles.Source.Render(sources))
	}
	return b.String()
}

// SourceLine lists the distinct rules an answer drew on, in retrieval order.
func SourceLine(results []domain.SearchResult) string {
	if len(results) == 0 {
		return ""
	}
	seen := make(map[string]bool, len(results))
	refs := make([]string, 0, len(results))
	for _, r := range results {
		ref := fmt.Sprintf("%s s.%d", r.RuleID, r.PageNumber)
		if seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return "Kaynaklar: " + strings.Join(refs, ", ")
}
