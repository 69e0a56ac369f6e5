package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

// PromptComposer assembles the generation prompt.
type PromptComposer struct {
	system string
}

// NewPromptComposer creates a composer with the given system instructions.
// An empty system block falls back to domain.DefaultSystemPrompt.
func NewPromptComposer(system string) *PromptComposer {
	if strings.TrimSpace(system) == "" {
		system = domain.DefaultSystemPrompt
	}
	return &PromptComposer{system: system}
}

// Compose renders the system block, the conversation so far, the source
// passages and the question, in that order.
func (c *PromptComposer) Compose(query string, results []domain.SearchResult, history []domain.Turn) string {
	var b strings.Builder

	b.WriteString(c.system)

	for _, turn := range history {
		fmt.Fprintf(&b, "\nKullanıcı: %s\nAsistan: %s\n", turn.User, turn.Model)
	}

	b.WriteString("\n\nKAYNAK METİNLER:\n")
	for _, r := range results {
		fmt.Fprintf(&b, "--- Sayfa %d, Kural %s:\n%s\n\n", r.PageNumber, r.RuleID, r.Content)
	}

	fmt.Fprintf(&b, "\n\nKullanıcı: %s\nAsistan:", query)

	return b.String()
}
