package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

// answerTemplate is a canned answer used when generation keeps failing.
type answerTemplate struct {
	intent   Intent
	triggers []string
	// qualifies reports whether a result can back the template.
	qualifies func(r domain.SearchResult) bool
	text      string
}

// answerTemplates are checked in order; the first whose trigger appears in
// the query decides, even if none of its results qualify.
var answerTemplates = []answerTemplate{
	{
		intent:   IntentDimension,
		triggers: []string{"boyut", "size", "ölçü", "limit", "sınır"},
		qualifies: func(r domain.SearchResult) bool {
			content := strings.ToLower(r.Content)
			return strings.Contains(content, "18") ||
				strings.Contains(content, "22") ||
				strings.Contains(content, "expansion")
		},
		text: "2025-2026 Push Back oyununda robot boyut sınırları:\n\n" +
			"• Başlangıç: 18\" x 18\" x 18\" (maksimum)\n" +
			"• Genişleme: 22\" x 22\" x 22\" (maksimum)",
	},
	{
		intent:   IntentWeight,
		triggers: []string{"ağırlık", "weight", "gram"},
		qualifies: func(r domain.SearchResult) bool {
			return strings.Contains(r.Content, "40") &&
				strings.Contains(strings.ToLower(r.Content), "gram")
		},
		text: "2025-2026 Push Back oyununda:\n\n" +
			"• **Robot ağırlık sınırı:** Belirtilmemiş\n" +
			"• **Block ağırlığı:** Yaklaşık 40 gram",
	},
}

// fallbackAnswer returns a templated answer citing its source, or the
// generic degraded-service message.
func fallbackAnswer(query string, results []domain.SearchResult) string {
	lower := strings.ToLower(query)

	for _, tmpl := range answerTemplates {
		if !containsAny(lower, tmpl.triggers) {
			continue
		}
		for _, r := range results {
			if tmpl.qualifies(r) {
				return fmt.Sprintf("%s\n\n**Kaynak: Sayfa %d, Kural %s**", tmpl.text, r.PageNumber, r.RuleID)
			}
		}
		break
	}

	return domain.MsgServiceDegraded
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
