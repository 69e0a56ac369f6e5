package services

import (
	"regexp"
	"strings"
)

// Intent is the question category a query is classified into.
type Intent string

// Query intents, in classification priority order.
const (
	IntentNone       Intent = ""
	IntentDimension  Intent = "dimension"
	IntentWeight     Intent = "weight"
	IntentMaterial   Intent = "material"
	IntentRuleNumber Intent = "rule_number"
	IntentRobot      Intent = "robot"
)

// ruleNumberPattern finds rule references such as R25 or SG1.
var ruleNumberPattern = regexp.MustCompile(`(?i)\b[RSG]+\d+\b`)

// tokenPattern finds words of at least two Unicode letters, marks or digits.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

// intentRule is one row of a classification table.
// A rule fires when any trigger is a substring of the lowercased query,
// or when extract returns matches.
type intentRule struct {
	intent   Intent
	triggers []string
	keywords []string
	extract  func(query string) []string
}

func (r intentRule) match(lower string) ([]string, bool) {
	if r.extract != nil {
		found := r.extract(lower)
		if len(found) == 0 {
			return nil, false
		}
		return append(found, r.keywords...), true
	}
	for _, t := range r.triggers {
		if strings.Contains(lower, t) {
			return r.keywords, true
		}
	}
	return nil, false
}

// retrievalIntents re-ranks vector search candidates.
var retrievalIntents = []intentRule{
	{
		intent:   IntentDimension,
		triggers: []string{"boyut", "size", "ölçü", "limit", "sınır", "dimension", "ölçüler", "büyüklük", "dimensions"},
		keywords: []string{
			"boyut", "size", "ölçü", "limit", "sınır", "dimension", "dimensions", "expansion", "genişleme",
			"18", "22", "inch", "inç", "mm", "volume", "hacim", "cubic", "kübik",
		},
	},
	{
		intent:   IntentWeight,
		triggers: []string{"ağırlık", "weight", "gram", "kg", "kilogram", "kaç", "ne kadar"},
		keywords: []string{
			"ağırlık", "weight", "gram", "kg", "kilogram", "mass", "kütle", "block", "blok",
			"40", "approximately", "yaklaşık",
		},
	},
	{
		intent:   IntentMaterial,
		triggers: []string{"plastik", "plastic", "polikarbonat", "polycarbonate", "malzeme", "material", "özel", "custom", "parça", "part"},
		keywords: []string{
			"plastic", "plastik", "polycarbonate", "polikarbonat", "material", "malzeme", "custom", "özel",
			"part", "parça", "component", "bileşen", "allowed", "izin", "limited", "sınırlı", "amount", "miktar", "r25",
		},
	},
	{
		intent:   IntentRuleNumber,
		keywords: []string{"rule", "kural", "regulation"},
		extract:  ruleNumbers,
	},
	{
		intent:   IntentRobot,
		triggers: []string{"robot"},
		keywords: []string{"robot", "robotics", "competition", "yarışma"},
	},
}

// fallbackIntents supplies keywords to the keyword-only search.
var fallbackIntents = []intentRule{
	{
		intent:   IntentDimension,
		triggers: []string{"boyut", "size", "ölçü", "limit", "sınır"},
		keywords: []string{"18", "22", "inch", "expansion", "size", "dimension", "boyut", "genişleme"},
	},
	{
		intent:   IntentWeight,
		triggers: []string{"ağırlık", "weight", "gram"},
		keywords: []string{"40", "gram", "weight", "block", "ağırlık"},
	},
}

// classify returns the first rule in table that matches the query, with its keywords.
func classify(table []intentRule, query string) (Intent, []string) {
	lower := strings.ToLower(query)
	for _, rule := range table {
		if keywords, ok := rule.match(lower); ok {
			return rule.intent, keywords
		}
	}
	return IntentNone, nil
}

// ruleNumbers returns the rule references in query, lowercased.
func ruleNumbers(query string) []string {
	found := ruleNumberPattern.FindAllString(query, -1)
	for i, f := range found {
		found[i] = strings.ToLower(f)
	}
	return found
}

// tokens returns the words of query with at least two characters.
func tokens(query string) []string {
	return tokenPattern.FindAllString(query, -1)
}
