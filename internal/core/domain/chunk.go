package domain

import (
	"fmt"
	"regexp"
)

// ruleIDPattern matches a normalised rule identifier such as <SG1> or <R25>.
var ruleIDPattern = regexp.MustCompile(`^<[A-Z]{1,5}\d+>$`)

// Page is the extracted text of a single page of the rule manual.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Text is the raw page text in reading order.
	Text string
}

// Chunk is one rule passage of the manual.
// Chunks are created once per ingestion and never mutated afterwards.
type Chunk struct {
	// PageNumber is the 1-based page the passage was found on.
	PageNumber int `json:"page_number"`

	// RuleID is the bracketed rule identifier, e.g. "<SG1>".
	// A rule continuing across pages yields several chunks with the same RuleID.
	RuleID string `json:"rule_id"`

	// Content is the trimmed text between this rule marker and the next one.
	Content string `json:"content"`
}

// Validate checks the chunk against the collection invariants.
func (c Chunk) Validate() error {
	if c.PageNumber < 1 {
		return fmt.Errorf("%w: page number %d", ErrInvalidInput, c.PageNumber)
	}
	if !IsRuleID(c.RuleID) {
		return fmt.Errorf("%w: rule id %q", ErrInvalidInput, c.RuleID)
	}
	if c.Content == "" {
		return fmt.Errorf("%w: empty content for %s", ErrInvalidInput, c.RuleID)
	}
	return nil
}

// IsRuleID reports whether id is a normalised rule identifier.
func IsRuleID(id string) bool {
	return ruleIDPattern.MatchString(id)
}
