// Package segmenter splits rule manual pages into rule-tagged chunks.
package segmenter

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

// DefaultMarkerPattern matches a rule marker such as <SG1> or < R25 >.
// The first submatch is the bare identifier.
const DefaultMarkerPattern = `<\s*([A-Z]{1,5}\d+)\s*>`

// DefaultMinContent is the minimum trimmed content length, in characters,
// for a chunk to be emitted.
const DefaultMinContent = 1

// Segmenter splits page text at rule markers.
// It implements the driven.Segmenter interface.
type Segmenter struct {
	marker     *regexp.Regexp
	minContent int
}

// Option configures the segmenter.
type Option func(*Segmenter)

// WithMarkerPattern replaces the rule marker expression.
// The pattern must have exactly one capture group holding the identifier.
// Invalid patterns are ignored.
func WithMarkerPattern(pattern string) Option {
	return func(s *Segmenter) {
		re, err := regexp.Compile(pattern)
		if err != nil || re.NumSubexp() != 1 {
			return
		}
		s.marker = re
	}
}

// WithMinContent drops chunks whose trimmed content is shorter than n characters.
func WithMinContent(n int) Option {
	return func(s *Segmenter) {
		if n > 0 {
			s.minContent = n
		}
	}
}

// New creates a new segmenter with the given options.
func New(opts ...Option) *Segmenter {
	s := &Segmenter{
		marker:     regexp.MustCompile(DefaultMarkerPattern),
		minContent: DefaultMinContent,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the segmenter name.
func (s *Segmenter) Name() string {
	return "segmenter"
}

// Segment returns the chunks of all pages in reading order.
// Text before the first marker of a page is discarded and chunks never
// cross a page boundary.
func (s *Segmenter) Segment(ctx context.Context, pages []domain.Page) ([]domain.Chunk, error) {
	var chunks []domain.Chunk

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if page.Number < 1 {
			return nil, fmt.Errorf("%w: page number %d", domain.ErrInvalidInput, page.Number)
		}
		chunks = append(chunks, s.segmentPage(page)...)
	}

	return chunks, nil
}

func (s *Segmenter) segmentPage(page domain.Page) []domain.Chunk {
	matches := s.marker.FindAllStringSubmatchIndex(page.Text, -1)
	if len(matches) == 0 {
		return nil
	}

	chunks := make([]domain.Chunk, 0, len(matches))
	for i, m := range matches {
		end := len(page.Text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		content := strings.TrimSpace(page.Text[m[1]:end])
		if content == "" || utf8.RuneCountInString(content) < s.minContent {
			continue
		}

		chunks = append(chunks, domain.Chunk{
			PageNumber: page.Number,
			RuleID:     "<" + page.Text[m[2]:m[3]] + ">",
			Content:    content,
		})
	}

	return chunks
}
