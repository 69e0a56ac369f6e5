package domain

// DefaultCandidates is the number of nearest neighbours fetched before re-ranking.
const DefaultCandidates = 30

// MaxResults is the maximum number of results a retrieval returns.
const MaxResults = 5

// SearchResult is a retrieval-time view of a chunk. It is never persisted.
type SearchResult struct {
	// Content is the chunk text.
	Content string `json:"content"`

	// PageNumber is the page the chunk was found on.
	PageNumber int `json:"page_number"`

	// RuleID is the chunk's rule identifier.
	RuleID string `json:"rule_id"`

	// MatchedKeywords lists the re-ranking keywords found in the chunk.
	MatchedKeywords []string `json:"matched_keywords,omitempty"`

	// Score is the keyword hit count assigned by the keyword-only search.
	Score float64 `json:"score,omitempty"`
}

// NewSearchResult creates a result view of a chunk.
func NewSearchResult(c Chunk) SearchResult {
	return SearchResult{
		Content:    c.Content,
		PageNumber: c.PageNumber,
		RuleID:     c.RuleID,
	}
}

// Turn is one exchange of a conversation, owned by the caller.
type Turn struct {
	// User is what the user asked.
	User string `json:"user"`

	// Model is what the assistant answered.
	Model string `json:"model"`
}
