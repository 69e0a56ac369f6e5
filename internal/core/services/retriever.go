package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/rulebot/internal/core/domain"
	"github.com/custodia-labs/rulebot/internal/core/ports/driven"
	"github.com/custodia-labs/rulebot/internal/core/ports/driving"
	"github.com/custodia-labs/rulebot/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.Retriever = (*RetrieverService)(nil)

// RetrieverService runs vector search followed by keyword re-ranking.
type RetrieverService struct {
	corpus     CorpusProvider
	embedder   driven.EmbeddingService
	candidates int

	chunkStore driven.ChunkStore
	chunksMu   sync.Mutex
	chunks     []domain.Chunk
	chunksDone bool
}

// NewRetrieverService creates a new retriever.
// The embedder may be nil, in which case every query uses keyword-only search.
func NewRetrieverService(corpus CorpusProvider, embedder driven.EmbeddingService) *RetrieverService {
	return &RetrieverService{
		corpus:     corpus,
		embedder:   embedder,
		candidates: domain.DefaultCandidates,
	}
}

// SetCandidates sets the default nearest-neighbour pool size.
func (s *RetrieverService) SetCandidates(k int) {
	if k > 0 {
		s.candidates = k
	}
}

// SetChunkStore sets the full chunk collection searched by the keyword
// fallback. Without it the fallback only sees the embedded chunks.
func (s *RetrieverService) SetChunkStore(store driven.ChunkStore) {
	s.chunksMu.Lock()
	defer s.chunksMu.Unlock()
	s.chunkStore = store
	s.chunks = nil
	s.chunksDone = false
}

// Retrieve returns up to domain.MaxResults chunks relevant to the query.
func (s *RetrieverService) Retrieve(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}
	if k <= 0 {
		k = s.candidates
	}

	corpus, err := s.corpus.Load(ctx)
	if err != nil {
		return nil, err
	}

	enriched := EnrichQuery(query)
	logger.Debug("Enriched query: %q", enriched)

	candidates, err := s.vectorCandidates(ctx, corpus, enriched, k)
	if err != nil {
		logger.Warn("Vector search failed, using keyword search: %v", err)
		return keywordSearch(enriched, s.fallbackChunks(ctx, corpus)), nil
	}
	logger.Debug("Candidates: %d", len(candidates))

	intent, keywords := collectKeywords(query, enriched)
	logger.Info("Intent: %q, %d keywords", intent, len(keywords))

	results := filterCandidates(candidates, keywords)
	logger.Info("Final results: %d", len(results))
	return results, nil
}

// fallbackChunks returns the full chunk collection, loaded once. Chunks that
// failed to embed at build time are only reachable through it.
func (s *RetrieverService) fallbackChunks(ctx context.Context, corpus *Corpus) []domain.Chunk {
	s.chunksMu.Lock()
	defer s.chunksMu.Unlock()

	if s.chunkStore == nil {
		return corpus.Chunks
	}
	if s.chunksDone {
		if len(s.chunks) == 0 {
			return corpus.Chunks
		}
		return s.chunks
	}

	chunks, err := s.chunkStore.Load(ctx)
	if err != nil {
		logger.Warn("Chunk collection unavailable, searching indexed chunks only: %v", err)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return corpus.Chunks
		}
	}
	s.chunks, s.chunksDone = chunks, true

	if len(s.chunks) == 0 {
		return corpus.Chunks
	}
	logger.Debug("Keyword search over %d chunks", len(s.chunks))
	return s.chunks
}

// vectorCandidates embeds the enriched query and maps the nearest vectors
// back to chunks, nearest first.
func (s *RetrieverService) vectorCandidates(
	ctx context.Context, corpus *Corpus, enriched string, k int,
) ([]domain.Chunk, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if corpus.Index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	vector, err := s.embedder.Embed(ctx, enriched, domain.EmbeddingTaskQuery)
	if err != nil {
		return nil, err
	}

	hits, err := corpus.Index.Search(ctx, vector, k)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.Chunk, 0, len(hits))
	for _, hit := range hits {
		if hit.Position < 0 || hit.Position >= len(corpus.Chunks) {
			continue
		}
		candidates = append(candidates, corpus.Chunks[hit.Position])
	}
	return candidates, nil
}

// collectKeywords builds the re-ranking keyword set: the intent keywords of
// the combined query, every token of it and the generic rule terms.
func collectKeywords(query, enriched string) (Intent, []string) {
	combined := strings.ToLower(query + " " + enriched)
	intent, intentKeywords := classify(retrievalIntents, combined)

	keywords := make([]string, 0, len(intentKeywords)+16)
	keywords = append(keywords, intentKeywords...)
	keywords = append(keywords, tokens(combined)...)
	keywords = append(keywords, "rule", "kural")

	return intent, dedupe(keywords)
}

// filterCandidates keeps the candidates mentioning any keyword, in candidate
// order, and falls back to the leading candidates when none does.
func filterCandidates(candidates []domain.Chunk, keywords []string) []domain.SearchResult {
	var matched []domain.SearchResult
	for _, c := range candidates {
		hits := matchKeywords(c, keywords)
		if len(hits) == 0 {
			continue
		}
		r := domain.NewSearchResult(c)
		r.MatchedKeywords = hits
		matched = append(matched, r)
		logger.Debug("Match: page %d, rule %s, keywords %v", c.PageNumber, c.RuleID, hits)
		if len(matched) == domain.MaxResults {
			return matched
		}
	}

	if len(matched) > 0 {
		return matched
	}

	logger.Debug("No keyword matches, using leading candidates")
	n := min(len(candidates), domain.MaxResults)
	results := make([]domain.SearchResult, 0, n)
	for _, c := range candidates[:n] {
		results = append(results, domain.NewSearchResult(c))
	}
	return results
}

// matchKeywords returns the sorted keywords found in the chunk content or rule id.
func matchKeywords(c domain.Chunk, keywords []string) []string {
	content := strings.ToLower(c.Content)
	ruleID := strings.ToLower(c.RuleID)

	var hits []string
	for _, kw := range keywords {
		if strings.Contains(content, kw) || strings.Contains(ruleID, kw) {
			hits = append(hits, kw)
		}
	}
	sort.Strings(hits)
	return hits
}

// keywordSearch scores every chunk by the number of keywords its content
// contains and returns the best, stable on ties. It never fails.
func keywordSearch(query string, chunks []domain.Chunk) []domain.SearchResult {
	logger.Section("Keyword Search")

	lower := strings.ToLower(query)
	_, keywords := classify(fallbackIntents, lower)
	keywords = append(append([]string(nil), keywords...), tokens(lower)...)

	var results []domain.SearchResult
	for _, c := range chunks {
		content := strings.ToLower(c.Content)
		score := 0
		for _, kw := range keywords {
			if strings.Contains(content, kw) {
				score++
			}
		}
		if score == 0 {
			continue
		}
		r := domain.NewSearchResult(c)
		r.Score = float64(score)
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	logger.Debug("Keyword search: %d chunks matched", len(results))
	if len(results) > domain.MaxResults {
		results = results[:domain.MaxResults]
	}
	return results
}

// dedupe removes repeated strings, keeping the first occurrence.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
