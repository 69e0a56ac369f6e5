package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/rulebot/internal/core/domain"
	"github.com/custodia-labs/rulebot/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors are looked up by text; unknown texts get the default embedding.
type mockEmbeddingService struct {
	mu        sync.Mutex
	embedding []float32
	byText    map[string][]float32
	failFor   map[string]error
	embedErr  error
	calls     []domain.EmbeddingTask
	dims      int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string, task domain.EmbeddingTask) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, task)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if err, ok := m.failFor[text]; ok {
		return nil, err
	}
	if v, ok := m.byText[text]; ok {
		return v, nil
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return len(m.embedding)
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	hits      []driven.VectorHit
	searchErr error
	lastK     int
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	m.lastK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Len() int {
	return len(m.hits)
}

func (m *mockVectorIndex) Dimensions() int {
	return 2
}

// mockLLMService implements driven.LLMService for testing.
// Responses are consumed in order; the last one repeats.
type mockLLMService struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
	opts      driven.GenerateOptions
	panicMsg  string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	i := m.calls
	m.calls++
	m.prompts = append(m.prompts, prompt)
	m.opts = opts

	var err error
	if len(m.errs) > 0 {
		err = m.errs[min(i, len(m.errs)-1)]
	}
	if err != nil {
		return "", err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	return m.responses[min(i, len(m.responses)-1)], nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockCorpus implements CorpusProvider for testing.
type mockCorpus struct {
	corpus *Corpus
	err    error
}

func (m *mockCorpus) Load(_ context.Context) (*Corpus, error) {
	return m.corpus, m.err
}

// mockIndexStore implements driven.IndexStore for testing.
type mockIndexStore struct {
	artifact *driven.IndexArtifact
	loadErr  error
	saveErr  error
	saved    *driven.IndexArtifact
	loads    int
}

func (m *mockIndexStore) Save(_ context.Context, a *driven.IndexArtifact) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = a
	return nil
}

func (m *mockIndexStore) Load(ctx context.Context) (*driven.IndexArtifact, error) {
	m.loads++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.artifact, nil
}

func (m *mockIndexStore) Path() string {
	return "/tmp/index.db"
}

// mockChunkStore implements driven.ChunkStore for testing.
type mockChunkStore struct {
	chunks  []domain.Chunk
	loadErr error
	saveErr error
	saved   []domain.Chunk
	saves   int
	loads   int
}

func (m *mockChunkStore) Save(_ context.Context, chunks []domain.Chunk) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.saved = chunks
	return nil
}

func (m *mockChunkStore) Load(_ context.Context) ([]domain.Chunk, error) {
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.chunks, nil
}

func (m *mockChunkStore) Path() string {
	return "/tmp/processed_chunks.json"
}

// mockPageExtractor implements driven.PageExtractor for testing.
type mockPageExtractor struct {
	pages []domain.Page
	err   error
	path  string
}

func (m *mockPageExtractor) Extract(_ context.Context, path string) ([]domain.Page, error) {
	m.path = path
	return m.pages, m.err
}

// mockSegmenter implements driven.Segmenter for testing.
type mockSegmenter struct {
	chunks []domain.Chunk
	err    error
}

func (m *mockSegmenter) Name() string {
	return "mock"
}

func (m *mockSegmenter) Segment(_ context.Context, _ []domain.Page) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {}

// --- Fixtures ---

// sampleChunks is a small manual: dimension, weight, material and filler rules.
func sampleChunks() []domain.Chunk {
	return []domain.Chunk{
		{PageNumber: 3, RuleID: "<SG1>", Content: "Robot must fit in an 18 inch cube at start and may expand to 22 inch"},
		{PageNumber: 5, RuleID: "<SC2>", Content: "Each Block weighs approximately 40 gram"},
		{PageNumber: 9, RuleID: "<R25>", Content: "A limited amount of custom plastic is allowed"},
		{PageNumber: 12, RuleID: "<GG4>", Content: "Teams shall behave respectfully"},
		{PageNumber: 14, RuleID: "<T1>", Content: "Matches last two minutes"},
		{PageNumber: 15, RuleID: "<T2>", Content: "Field resets happen between matches"},
	}
}

func hitsFor(positions ...int) []driven.VectorHit {
	hits := make([]driven.VectorHit, len(positions))
	for i, p := range positions {
		hits[i] = driven.VectorHit{Position: p, Distance: float32(i)}
	}
	return hits
}

func corpusWith(chunks []domain.Chunk, index driven.VectorIndex) *mockCorpus {
	return &mockCorpus{corpus: &Corpus{Chunks: chunks, Index: index}}
}
