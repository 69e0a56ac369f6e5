package domain

// EmbeddingTask tells the embedding service how the text will be used.
type EmbeddingTask string

// Embedding tasks.
const (
	// EmbeddingTaskDocument marks text stored in the index.
	EmbeddingTaskDocument EmbeddingTask = "document"

	// EmbeddingTaskQuery marks text used to search the index.
	EmbeddingTaskQuery EmbeddingTask = "query"
)

// String returns the string representation.
func (t EmbeddingTask) String() string {
	return string(t)
}
