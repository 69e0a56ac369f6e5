package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the generation service is not configured or unreachable.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured or unreachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the similarity index is not loaded.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// Ingestion and index errors.

	// ErrNoChunks indicates the chunk collection is missing or empty.
	// Index builds abort with this error before writing anything.
	ErrNoChunks = errors.New("chunk collection is missing or empty")

	// ErrIndexUnavailable indicates the persisted index or chunk sequence could not be loaded.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrIndexCorrupt indicates the persisted vectors and chunks are not positionally aligned.
	ErrIndexCorrupt = errors.New("index corrupt")

	// ErrDimensionMismatch indicates a vector does not have the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// Service errors.

	// ErrEmptyResponse indicates the generation service returned no text.
	ErrEmptyResponse = errors.New("empty response")

	// ErrRateLimited indicates the provider rejected the call for exceeding its quota.
	ErrRateLimited = errors.New("rate limited")
)
