package domain

import (
	"path/filepath"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini || p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// SupportsEmbeddings returns true if the provider offers an embedding endpoint.
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderGemini || p == AIProviderOllama || p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || !e.Provider.SupportsEmbeddings() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// GenerationSettings fixes the generation request parameters.
type GenerationSettings struct {
	// Temperature is in [0,1]; answers use a low value for consistency.
	Temperature float64

	// MaxTokens bounds the output length.
	MaxTokens int
}

// RetrievalSettings holds retriever configuration.
type RetrievalSettings struct {
	// Candidates is the nearest-neighbour pool size fetched before re-ranking.
	Candidates int
}

// AnswerSettings holds the generation retry policy.
type AnswerSettings struct {
	// MaxAttempts is the number of generation attempts before falling back.
	MaxAttempts int

	// BackoffStep is multiplied by the attempt number to get the delay.
	BackoffStep time.Duration
}

// IndexSettings holds index build configuration.
type IndexSettings struct {
	// EmbedRate caps embedding requests per second during a build. Zero disables throttling.
	EmbedRate float64
}

// DataSettings locates the on-disk artifacts.
type DataSettings struct {
	// Dir is the data directory.
	Dir string

	// Manual is the rule manual PDF file name.
	Manual string

	// Chunks is the chunk collection file name.
	Chunks string

	// Index is the index artifact file name.
	Index string
}

// ManualPath returns the full path of the rule manual.
func (d DataSettings) ManualPath() string {
	return filepath.Join(d.Dir, d.Manual)
}

// ChunksPath returns the full path of the chunk collection.
func (d DataSettings) ChunksPath() string {
	return filepath.Join(d.Dir, d.Chunks)
}

// IndexPath returns the full path of the index artifact.
func (d DataSettings) IndexPath() string {
	return filepath.Join(d.Dir, d.Index)
}

// AppSettings holds all application settings.
type AppSettings struct {
	Data       DataSettings
	Embedding  EmbeddingSettings
	LLM        LLMSettings
	Generation GenerationSettings
	Retrieval  RetrievalSettings
	Answer     AnswerSettings
	Index      IndexSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Gemini is the default provider for both services; the API key comes from
// configuration or the environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Data: DataSettings{
			Dir:    "data",
			Manual: "game_manual.pdf",
			Chunks: "processed_chunks.json",
			Index:  "index.db",
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderGemini,
			Model:    DefaultEmbeddingModels()[AIProviderGemini],
		},
		LLM: LLMSettings{
			Provider: AIProviderGemini,
			Model:    DefaultLLMModels()[AIProviderGemini],
		},
		Generation: GenerationSettings{
			Temperature: 0.1,
			MaxTokens:   1000,
		},
		Retrieval: RetrievalSettings{
			Candidates: DefaultCandidates,
		},
		Answer: AnswerSettings{
			MaxAttempts: 3,
			BackoffStep: 2 * time.Second,
		},
		Index: IndexSettings{
			EmbedRate: 5,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini: "text-embedding-004",
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini:    "gemini-1.5-flash",
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Gemini models
		"text-embedding-004": 768,
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
