package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/rulebot/internal/core/domain"
	"github.com/custodia-labs/rulebot/internal/core/ports/driven"
	"github.com/custodia-labs/rulebot/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDataDir         = "data.dir"
	keyDataManual      = "data.manual"
	keyDataChunks      = "data.chunks"
	keyDataIndex       = "data.index"
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyTemperature     = "generation.temperature"
	keyMaxTokens       = "generation.max_tokens"
	keyCandidates      = "retrieval.candidates"
	keyMaxAttempts     = "answer.max_attempts"
	keyBackoffSeconds  = "answer.backoff_seconds"
	keyEmbedRate       = "index.embed_rate"
	segmenterKeyPrefix = "ingest."
)

// ollamaDefaultURL is used for local providers without a configured base URL.
const ollamaDefaultURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Data: domain.DataSettings{
			Dir:    s.getString(keyDataDir, defaults.Data.Dir),
			Manual: s.getString(keyDataManual, defaults.Data.Manual),
			Chunks: s.getString(keyDataChunks, defaults.Data.Chunks),
			Index:  s.getString(keyDataIndex, defaults.Data.Index),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Generation: domain.GenerationSettings{
			Temperature: s.getFloat(keyTemperature, defaults.Generation.Temperature),
			MaxTokens:   s.getInt(keyMaxTokens, defaults.Generation.MaxTokens),
		},
		Retrieval: domain.RetrievalSettings{
			Candidates: s.getInt(keyCandidates, defaults.Retrieval.Candidates),
		},
		Answer: domain.AnswerSettings{
			MaxAttempts: s.getInt(keyMaxAttempts, defaults.Answer.MaxAttempts),
			BackoffStep: s.getSeconds(keyBackoffSeconds, defaults.Answer.BackoffStep),
		},
		Index: domain.IndexSettings{
			EmbedRate: s.getFloat(keyEmbedRate, defaults.Index.EmbedRate),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
		label string
	}{
		{keyDataDir, settings.Data.Dir, "data dir"},
		{keyDataManual, settings.Data.Manual, "data manual"},
		{keyDataChunks, settings.Data.Chunks, "data chunks"},
		{keyDataIndex, settings.Data.Index, "data index"},
		{keyEmbedProvider, settings.Embedding.Provider.String(), "embedding provider"},
		{keyEmbedModel, settings.Embedding.Model, "embedding model"},
		{keyEmbedBaseURL, settings.Embedding.BaseURL, "embedding base_url"},
		{keyLLMProvider, settings.LLM.Provider.String(), "llm provider"},
		{keyLLMModel, settings.LLM.Model, "llm model"},
		{keyLLMBaseURL, settings.LLM.BaseURL, "llm base_url"},
		{keyTemperature, settings.Generation.Temperature, "temperature"},
		{keyMaxTokens, settings.Generation.MaxTokens, "max tokens"},
		{keyCandidates, settings.Retrieval.Candidates, "candidates"},
		{keyMaxAttempts, settings.Answer.MaxAttempts, "max attempts"},
		{keyBackoffSeconds, int(settings.Answer.BackoffStep / time.Second), "backoff seconds"},
		{keyEmbedRate, settings.Index.EmbedRate, "embed rate"},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.label, err)
		}
	}

	// API keys are only written when present so env-provided keys stay out of the file.
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !provider.SupportsEmbeddings() {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = modelOrDefault(model, domain.DefaultEmbeddingModels()[provider])
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = modelOrDefault(model, domain.DefaultLLMModels()[provider])
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that both providers are usable and the tuning values are in range.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q is not configured", settings.Embedding.Provider)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %q is not configured", settings.LLM.Provider)
	}
	if t := settings.Generation.Temperature; t < 0 || t > 1 {
		return fmt.Errorf("%w: temperature %.2f outside [0,1]", domain.ErrInvalidInput, t)
	}
	if settings.Answer.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts must be at least 1", domain.ErrInvalidInput)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// SegmenterConfig returns the segmenter settings found under the ingest table.
func (s *SettingsService) SegmenterConfig() map[string]any {
	cfg := make(map[string]any)
	for _, key := range []string{"marker_pattern", "min_content"} {
		if val, exists := s.configStore.Get(segmenterKeyPrefix + key); exists {
			cfg[key] = val
		}
	}
	return cfg
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getFloat distinguishes an explicit zero from a missing key.
func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Second
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func modelOrDefault(model, defaultModel string) string {
	if model != "" {
		return model
	}
	return defaultModel
}

// baseURLFor keeps a configured URL for local providers and clears it for cloud ones.
func baseURLFor(provider domain.AIProvider, current string) string {
	if !provider.IsLocal() {
		return ""
	}
	if current == "" {
		return ollamaDefaultURL
	}
	return current
}
