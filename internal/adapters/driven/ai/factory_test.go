package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.EmbeddingSettings
		wantNil   bool
		wantModel string
		wantDims  int
	}{
		{name: "nil settings", settings: nil, wantNil: true},
		{name: "unconfigured", settings: &domain.EmbeddingSettings{}, wantNil: true},
		{name: "gemini without key", settings: &domain.EmbeddingSettings{Provider: domain.AIProviderGemini}, wantNil: true},
		{name: "anthropic has no embeddings", settings: &domain.EmbeddingSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"}, wantNil: true},
		{
			name:      "gemini",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderGemini, APIKey: "k", Model: "text-embedding-004"},
			wantModel: "text-embedding-004",
			wantDims:  768,
		},
		{
			name:      "ollama unknown model uses default dims",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "custom-embed"},
			wantModel: "custom-embed",
			wantDims:  768,
		},
		{
			name:      "ollama known model",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "all-minilm"},
			wantModel: "all-minilm",
			wantDims:  384,
		},
		{
			name:      "openai",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", Model: "text-embedding-3-large"},
			wantModel: "text-embedding-3-large",
			wantDims:  3072,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)

			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			assert.Equal(t, tt.wantModel, svc.ModelName())
			assert.Equal(t, tt.wantDims, svc.Dimensions())
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.LLMSettings
		wantNil   bool
		wantModel string
	}{
		{name: "nil settings", settings: nil, wantNil: true},
		{name: "openai without key", settings: &domain.LLMSettings{Provider: domain.AIProviderOpenAI}, wantNil: true},
		{name: "gemini", settings: &domain.LLMSettings{Provider: domain.AIProviderGemini, APIKey: "k", Model: "gemini-1.5-flash"}, wantModel: "gemini-1.5-flash"},
		{name: "ollama", settings: &domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3.2"}, wantModel: "llama3.2"},
		{name: "openai", settings: &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", Model: "gpt-4o"}, wantModel: "gpt-4o"},
		{name: "anthropic", settings: &domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"}, wantModel: "claude-3-5-sonnet-latest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)

			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestApplyEnvKeys(t *testing.T) {
	env := map[string]string{
		EnvGoogleAPIKey:    "google",
		EnvAnthropicAPIKey: "anthropic",
	}
	getenv := func(k string) string { return env[k] }

	t.Run("fills missing gemini keys", func(t *testing.T) {
		settings := domain.DefaultAppSettings()

		ApplyEnvKeys(&settings, getenv)

		assert.Equal(t, "google", settings.Embedding.APIKey)
		assert.Equal(t, "google", settings.LLM.APIKey)
	})

	t.Run("config key wins", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.LLM.APIKey = "from-file"

		ApplyEnvKeys(&settings, getenv)

		assert.Equal(t, "from-file", settings.LLM.APIKey)
	})

	t.Run("per provider variable", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.LLM.Provider = domain.AIProviderAnthropic
		settings.Embedding.Provider = domain.AIProviderOllama

		ApplyEnvKeys(&settings, getenv)

		assert.Equal(t, "anthropic", settings.LLM.APIKey)
		assert.Empty(t, settings.Embedding.APIKey)
	})

	t.Run("nil safe", func(t *testing.T) {
		assert.NotPanics(t, func() { ApplyEnvKeys(nil, getenv) })
	})
}

func TestInit_WarnsForUnconfiguredProviders(t *testing.T) {
	settings := domain.DefaultAppSettings()

	services := Init(&settings, false)
	defer services.Close()

	assert.Nil(t, services.EmbeddingService)
	assert.Nil(t, services.LLMService)
	require.Len(t, services.Warnings, 2)
	assert.Contains(t, services.Warnings[0], "embedding provider \"gemini\" is not configured")
	assert.Contains(t, services.Warnings[1], "rulebot settings wizard")
}

func TestInit_CreatesServicesWithoutValidation(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Embedding.APIKey = "k"
	settings.LLM.APIKey = "k"

	services := Init(&settings, false)
	defer services.Close()

	assert.NotNil(t, services.EmbeddingService)
	assert.NotNil(t, services.LLMService)
	assert.Empty(t, services.Warnings)
}

func TestInit_ValidationFailureBecomesWarning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	settings := domain.DefaultAppSettings()
	settings.Embedding.Provider = domain.AIProviderOllama
	settings.Embedding.BaseURL = server.URL
	settings.LLM.Provider = domain.AIProviderOllama
	settings.LLM.BaseURL = server.URL

	services := Init(&settings, true)

	assert.Nil(t, services.EmbeddingService)
	assert.Nil(t, services.LLMService)
	require.Len(t, services.Warnings, 2)
	assert.Contains(t, services.Warnings[0], domain.ErrEmbeddingUnavailable.Error())
	assert.Contains(t, services.Warnings[1], domain.ErrLLMUnavailable.Error())
}

func TestCreateAndValidate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	embedder, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama, BaseURL: server.URL,
	})
	require.NoError(t, err)
	assert.NotNil(t, embedder)

	llm, err := CreateAndValidateLLMService(&domain.LLMSettings{
		Provider: domain.AIProviderOllama, BaseURL: server.URL,
	})
	require.NoError(t, err)
	assert.NotNil(t, llm)
}

func TestCreateAndValidate_Unconfigured(t *testing.T) {
	embedder, err := CreateAndValidateEmbeddingService(nil)
	assert.NoError(t, err)
	assert.Nil(t, embedder)

	llm, err := CreateAndValidateLLMService(&domain.LLMSettings{})
	assert.NoError(t, err)
	assert.Nil(t, llm)
}

func TestCreateEmbeddingService_UnknownProvider(t *testing.T) {
	// IsConfigured rejects unknown providers before the switch.
	svc, err := CreateEmbeddingService(&domain.EmbeddingSettings{Provider: "mystery"})

	assert.NoError(t, err)
	assert.Nil(t, svc)
}
