// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	geminiembed "github.com/custodia-labs/rulebot/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/custodia-labs/rulebot/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/rulebot/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/rulebot/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/rulebot/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/rulebot/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/rulebot/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/rulebot/internal/core/domain"
	"github.com/custodia-labs/rulebot/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// wizardHint is appended to configuration errors.
const wizardHint = "Run 'rulebot settings wizard' to fix"

// Environment variables that supply API keys missing from the config file.
const (
	EnvGoogleAPIKey    = "GOOGLE_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

var envKeys = map[domain.AIProvider]string{
	domain.AIProviderGemini:    EnvGoogleAPIKey,
	domain.AIProviderOpenAI:    EnvOpenAIAPIKey,
	domain.AIProviderAnthropic: EnvAnthropicAPIKey,
}

// ApplyEnvKeys fills empty API keys from the provider's environment variable.
// Keys already present in settings win.
func ApplyEnvKeys(settings *domain.AppSettings, getenv func(string) string) {
	if settings == nil || getenv == nil {
		return
	}
	if settings.Embedding.APIKey == "" {
		if name, ok := envKeys[settings.Embedding.Provider]; ok {
			settings.Embedding.APIKey = getenv(name)
		}
	}
	if settings.LLM.APIKey == "" {
		if name, ok := envKeys[settings.LLM.Provider]; ok {
			settings.LLM.APIKey = getenv(name)
		}
	}
}

// Services bundles the AI services used to answer questions.
type Services struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Warnings         []string // Non-fatal issues; the matching service is nil.
}

// Close releases all resources held by the bundle.
func (s *Services) Close() {
	if s.EmbeddingService != nil {
		s.EmbeddingService.Close()
	}
	if s.LLMService != nil {
		s.LLMService.Close()
	}
}

// Init creates both services. Failures become warnings so callers can still
// answer from the keyword fallback or templates.
func Init(settings *domain.AppSettings, validate bool) *Services {
	result := &Services{}

	embedFn := CreateEmbeddingService
	llmFn := CreateLLMService
	if validate {
		embedFn = CreateAndValidateEmbeddingService
		llmFn = CreateAndValidateLLMService
	}

	embedder, err := embedFn(&settings.Embedding)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, err.Error())
	case embedder == nil:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("embedding provider %q is not configured. %s", settings.Embedding.Provider, wizardHint))
	default:
		result.EmbeddingService = embedder
	}

	llm, err := llmFn(&settings.LLM)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, err.Error())
	case llm == nil:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("LLM provider %q is not configured. %s", settings.LLM.Provider, wizardHint))
	default:
		result.LLMService = llm
	}

	return result
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrEmbeddingUnavailable, err, wizardHint)
	}
	if svc == nil {
		return nil, nil
	}

	if err := ping(svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). %s", domain.ErrEmbeddingUnavailable, err, wizardHint)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrLLMUnavailable, err, wizardHint)
	}
	if svc == nil {
		return nil, nil
	}

	if err := ping(svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). %s", domain.ErrLLMUnavailable, err, wizardHint)
	}
	return svc, nil
}

// ValidateEmbeddingConfig creates a service from settings and pings it.
// Unconfigured settings are not an error.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()
	return ping(svc.Ping)
}

// ValidateLLMConfig creates a service from settings and pings it.
// Unconfigured settings are not an error.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	svc, err := CreateLLMService(settings)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()
	return ping(svc.Ping)
}

func ping(fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return fn(ctx)
}

// CreateEmbeddingService creates the embedding service named by settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	dimensions := domain.EmbeddingDimensions()[settings.Model]

	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminiembed.NewEmbeddingService(geminiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		})

	case domain.AIProviderOllama:
		if dimensions == 0 {
			dimensions = ollamaembed.DefaultDimensions
		}
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the LLM service named by settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminillm.NewLLMService(geminillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
