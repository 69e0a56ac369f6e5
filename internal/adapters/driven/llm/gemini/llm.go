// Package gemini provides an LLM service adapter for the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/rulebot/internal/adapters/driven/httpclient"
	"github.com/custodia-labs/rulebot/internal/core/ports/driven"
	"github.com/custodia-labs/rulebot/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-1.5-flash"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Google AI Studio key (required).
	APIKey string

	// BaseURL is the API base URL.
	BaseURL string

	// Model is the generation model (default: gemini-1.5-flash).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService generates text with Gemini generateContent.
type LLMService struct {
	client  *httpclient.Client
	baseURL string
	model   string
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// NewLLMService creates a Gemini LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		client: httpclient.New("gemini", cfg.Timeout, map[string]string{
			"x-goog-api-key": cfg.APIKey,
		}),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   strings.TrimPrefix(cfg.Model, "models/"),
	}, nil
}

// Generate produces text from a single-turn prompt. A blocked or empty
// candidate yields an empty string.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	temperature := opts.Temperature
	reqBody := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:     &temperature,
			MaxOutputTokens: opts.MaxTokens,
		},
	}

	var resp generateResponse
	url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)
	if err := s.client.PostJSON(ctx, url, reqBody, &resp); err != nil {
		return "", err
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		logger.Warn("gemini: prompt blocked (%s)", resp.PromptFeedback.BlockReason)
		return "", nil
	}
	if len(resp.Candidates) == 0 {
		return "", nil
	}

	var text strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return text.String(), nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks the key by fetching the model description.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.client.Get(ctx, fmt.Sprintf("%s/models/%s", s.baseURL, s.model))
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
