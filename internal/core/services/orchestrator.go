package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/rulebot/internal/core/domain"
	"github.com/custodia-labs/rulebot/internal/core/ports/driven"
	"github.com/custodia-labs/rulebot/internal/core/ports/driving"
	"github.com/custodia-labs/rulebot/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.Answerer = (*AnswerService)(nil)

// AnswerService drives retrieval, prompt composition and generation for a
// query, and always produces answer text.
type AnswerService struct {
	corpus    CorpusProvider
	retriever driving.Retriever
	llm       driven.LLMService
	prompts   driven.PromptStore
	backoff   BackoffPolicy
	options   driven.GenerateOptions
	onState   func(domain.AnswerState)
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewAnswerService creates a new answer service.
// The llm may be nil, in which case every answer comes from the fallback templates.
func NewAnswerService(
	corpus CorpusProvider,
	retriever driving.Retriever,
	llm driven.LLMService,
) *AnswerService {
	defaults := domain.DefaultAppSettings()
	return &AnswerService{
		corpus:    corpus,
		retriever: retriever,
		llm:       llm,
		backoff:   DefaultBackoff(),
		options: driven.GenerateOptions{
			Temperature: defaults.Generation.Temperature,
			MaxTokens:   defaults.Generation.MaxTokens,
		},
		sleep: sleepContext,
	}
}

// SetPromptStore sets the store the system instructions are read from.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// SetBackoff replaces the retry policy.
func (s *AnswerService) SetBackoff(policy BackoffPolicy) {
	if policy != nil {
		s.backoff = policy
	}
}

// SetGenerateOptions replaces the generation parameters.
func (s *AnswerService) SetGenerateOptions(opts driven.GenerateOptions) {
	s.options = opts
}

// SetStateHook registers a function called on every state transition.
func (s *AnswerService) SetStateHook(fn func(domain.AnswerState)) {
	s.onState = fn
}

// Answer answers one query given the conversation so far.
func (s *AnswerService) Answer(ctx context.Context, query string, history []domain.Turn) (answer domain.Answer) {
	logger.Section("Answer")
	s.enter(domain.AnswerIdle)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			logger.Error("Answer flow panicked: %v", r)
			answer = s.failed(err, answer.Attempts)
		}
	}()

	if _, err := s.corpus.Load(ctx); err != nil {
		s.enter(domain.AnswerFailed)
		return domain.Answer{
			Text:  domain.MsgDatabaseUnavailable,
			State: domain.AnswerFailed,
			Err:   err,
		}
	}

	s.enter(domain.AnswerRetrieving)
	results, err := s.retriever.Retrieve(ctx, query, 0)
	if err != nil {
		return s.failed(err, 0)
	}
	answer.Sources = results
	if len(results) == 0 {
		s.enter(domain.AnswerSucceeded)
		answer.Text = domain.MsgNoInformation
		answer.State = domain.AnswerSucceeded
		return answer
	}

	s.enter(domain.AnswerComposing)
	prompt := NewPromptComposer(s.systemPrompt()).Compose(query, results, history)
	logger.Debug("Prompt length: %d characters", len(prompt))

	text, attempts, err := s.generate(ctx, prompt)
	answer.Attempts = attempts
	if err == nil {
		s.enter(domain.AnswerSucceeded)
		answer.Text = text
		answer.State = domain.AnswerSucceeded
		return answer
	}

	logger.Warn("Generation failed after %d attempts: %v", attempts, err)
	s.enter(domain.AnswerFallback)
	answer.Text = fallbackAnswer(query, results)
	answer.State = domain.AnswerFallback
	answer.Err = err
	return answer
}

// generate calls the LLM until it returns text or the backoff policy is
// exhausted. Empty responses count as failures.
func (s *AnswerService) generate(ctx context.Context, prompt string) (string, int, error) {
	if s.llm == nil {
		return "", 0, domain.ErrLLMUnavailable
	}

	maxAttempts := s.backoff.MaxAttempts()
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		s.enter(domain.AnswerGenerating)
		logger.Debug("Generation attempt %d/%d", attempt, maxAttempts)

		text, err := s.llm.Generate(ctx, prompt, s.options)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, attempt, nil
		}
		if err == nil {
			err = domain.ErrEmptyResponse
		}
		lastErr = err
		logger.Warn("Generation attempt %d failed: %v", attempt, err)

		if attempt == maxAttempts {
			return "", attempt, lastErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", attempt, errors.Join(lastErr, ctxErr)
		}

		s.enter(domain.AnswerRetrying)
		delay := s.backoff.Delay(attempt)
		logger.Debug("Waiting %s before retrying", delay)
		if err := s.sleep(ctx, delay); err != nil {
			return "", attempt, errors.Join(lastErr, err)
		}
	}

	return "", maxAttempts, lastErr
}

func (s *AnswerService) systemPrompt() string {
	if s.prompts == nil {
		return domain.DefaultSystemPrompt
	}
	system, err := s.prompts.Load(driven.PromptRAGSystem)
	if err != nil {
		logger.Warn("Using default system prompt: %v", err)
		return domain.DefaultSystemPrompt
	}
	return system
}

func (s *AnswerService) failed(err error, attempts int) domain.Answer {
	s.enter(domain.AnswerFailed)
	return domain.Answer{
		Text:     domain.FailedMessage(err),
		State:    domain.AnswerFailed,
		Attempts: attempts,
		Err:      err,
	}
}

func (s *AnswerService) enter(state domain.AnswerState) {
	logger.Debug("Answer state: %s", state)
	if s.onState != nil {
		s.onState(state)
	}
}
