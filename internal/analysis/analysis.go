// Package analysis derives emotions and themes from journal text through a
// text-generation provider, falling back to keyword scoring whenever the
// provider is absent, fails, or answers with the wrong shape.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/metrics"
)

var (
	ErrNoProvider      = errors.New("no analysis provider configured")
	ErrBlocked         = errors.New("provider blocked the prompt")
	ErrInvalidResponse = errors.New("provider response failed validation")
	ErrEmptyResponse   = errors.New("provider returned no content")
)

type Emotion struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type Result struct {
	Emotions []Emotion `json:"emotions"`
	Themes   []string  `json:"themes"`
}

const analysisSystemPrompt = "You are an emotional and thematic analysis expert for journal entries. " +
	"You answer with JSON only, no markdown and no code fences."

const analysisPromptTemplate = `Analyze the journal entry below and identify its emotions and themes.

Return a JSON object with exactly these fields:
- "emotions": an array of 1 to 3 objects, each {"name": string, "score": number from 0 to 100}
- "themes": an array of 1 to 3 short theme labels such as "Work", "Relationships", "Health", "Creativity", "Learning"

Be specific with emotion labels and use title case.

Journal entry:
"""
%s
"""`

// AnalysisPrompt builds the provider prompt for one entry.
func AnalysisPrompt(text string) Prompt {
	return Prompt{
		System:     analysisSystemPrompt,
		User:       fmt.Sprintf(analysisPromptTemplate, text),
		JSONObject: true,
	}
}

// Service analyzes entry text. A nil provider means every call uses the
// keyword fallback.
type Service struct {
	provider Provider
	fallback *KeywordAnalyzer
	metrics  metrics.Recorder
	timeout  time.Duration
}

func NewService(provider Provider, fallback *KeywordAnalyzer, recorder metrics.Recorder, timeout time.Duration) *Service {
	if fallback == nil {
		fallback = DefaultKeywordAnalyzer()
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Service{provider: provider, fallback: fallback, metrics: recorder, timeout: timeout}
}

// Provider exposes the configured provider so the insight aggregator can
// share it. May be nil.
func (s *Service) Provider() Provider {
	return s.provider
}

// AnalyzeStrict asks the provider and validates its answer. It never falls back.
func (s *Service) AnalyzeStrict(ctx context.Context, text string) (*Result, error) {
	if s.provider == nil {
		return nil, ErrNoProvider
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.provider.Generate(ctx, AnalysisPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.provider.Name(), err)
	}

	result, err := ParseAnalysis(raw)
	if err != nil {
		s.metrics.RecordProviderFailure(s.provider.Name(), FailureReason(err))
		return nil, fmt.Errorf("%s: %w", s.provider.Name(), err)
	}
	return result, nil
}

// Analyze always returns a usable result.
func (s *Service) Analyze(ctx context.Context, text string) Result {
	result, err := s.AnalyzeStrict(ctx, text)
	if err == nil {
		s.metrics.RecordAnalysis(metrics.SourceProvider)
		return *result
	}

	if !errors.Is(err, ErrNoProvider) {
		slog.Warn("analysis provider failed, using keyword fallback", "error", err)
	}
	s.metrics.RecordAnalysis(metrics.SourceFallback)
	return s.fallback.Analyze(text)
}
