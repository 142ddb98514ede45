package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/metrics"
	"golang.org/x/time/rate"
)

var (
	ErrProviderStatus = errors.New("provider returned an error status")
	ErrRateLimited    = errors.New("provider request budget exhausted")
)

// Prompt is one provider request. JSONObject asks providers that support it
// to constrain the answer to a single JSON object.
type Prompt struct {
	System     string
	User       string
	JSONObject bool
}

// Provider turns a prompt into raw model text.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// ChainProvider tries each provider in order and returns the first answer.
type ChainProvider struct {
	providers []Provider
}

func NewChainProvider(providers ...Provider) *ChainProvider {
	return &ChainProvider{providers: providers}
}

func (c *ChainProvider) Name() string {
	if len(c.providers) == 1 {
		return c.providers[0].Name()
	}
	return "chain"
}

func (c *ChainProvider) Generate(ctx context.Context, prompt Prompt) (string, error) {
	if len(c.providers) == 0 {
		return "", ErrNoProvider
	}
	var errs []error
	for _, p := range c.providers {
		out, err := p.Generate(ctx, prompt)
		if err == nil {
			return out, nil
		}
		slog.Warn("provider failed, trying next", "provider", p.Name(), "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	return "", errors.Join(errs...)
}

// RateLimitedProvider refuses calls beyond a per-minute budget instead of
// queueing them, so callers fall back right away.
type RateLimitedProvider struct {
	next    Provider
	limiter *rate.Limiter
}

func NewRateLimitedProvider(next Provider, perMinute int) *RateLimitedProvider {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &RateLimitedProvider{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

func (r *RateLimitedProvider) Name() string { return r.next.Name() }

func (r *RateLimitedProvider) Generate(ctx context.Context, prompt Prompt) (string, error) {
	if !r.limiter.Allow() {
		return "", ErrRateLimited
	}
	return r.next.Generate(ctx, prompt)
}

type instrumentedProvider struct {
	next    Provider
	metrics metrics.Recorder
}

// Instrument records latency and failures of every call to p.
func Instrument(p Provider, recorder metrics.Recorder) Provider {
	return &instrumentedProvider{next: p, metrics: recorder}
}

func (i *instrumentedProvider) Name() string { return i.next.Name() }

func (i *instrumentedProvider) Generate(ctx context.Context, prompt Prompt) (string, error) {
	start := time.Now()
	out, err := i.next.Generate(ctx, prompt)
	i.metrics.RecordProviderLatency(i.next.Name(), time.Since(start))
	if err != nil {
		i.metrics.RecordProviderFailure(i.next.Name(), FailureReason(err))
	}
	return out, err
}

// FailureReason maps a provider error to a short metric label.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrBlocked):
		return "blocked"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, ErrProviderStatus):
		return "status"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "transport"
	}
}

// NewProviderFromConfig builds the provider strategy once at start. Providers
// are tried in cfg.AIProviders order; those without an API key are skipped.
// It returns nil when nothing is usable, which makes every analysis fall back.
func NewProviderFromConfig(cfg *config.Config, recorder metrics.Recorder) Provider {
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	var providers []Provider
	for _, name := range cfg.AIProviders {
		var p Provider
		switch name {
		case "gemini":
			if cfg.GeminiAPIKey != "" {
				p = NewGeminiProvider(cfg.GeminiAPIURL, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AITimeout)
			}
		case "openai":
			if cfg.OpenAIAPIKey != "" {
				p = NewChatCompletionProvider("openai", cfg.OpenAIAPIURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.AITimeout)
			}
		case "deepseek":
			if cfg.DeepSeekAPIKey != "" {
				p = NewChatCompletionProvider("deepseek", cfg.DeepSeekAPIURL, cfg.DeepSeekAPIKey, cfg.DeepSeekModel, cfg.AITimeout)
			}
		case "glm":
			if cfg.GLMAPIKey != "" {
				p = NewChatCompletionProvider("glm", cfg.GLMAPIURL, cfg.GLMAPIKey, cfg.GLMModel, cfg.AITimeout)
			}
		default:
			slog.Warn("unknown AI provider ignored", "provider", name)
			continue
		}
		if p == nil {
			slog.Info("AI provider skipped, no API key", "provider", name)
			continue
		}
		providers = append(providers, Instrument(p, recorder))
	}

	if len(providers) == 0 {
		slog.Warn("no AI provider configured, keyword fallback will be used for every analysis")
		return nil
	}

	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name()
	}
	slog.Info("AI providers configured", "order", names, "requests_per_minute", cfg.AIRequestsPerMinute)

	return NewRateLimitedProvider(NewChainProvider(providers...), cfg.AIRequestsPerMinute)
}
