package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"solana-token-sentinel/internal/domain"
	"solana-token-sentinel/internal/observability"
)

const (
	// maxRateLimitRetries is how many extra attempts a transient 429 earns.
	maxRateLimitRetries = 2

	// maxRetryDelay caps how long a retry is worth waiting for before
	// skipping straight to the fallback provider.
	maxRetryDelay = 5 * time.Second

	baseBackoff = 1 * time.Second
)

// Analyst runs narrative analysis against a primary provider with a
// fallback chain. It never synthesizes scores: when both providers are
// unavailable it returns nil and callers fall back to heuristic-only
// scoring.
type Analyst struct {
	primary  Provider
	fallback Provider
	logger   zerolog.Logger

	// sleep is swapped in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewAnalyst creates an analyst. fallback may be nil.
func NewAnalyst(primary, fallback Provider, logger zerolog.Logger) *Analyst {
	return &Analyst{
		primary:  primary,
		fallback: fallback,
		logger:   logger.With().Str("component", "ai").Logger(),
		sleep:    sleepCtx,
	}
}

// Analyze produces a structured assessment of the candidate, or nil
// when no provider could deliver a parseable response.
func (a *Analyst) Analyze(ctx context.Context, token *domain.TokenCandidate, mode domain.AIMode) *domain.AIAnalysis {
	prompt := buildPrompt(token, mode)

	if analysis := a.tryPrimary(ctx, prompt, mode); analysis != nil {
		return analysis
	}
	return a.tryFallback(ctx, prompt, mode)
}

// tryPrimary attempts the primary provider with the rate-limit retry
// policy: up to two extra attempts, delay taken from the provider's own
// hint when present else exponential backoff. Any delay over the cap
// abandons the primary immediately without sleeping.
func (a *Analyst) tryPrimary(ctx context.Context, prompt string, mode domain.AIMode) *domain.AIAnalysis {
	if a.primary == nil {
		return nil
	}

	for attempt := 0; ; attempt++ {
		raw, err := a.primary.Complete(ctx, prompt)
		if err == nil {
			analysis, parseErr := parseAnalysis(raw, mode)
			if parseErr != nil {
				a.logger.Warn().Err(parseErr).Str("provider", a.primary.Name()).Msg("unparseable response, switching to fallback")
				return nil
			}
			return analysis
		}

		if errors.Is(err, ErrQuotaExhausted) {
			a.logger.Warn().Str("provider", a.primary.Name()).Msg("quota exhausted, switching to fallback")
			return nil
		}

		var rl *RateLimitedError
		if !errors.As(err, &rl) {
			a.logger.Warn().Err(err).Str("provider", a.primary.Name()).Msg("provider failed, switching to fallback")
			return nil
		}
		if attempt >= maxRateLimitRetries {
			a.logger.Warn().Str("provider", a.primary.Name()).Msg("rate limit retries exhausted, switching to fallback")
			return nil
		}

		delay := rl.RetryAfter
		if delay <= 0 {
			delay = baseBackoff << attempt
		}
		if delay > maxRetryDelay {
			a.logger.Warn().Dur("delay", delay).Str("provider", a.primary.Name()).Msg("suggested delay too long, switching to fallback")
			return nil
		}
		if err := a.sleep(ctx, delay); err != nil {
			return nil
		}
	}
}

func (a *Analyst) tryFallback(ctx context.Context, prompt string, mode domain.AIMode) *domain.AIAnalysis {
	if a.fallback == nil {
		return nil
	}
	observability.RecordAIFallback()

	raw, err := a.fallback.Complete(ctx, prompt)
	if err != nil {
		a.logger.Warn().Err(err).Str("provider", a.fallback.Name()).Msg("fallback provider failed, returning no analysis")
		return nil
	}
	analysis, err := parseAnalysis(raw, mode)
	if err != nil {
		a.logger.Warn().Err(err).Str("provider", a.fallback.Name()).Msg("fallback response unparseable, returning no analysis")
		return nil
	}
	return analysis
}

// analysisPayload mirrors the JSON object the prompt demands.
type analysisPayload struct {
	NarrativeScore int      `json:"narrativeScore"`
	HypeScore      int      `json:"hypeScore"`
	Sentiment      string   `json:"sentiment"`
	Summary        string   `json:"summary"`
	Risks          []string `json:"risks"`
	Potential      string   `json:"potential"`
	Brief          []string `json:"brief"`
	Analysis       string   `json:"analysis"`
}

// parseAnalysis extracts the first well-formed JSON object from the
// provider's response and validates the contract. Models wrap JSON in
// prose and markdown fences often enough that a plain Unmarshal is not
// viable.
func parseAnalysis(raw string, mode domain.AIMode) (*domain.AIAnalysis, error) {
	obj := extractJSONObject(raw)
	if obj == "" {
		return nil, errors.New("no JSON object in response")
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse analysis: %w", err)
	}

	if payload.NarrativeScore < 1 || payload.NarrativeScore > 100 {
		return nil, fmt.Errorf("narrative score %d out of range", payload.NarrativeScore)
	}
	if payload.HypeScore < 1 || payload.HypeScore > 100 {
		return nil, fmt.Errorf("hype score %d out of range", payload.HypeScore)
	}

	sentiment := domain.Sentiment(payload.Sentiment)
	switch sentiment {
	case domain.SentimentBullish, domain.SentimentNeutral, domain.SentimentBearish:
	default:
		return nil, fmt.Errorf("unknown sentiment %q", payload.Sentiment)
	}

	potential := domain.PotentialTier(payload.Potential)
	switch potential {
	case domain.PotentialLow, domain.PotentialMedium, domain.PotentialHigh, domain.PotentialMoonshot:
	default:
		return nil, fmt.Errorf("unknown potential tier %q", payload.Potential)
	}

	if payload.Summary == "" {
		return nil, errors.New("missing summary")
	}

	return &domain.AIAnalysis{
		NarrativeScore: payload.NarrativeScore,
		HypeScore:      payload.HypeScore,
		Sentiment:      sentiment,
		Summary:        payload.Summary,
		Risks:          payload.Risks,
		Potential:      potential,
		Brief:          payload.Brief,
		Analysis:       payload.Analysis,
		Mode:           mode,
	}, nil
}

// extractJSONObject returns the first balanced top-level JSON object in
// s, string-literal aware, or "" when none exists.
func extractJSONObject(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start >= 0 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
