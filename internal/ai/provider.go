// Package ai produces structured narrative assessments from generative
// text providers, with a retry-then-fallback chain tuned for the least
// reliable dependency in the system.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"solana-token-sentinel/internal/observability"
)

// ErrQuotaExhausted marks a hard quota error, distinct from transient
// rate limiting. No amount of retrying helps until the billing period
// rolls over.
var ErrQuotaExhausted = errors.New("provider quota exhausted")

// RateLimitedError is a transient 429. RetryAfter is zero when the
// provider gave no usable hint.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// Provider generates a text completion for a prompt.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

const defaultCompletionTimeout = 30 * time.Second

// HTTPProvider is a chat-completions API client. Primary and fallback
// providers are two differently-configured instances of this type.
type HTTPProvider struct {
	name       string
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// ProviderOption configures HTTPProvider.
type ProviderOption func(*HTTPProvider)

// WithCompletionTimeout overrides the per-request timeout. Values of
// zero or below keep the default.
func WithCompletionTimeout(d time.Duration) ProviderOption {
	return func(p *HTTPProvider) {
		if d > 0 {
			p.httpClient.Timeout = d
		}
	}
}

// NewHTTPProvider creates a provider client. The circuit breaker opens
// after repeated consecutive failures; a dead provider then fails fast
// instead of stalling every validation.
func NewHTTPProvider(name, baseURL, apiKey, model string, opts ...ProviderOption) *HTTPProvider {
	p := &HTTPProvider{
		name:       name,
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: defaultCompletionTimeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    name,
			Timeout: 60 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *HTTPProvider) Name() string { return p.name }

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends the prompt through the circuit breaker and returns the
// first choice's content.
func (p *HTTPProvider) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := p.breaker.Execute(func() (interface{}, error) {
		return p.complete(ctx, prompt)
	})
	if err != nil {
		observability.RecordAIRequest(p.name, "error")
		return "", err
	}
	observability.RecordAIRequest(p.name, "ok")
	return out.(string), nil
}

func (p *HTTPProvider) complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    p.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", strings.NewReader(string(payload)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", classifyRateLimit(resp.Header.Get("Retry-After"), string(body))
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("provider error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("empty completion")
	}
	return parsed.Choices[0].Message.Content, nil
}

var retryInPattern = regexp.MustCompile(`(?i)retry\s+(?:in|after)\s+(\d+(?:\.\d+)?)\s*s`)

// classifyRateLimit separates hard quota exhaustion from transient rate
// limiting and extracts the provider's suggested delay when present.
func classifyRateLimit(retryAfterHeader, body string) error {
	lower := strings.ToLower(body)
	if strings.Contains(lower, "quota") || strings.Contains(lower, "billing") {
		return fmt.Errorf("%w: %s", ErrQuotaExhausted, truncate(body, 200))
	}

	if d := ParseRetryDelay(body); d > 0 {
		return &RateLimitedError{RetryAfter: d}
	}
	if retryAfterHeader != "" {
		if secs, err := strconv.Atoi(retryAfterHeader); err == nil && secs > 0 {
			return &RateLimitedError{RetryAfter: time.Duration(secs) * time.Second}
		}
	}
	return &RateLimitedError{}
}

// ParseRetryDelay extracts a "retry in Ns" style hint from a provider
// message. Returns zero when no hint is found.
func ParseRetryDelay(message string) time.Duration {
	m := retryInPattern.FindStringSubmatch(message)
	if m == nil {
		return 0
	}
	secs, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
