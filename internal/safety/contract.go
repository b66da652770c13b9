// Package safety wraps the external contract-audit and swap-quote
// services behind adapters with uniform failure contracts: transport
// and parse failures never propagate, they map to documented safe
// defaults instead.
package safety

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"solana-token-sentinel/internal/observability"
)

const (
	defaultContractTimeout = 8 * time.Second

	// neutralContractScore is returned on adapter failure. Neutral, not
	// zero, so an audit-API outage does not tank every token's composite.
	neutralContractScore = 50
)

// ContractReport is the contract-safety assessment for a mint.
type ContractReport struct {
	Verified bool     `json:"verified"`
	Score    int      `json:"score"` // 0-100, higher is safer
	Risks    []string `json:"risks,omitempty"`
}

// ContractChecker queries an external token-audit HTTP API.
type ContractChecker struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// ContractOption configures a ContractChecker.
type ContractOption func(*ContractChecker)

// WithContractHTTPClient sets a custom HTTP client.
func WithContractHTTPClient(client *http.Client) ContractOption {
	return func(c *ContractChecker) {
		c.httpClient = client
	}
}

// NewContractChecker creates a checker against the given audit API base URL.
func NewContractChecker(baseURL string, logger zerolog.Logger, opts ...ContractOption) *ContractChecker {
	c := &ContractChecker{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultContractTimeout},
		logger:     logger.With().Str("adapter", "contract").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// auditResponse mirrors the audit API's report payload.
type auditResponse struct {
	Verified bool `json:"verified"`
	Score    int  `json:"score"`
	Risks    []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"risks"`
}

// Check fetches the safety report for a mint. Any failure returns the
// neutral default: verified=false, score=50, with the reason as a risk.
func (c *ContractChecker) Check(ctx context.Context, mint string) ContractReport {
	report, err := c.fetch(ctx, mint)
	if err != nil {
		observability.RecordAdapterError("contract")
		c.logger.Warn().Err(err).Str("mint", mint).Msg("contract safety fetch failed, using neutral default")
		return ContractReport{
			Verified: false,
			Score:    neutralContractScore,
			Risks:    []string{fmt.Sprintf("contract safety unavailable: %v", err)},
		}
	}
	return report
}

func (c *ContractChecker) fetch(ctx context.Context, mint string) (ContractReport, error) {
	endpoint := fmt.Sprintf("%s/v1/tokens/%s/report", c.baseURL, url.PathEscape(mint))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ContractReport{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ContractReport{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ContractReport{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ContractReport{}, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed auditResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ContractReport{}, fmt.Errorf("failed to parse response: %w", err)
	}

	report := ContractReport{
		Verified: parsed.Verified,
		Score:    clampScore(parsed.Score),
	}
	for _, r := range parsed.Risks {
		if r.Description != "" {
			report.Risks = append(report.Risks, fmt.Sprintf("%s: %s", r.Name, r.Description))
		} else {
			report.Risks = append(report.Risks, r.Name)
		}
	}
	return report, nil
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
