package safety

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"solana-token-sentinel/internal/observability"
)

const (
	defaultQuoteTimeout = 8 * time.Second

	// wrappedSolMint is the output side of the simulated sell.
	wrappedSolMint = "So11111111111111111111111111111111111111112"

	// defaultSellAmount is the raw token amount quoted, small enough to
	// exist in any pool that exists at all.
	defaultSellAmount = 1_000_000
)

// SellResult is the outcome of a simulated sell quote.
type SellResult struct {
	CanSell        bool    `json:"canSell"`
	Reason         string  `json:"reason,omitempty"`
	PriceImpactPct float64 `json:"priceImpactPct"`
}

// SellSimulator asks a swap-aggregator quote API whether a sell route
// exists for a mint. A missing route is a meaningful honeypot signal,
// so failures here are closed, not neutral.
type SellSimulator struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// SellOption configures a SellSimulator.
type SellOption func(*SellSimulator)

// WithSellHTTPClient sets a custom HTTP client.
func WithSellHTTPClient(client *http.Client) SellOption {
	return func(s *SellSimulator) {
		s.httpClient = client
	}
}

// NewSellSimulator creates a simulator against the given quote API base URL.
func NewSellSimulator(baseURL string, logger zerolog.Logger, opts ...SellOption) *SellSimulator {
	s := &SellSimulator{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultQuoteTimeout},
		logger:     logger.With().Str("adapter", "sellability").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// quoteResponse mirrors the aggregator's quote payload.
type quoteResponse struct {
	OutAmount      string `json:"outAmount"`
	PriceImpactPct string `json:"priceImpactPct"`
	RoutePlan      []struct {
		SwapInfo struct {
			Label string `json:"label"`
		} `json:"swapInfo"`
	} `json:"routePlan"`
}

// Simulate quotes a small sell of the mint into wrapped SOL. Transport
// failure, a non-200 response, or an empty route plan all return
// canSell=false with the reason.
func (s *SellSimulator) Simulate(ctx context.Context, mint string) SellResult {
	q := url.Values{}
	q.Set("inputMint", mint)
	q.Set("outputMint", wrappedSolMint)
	q.Set("amount", fmt.Sprintf("%d", defaultSellAmount))

	endpoint := fmt.Sprintf("%s/quote?%s", s.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return s.failClosed(mint, fmt.Sprintf("failed to create request: %v", err))
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return s.failClosed(mint, fmt.Sprintf("quote request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return s.failClosed(mint, fmt.Sprintf("no sell route found (status %d)", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return s.failClosed(mint, fmt.Sprintf("failed to read quote: %v", err))
	}

	var quote quoteResponse
	if err := json.Unmarshal(body, &quote); err != nil {
		return s.failClosed(mint, fmt.Sprintf("failed to parse quote: %v", err))
	}
	if len(quote.RoutePlan) == 0 || quote.OutAmount == "" || quote.OutAmount == "0" {
		return s.failClosed(mint, "no sell route available, possible honeypot")
	}

	impact, _ := strconv.ParseFloat(quote.PriceImpactPct, 64)

	return SellResult{CanSell: true, PriceImpactPct: impact}
}

func (s *SellSimulator) failClosed(mint, reason string) SellResult {
	observability.RecordAdapterError("sellability")
	s.logger.Warn().Str("mint", mint).Str("reason", reason).Msg("sell simulation failed closed")
	return SellResult{CanSell: false, Reason: reason}
}
