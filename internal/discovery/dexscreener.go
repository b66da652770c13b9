package discovery

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

	"solana-token-sentinel/internal/domain"
)

const (
	defaultSearchTimeout = 10 * time.Second

	// solReferencePair is the pair queried for the broad-market
	// reference price.
	solReferencePair = "SOL/USDC"
)

// DexSearcher discovers candidates through a DEX pair-search API and
// doubles as the reference-price source for the market-context check.
type DexSearcher struct {
	baseURL    string
	queries    []string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewDexSearcher creates a searcher running the given queries per scan.
func NewDexSearcher(baseURL string, queries []string, logger zerolog.Logger) *DexSearcher {
	return &DexSearcher{
		baseURL:    baseURL,
		queries:    queries,
		httpClient: &http.Client{Timeout: defaultSearchTimeout},
		logger:     logger.With().Str("source", "dexsearch").Logger(),
	}
}

func (s *DexSearcher) Name() string { return "dexsearch" }

// searchResponse mirrors the pair-search payload.
type searchResponse struct {
	Pairs []pairInfo `json:"pairs"`
}

type pairInfo struct {
	ChainID     string `json:"chainId"`
	PairAddress string `json:"pairAddress"`
	BaseToken   struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	} `json:"baseToken"`
	PriceUSD  string `json:"priceUsd"`
	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	Volume struct {
		H1  float64 `json:"h1"`
		H6  float64 `json:"h6"`
		H24 float64 `json:"h24"`
	} `json:"volume"`
	MarketCap float64 `json:"marketCap"`
	Info      *struct {
		Websites []struct {
			URL string `json:"url"`
		} `json:"websites"`
		Socials []struct {
			Type string `json:"type"`
			URL  string `json:"url"`
		} `json:"socials"`
	} `json:"info"`
}

// Discover runs every configured query and merges the deduplicated
// results. A failed query is logged and skipped; one flaky query must
// not starve the scan of the others' results.
func (s *DexSearcher) Discover(ctx context.Context) ([]domain.TokenCandidate, error) {
	var all []domain.TokenCandidate
	for _, q := range s.queries {
		pairs, err := s.search(ctx, q)
		if err != nil {
			s.logger.Warn().Err(err).Str("query", q).Msg("pair search failed, skipping query")
			continue
		}
		for _, p := range pairs {
			if p.ChainID != "solana" {
				continue
			}
			all = append(all, candidateFromPair(p))
		}
	}
	return Dedupe(all), nil
}

func (s *DexSearcher) search(ctx context.Context, query string) ([]pairInfo, error) {
	endpoint := fmt.Sprintf("%s/latest/dex/search?q=%s", s.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return parsed.Pairs, nil
}

// candidateFromPair maps one pair into a candidate. The volume-increase
// signal projects the last hour against the 6-hour baseline rate.
func candidateFromPair(p pairInfo) domain.TokenCandidate {
	c := domain.TokenCandidate{
		Mint:             p.BaseToken.Address,
		Symbol:           p.BaseToken.Symbol,
		Name:             p.BaseToken.Name,
		LiquidityUSD:     p.Liquidity.USD,
		PriceUSD:         p.PriceUSD,
		MarketCapUSD:     p.MarketCap,
		PairAddress:      p.PairAddress,
		TopHolderPercent: -1,
		Volumes: &domain.WindowVolumes{
			H1:    p.Volume.H1,
			H6:    p.Volume.H6,
			H24:   p.Volume.H24,
			Total: p.Volume.H24,
		},
	}

	if p.Volume.H6 > 0 {
		baselineHourly := p.Volume.H6 / 6
		if baselineHourly > 0 {
			c.VolumeIncreasePct = (p.Volume.H1/baselineHourly - 1) * 100
		}
	}

	if p.Info != nil {
		links := &domain.SocialLinks{}
		if len(p.Info.Websites) > 0 {
			links.Website = p.Info.Websites[0].URL
		}
		for _, social := range p.Info.Socials {
			switch social.Type {
			case "twitter":
				links.Twitter = social.URL
			case "telegram":
				links.Telegram = social.URL
			}
		}
		if links.Website != "" || links.Twitter != "" || links.Telegram != "" {
			c.Socials = links
		}
	}
	return c
}

// ReferencePrice returns the current SOL/USD price from the reference
// pair, for the market-context check.
func (s *DexSearcher) ReferencePrice(ctx context.Context) (float64, error) {
	pairs, err := s.search(ctx, solReferencePair)
	if err != nil {
		return 0, err
	}
	for _, p := range pairs {
		if p.ChainID != "solana" || p.PriceUSD == "" {
			continue
		}
		price, err := strconv.ParseFloat(p.PriceUSD, 64)
		if err != nil {
			continue
		}
		return price, nil
	}
	return 0, fmt.Errorf("no usable %s pair in search results", solReferencePair)
}
