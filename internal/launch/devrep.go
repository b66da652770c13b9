package launch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
	"github.com/rs/zerolog"

	"solana-token-sentinel/internal/domain"
	"solana-token-sentinel/internal/solana"
)

// AssetIndex looks up how many token launches are attributed to a
// creator address.
type AssetIndex interface {
	PriorLaunches(ctx context.Context, creator string) (int, error)
}

// ReputationChecker resolves a mint's creator and scores their launch
// history.
type ReputationChecker struct {
	rpc    solana.RPCClient
	index  AssetIndex
	logger zerolog.Logger
}

// NewReputationChecker creates a new developer-reputation checker.
func NewReputationChecker(rpc solana.RPCClient, index AssetIndex, logger zerolog.Logger) *ReputationChecker {
	return &ReputationChecker{
		rpc:    rpc,
		index:  index,
		logger: logger.With().Str("adapter", "devrep").Logger(),
	}
}

// Check resolves the creator from the earliest transaction's first
// signer and scores prior launches. Returns nil when the creator cannot
// be resolved; a failed index lookup counts as zero prior launches,
// which lands on the New tier and is deliberately not penalized.
func (c *ReputationChecker) Check(ctx context.Context, mint string) *domain.DevReputation {
	sigs, err := solana.OldestSignaturePage(ctx, c.rpc, mint)
	if err != nil || len(sigs) == 0 {
		c.logger.Warn().Err(err).Str("mint", mint).Msg("creator resolution failed, no signatures")
		return nil
	}

	earliest := sigs[len(sigs)-1]
	tx, err := c.rpc.GetTransaction(ctx, earliest.Signature)
	if err != nil {
		c.logger.Warn().Err(err).Str("mint", mint).Msg("creator resolution failed, earliest transaction unavailable")
		return nil
	}
	creator := firstSigner(tx)
	if creator == "" {
		return nil
	}

	prior := 0
	if c.index != nil {
		if n, err := c.index.PriorLaunches(ctx, creator); err != nil {
			c.logger.Warn().Err(err).Str("creator", creator).Msg("prior-launch lookup failed, treating as new wallet")
		} else if n > 0 {
			// The index includes the launch under evaluation.
			prior = n - 1
		}
	}

	bonus := 5 * prior
	if bonus > 25 {
		bonus = 25
	}

	return &domain.DevReputation{
		Score:         50 + bonus,
		Tier:          reputationTier(prior),
		PriorLaunches: prior,
		Creator:       creator,
		WalletOnCurve: isOnCurve(creator),
	}
}

func reputationTier(priorLaunches int) domain.ReputationTier {
	switch {
	case priorLaunches > 5:
		return domain.ReputationHigh
	case priorLaunches >= 2:
		return domain.ReputationMedium
	case priorLaunches == 1:
		return domain.ReputationLow
	default:
		return domain.ReputationNew
	}
}

// isOnCurve reports whether addr is a valid ed25519 point. Program
// derived addresses are constructed off curve, so this separates wallet
// deployers from program deployers.
func isOnCurve(addr string) bool {
	decoded, err := base58.Decode(addr)
	if err != nil || len(decoded) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(decoded)
	return err == nil
}

const defaultIndexTimeout = 8 * time.Second

// HTTPAssetIndex queries a token-indexer HTTP API for launches
// attributed to a creator.
type HTTPAssetIndex struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPAssetIndex creates an index client for the given base URL.
func NewHTTPAssetIndex(baseURL string) *HTTPAssetIndex {
	return &HTTPAssetIndex{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultIndexTimeout},
	}
}

// PriorLaunches returns the number of mints the indexer attributes to
// the creator.
func (x *HTTPAssetIndex) PriorLaunches(ctx context.Context, creator string) (int, error) {
	endpoint := fmt.Sprintf("%s/v0/addresses/%s/tokens", x.baseURL, url.PathEscape(creator))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	var tokens []struct {
		Mint string `json:"mint"`
	}
	if err := json.Unmarshal(body, &tokens); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}
	return len(tokens), nil
}

var _ AssetIndex = (*HTTPAssetIndex)(nil)
