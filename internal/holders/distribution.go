// Package holders reads token holder distribution from the chain and
// derives the concentration and whale-activity signals.
package holders

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"solana-token-sentinel/internal/observability"
	"solana-token-sentinel/internal/solana"
)

// Distribution is the holder-concentration snapshot for a mint.
type Distribution struct {
	TopHolderPercent float64                      `json:"topHolderPercent"`
	HolderCount      int                          `json:"holderCount"`
	TopAccounts      []solana.TokenAccountBalance `json:"-"`
}

// DistributionChecker fetches the largest token accounts for a mint.
type DistributionChecker struct {
	rpc    solana.RPCClient
	logger zerolog.Logger
}

// NewDistributionChecker creates a new holder-distribution checker.
func NewDistributionChecker(rpc solana.RPCClient, logger zerolog.Logger) *DistributionChecker {
	return &DistributionChecker{
		rpc:    rpc,
		logger: logger.With().Str("adapter", "holders").Logger(),
	}
}

// Check returns the largest accounts and the top holder's share of
// supply. Maximally conservative on failure: an unreadable distribution
// reports 100% concentration and zero holders, which fails the tier
// gate rather than letting an opaque token through.
func (c *DistributionChecker) Check(ctx context.Context, mint string) Distribution {
	worst := Distribution{TopHolderPercent: 100, HolderCount: 0}

	accounts, err := c.rpc.GetTokenLargestAccounts(ctx, mint)
	if err != nil || len(accounts) == 0 {
		observability.RecordAdapterError("holders")
		c.logger.Warn().Err(err).Str("mint", mint).Msg("holder distribution unavailable, assuming worst case")
		return worst
	}

	info, err := c.rpc.GetMintInfo(ctx, mint)
	if err != nil || info == nil {
		observability.RecordAdapterError("holders")
		c.logger.Warn().Err(err).Str("mint", mint).Msg("mint supply unavailable, assuming worst case")
		return worst
	}
	supply, err := strconv.ParseFloat(info.Supply, 64)
	if err != nil || supply <= 0 {
		return worst
	}

	top, err := strconv.ParseFloat(accounts[0].Amount, 64)
	if err != nil {
		return worst
	}

	return Distribution{
		TopHolderPercent: top / supply * 100,
		HolderCount:      len(accounts),
		TopAccounts:      accounts,
	}
}
