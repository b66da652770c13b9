// Package checks implements the freshness, transaction-pattern,
// liquidity-stability and market-context checks that feed the tiered
// validator. Every checker catches its own transport failures and
// returns a documented safe default; none of them propagate errors.
package checks

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"solana-token-sentinel/internal/domain"
	"solana-token-sentinel/internal/solana"
)

// MaxFreshAgeMinutes is the age ceiling for a token to count as fresh.
const MaxFreshAgeMinutes = 120

// FreshnessChecker measures token age from the mint's first confirmed
// transaction.
type FreshnessChecker struct {
	rpc    solana.RPCClient
	logger zerolog.Logger
	now    func() time.Time
}

// NewFreshnessChecker creates a new freshness checker.
func NewFreshnessChecker(rpc solana.RPCClient, logger zerolog.Logger) *FreshnessChecker {
	return &FreshnessChecker{
		rpc:    rpc,
		logger: logger.With().Str("check", "freshness").Logger(),
		now:    time.Now,
	}
}

// Check returns the token's age and freshness. Missing or errored chain
// data fails open: an unknown age is treated as fresh, favoring false
// positives over silently dropping valid new tokens.
func (c *FreshnessChecker) Check(ctx context.Context, mint string) domain.Freshness {
	sigs, err := solana.OldestSignaturePage(ctx, c.rpc, mint)
	if err != nil {
		c.logger.Warn().Err(err).Str("mint", mint).Msg("signature fetch failed, treating as fresh")
		return domain.Freshness{AgeMinutes: 0, IsFresh: true}
	}
	if len(sigs) == 0 {
		return domain.Freshness{AgeMinutes: 0, IsFresh: true}
	}

	// The oldest page is newest first; the mint's first confirmed
	// transaction is the last entry.
	earliest := sigs[len(sigs)-1]
	if earliest.BlockTime == nil {
		return domain.Freshness{AgeMinutes: 0, IsFresh: true}
	}

	age := c.now().Sub(time.Unix(*earliest.BlockTime, 0)).Minutes()
	if age < 0 {
		age = 0
	}
	return domain.Freshness{
		AgeMinutes: age,
		IsFresh:    age < MaxFreshAgeMinutes,
	}
}
