package holders

import (
	"context"

	"github.com/rs/zerolog"

	"solana-token-sentinel/internal/domain"
	"solana-token-sentinel/internal/solana"
)

const (
	// whaleBalanceSOL is the native balance that qualifies a holder as
	// a whale.
	whaleBalanceSOL = 100

	// whaleSampleSize is how many of the top accounts are balance-checked.
	whaleSampleSize = 5

	// minHoldersForSignal short-circuits the heuristic when the holder
	// base is too thin to trust.
	minHoldersForSignal = 5

	highConfidence     = 90
	lowConfidence      = 60
	thinDataConfidence = 30

	// fullAccountsPage is the getTokenLargestAccounts response cap. A
	// full page means the real holder count is at least this, which is
	// the deepest base observable from that endpoint and earns the high
	// confidence band.
	fullAccountsPage = 20
)

// WhaleChecker scores whale involvement from the native balances of a
// mint's top holders.
type WhaleChecker struct {
	rpc    solana.RPCClient
	logger zerolog.Logger
}

// NewWhaleChecker creates a new whale-activity checker.
func NewWhaleChecker(rpc solana.RPCClient, logger zerolog.Logger) *WhaleChecker {
	return &WhaleChecker{
		rpc:    rpc,
		logger: logger.With().Str("adapter", "whale").Logger(),
	}
}

// Check counts top-5 holders whose native balance exceeds 100 SOL.
// Involved when at least two qualify. Fewer than five known holders
// short-circuits without any balance lookups.
func (c *WhaleChecker) Check(ctx context.Context, dist Distribution) domain.WhaleActivity {
	if dist.HolderCount < minHoldersForSignal {
		return domain.WhaleActivity{Involved: false, Confidence: thinDataConfidence, Score: 0}
	}

	sample := dist.TopAccounts
	if len(sample) > whaleSampleSize {
		sample = sample[:whaleSampleSize]
	}

	whales := 0
	for _, acct := range sample {
		balance, err := c.rpc.GetBalance(ctx, acct.Address)
		if err != nil {
			c.logger.Warn().Err(err).Str("address", acct.Address).Msg("balance lookup failed, skipping holder")
			continue
		}
		if balance >= whaleBalanceSOL*solana.LamportsPerSOL {
			whales++
		}
	}

	involved := whales >= 2
	score := 30 * whales
	if involved {
		score = 80 + 4*whales
	}

	confidence := lowConfidence
	if dist.HolderCount >= fullAccountsPage {
		confidence = highConfidence
	}

	return domain.WhaleActivity{
		Involved:   involved,
		Confidence: confidence,
		Score:      clamp(score, 0, 100),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
