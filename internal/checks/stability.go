package checks

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"solana-token-sentinel/internal/domain"
	"solana-token-sentinel/internal/storage"
)

const (
	// drainDropPct is the liquidity drop that counts as a drain.
	drainDropPct = -20.0

	// drainWindow bounds how quickly the drop must have happened.
	// Slower declines are treated as organic movement.
	drainWindow = 30 * time.Minute
)

// StabilityChecker compares the current liquidity reading against the
// last stored observation for the same mint. Rolling single-sample
// comparison, not a windowed history.
type StabilityChecker struct {
	state  storage.StateStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewStabilityChecker creates a new liquidity-stability checker.
func NewStabilityChecker(state storage.StateStore, logger zerolog.Logger) *StabilityChecker {
	return &StabilityChecker{
		state:  state,
		logger: logger.With().Str("check", "stability").Logger(),
		now:    time.Now,
	}
}

// Check compares liquidityUSD against the prior stored reading. The
// first observation for a mint is stable by definition. Unstable only
// when liquidity dropped more than 20% within 30 minutes of the prior
// reading. The current reading always overwrites the stored one,
// whatever the outcome. State-store errors fail open.
func (c *StabilityChecker) Check(ctx context.Context, mint string, liquidityUSD float64) domain.LiquidityStability {
	now := c.now()
	result := domain.LiquidityStability{IsStable: true}

	prior, err := c.state.GetLiquidityReading(ctx, mint)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// Nothing to compare against.
	case err != nil:
		c.logger.Warn().Err(err).Str("mint", mint).Msg("state read failed, treating as stable")
	case prior.LiquidityUSD > 0:
		changePct := (liquidityUSD - prior.LiquidityUSD) / prior.LiquidityUSD * 100
		result.ChangePct = changePct
		if changePct < drainDropPct && now.Sub(prior.ObservedAt) < drainWindow {
			result.IsStable = false
		}
	}

	if err := c.state.SetLiquidityReading(ctx, mint, &storage.LiquidityReading{
		LiquidityUSD: liquidityUSD,
		ObservedAt:   now,
	}); err != nil {
		c.logger.Warn().Err(err).Str("mint", mint).Msg("state write failed")
	}

	return result
}
