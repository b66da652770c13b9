package checks

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"solana-token-sentinel/internal/domain"
	"solana-token-sentinel/internal/storage"
)

const (
	// marketWindowSize is the rolling sample count for the reference asset.
	marketWindowSize = 20

	// trendSampleSize is how many samples each end of the window
	// contributes to the trend computation.
	trendSampleSize = 5

	// trendBandPct is the change beyond which the trend leaves neutral.
	trendBandPct = 2.0

	// riskOffPct is the broad-market drop that suppresses trading.
	// Deliberately asymmetric: mild bullishness does not boost trading.
	riskOffPct = -5.0

	// marketWindowKey identifies the reference-asset window in state.
	marketWindowKey = "sol-usd"
)

// PriceSource supplies the current USD price of the reference asset.
type PriceSource interface {
	ReferencePrice(ctx context.Context) (float64, error)
}

// MarketChecker tracks a rolling window of reference-asset prices and
// classifies the broad-market trend.
type MarketChecker struct {
	state  storage.StateStore
	prices PriceSource
	logger zerolog.Logger
}

// NewMarketChecker creates a new market-context checker.
func NewMarketChecker(state storage.StateStore, prices PriceSource, logger zerolog.Logger) *MarketChecker {
	return &MarketChecker{
		state:  state,
		prices: prices,
		logger: logger.With().Str("check", "market").Logger(),
	}
}

// Check samples the reference price once, appends it to the rolling
// window (capped at 20), and classifies the trend from the mean of the
// newest five samples against the mean of the oldest five. Fewer than
// five samples, or any price/state failure, is permissive.
func (c *MarketChecker) Check(ctx context.Context) domain.MarketContext {
	permissive := domain.MarketContext{ShouldTrade: true, Trend: domain.TrendNeutral}

	price, err := c.prices.ReferencePrice(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("reference price fetch failed, treating as permissive")
		return permissive
	}

	window, err := c.state.GetPriceWindow(ctx, marketWindowKey)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		c.logger.Warn().Err(err).Msg("price window read failed, treating as permissive")
		return permissive
	}

	window = append(window, price)
	if len(window) > marketWindowSize {
		window = window[len(window)-marketWindowSize:]
	}
	if err := c.state.SetPriceWindow(ctx, marketWindowKey, window); err != nil {
		c.logger.Warn().Err(err).Msg("price window write failed")
	}

	if len(window) < trendSampleSize {
		return permissive
	}

	oldest := mean(window[:trendSampleSize])
	newest := mean(window[len(window)-trendSampleSize:])
	if oldest <= 0 {
		return permissive
	}
	changePct := (newest - oldest) / oldest * 100

	trend := domain.TrendNeutral
	switch {
	case changePct > trendBandPct:
		trend = domain.TrendBullish
	case changePct < -trendBandPct:
		trend = domain.TrendBearish
	}

	return domain.MarketContext{
		ShouldTrade: changePct >= riskOffPct,
		Trend:       trend,
		ChangePct:   changePct,
	}
}
