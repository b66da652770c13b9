package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"solana-token-sentinel/internal/domain"
	"solana-token-sentinel/internal/solana"
)

const (
	// patternSampleSize is how many recent signatures are examined.
	patternSampleSize = 50

	// burstWindow flags patternSampleSize transactions landing inside
	// this wall-clock span.
	burstWindow = 5 * time.Minute

	// cadenceSampleSize is how many of the most recent gaps feed the
	// variance computation.
	cadenceSampleSize = 20

	// lowGapVariance (seconds squared) below which a sub-minute average
	// cadence counts as mechanical.
	lowGapVariance = 5.0

	// mechanicalAvgGap is the average-gap ceiling for the cadence flag.
	mechanicalAvgGap = 60.0
)

// PatternChecker detects bot-like transaction cadence for a mint.
type PatternChecker struct {
	rpc    solana.RPCClient
	logger zerolog.Logger
}

// NewPatternChecker creates a new transaction-pattern checker.
func NewPatternChecker(rpc solana.RPCClient, logger zerolog.Logger) *PatternChecker {
	return &PatternChecker{
		rpc:    rpc,
		logger: logger.With().Str("check", "txpattern").Logger(),
	}
}

// Check examines up to the last 50 signatures for two independent red
// flags: a burst of 50+ transactions inside five minutes, and a
// mechanically regular cadence (low gap variance with sub-minute
// average). Either flag marks the volume inorganic; both can co-occur.
// Chain errors fail open.
func (c *PatternChecker) Check(ctx context.Context, mint string) domain.TxPattern {
	sigs, err := c.rpc.GetSignaturesForAddress(ctx, mint, &solana.SignaturesOpts{Limit: patternSampleSize})
	if err != nil {
		c.logger.Warn().Err(err).Str("mint", mint).Msg("signature fetch failed, treating as organic")
		return domain.TxPattern{IsOrganic: true}
	}

	times := blockTimes(sigs)
	if len(times) < 2 {
		return domain.TxPattern{IsOrganic: true}
	}

	var patterns []string

	// Flag (a): burst. times are newest first. Guard on the fetched
	// signature count so an entry missing its block time cannot
	// suppress the flag.
	if len(sigs) >= patternSampleSize {
		span := time.Duration(times[0]-times[len(times)-1]) * time.Second
		if span < burstWindow {
			patterns = append(patterns, fmt.Sprintf("%d transactions within %s (bot burst)", len(sigs), span.Round(time.Second)))
		}
	}

	// Flag (b): mechanical cadence over the most recent gaps.
	recent := times
	if len(recent) > cadenceSampleSize {
		recent = recent[:cadenceSampleSize]
	}
	gaps := make([]float64, 0, len(recent)-1)
	for i := 0; i < len(recent)-1; i++ {
		gaps = append(gaps, float64(recent[i]-recent[i+1]))
	}
	if len(gaps) >= 2 {
		avg := mean(gaps)
		if variance(gaps, avg) < lowGapVariance && avg < mechanicalAvgGap {
			patterns = append(patterns, fmt.Sprintf("regular %.1fs transaction cadence (automated trading)", avg))
		}
	}

	return domain.TxPattern{
		IsOrganic: len(patterns) == 0,
		Patterns:  patterns,
	}
}

// blockTimes extracts non-nil block times, preserving newest-first order.
func blockTimes(sigs []solana.SignatureInfo) []int64 {
	out := make([]int64, 0, len(sigs))
	for _, s := range sigs {
		if s.BlockTime != nil {
			out = append(out, *s.BlockTime)
		}
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func variance(xs []float64, avg float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		d := x - avg
		sum += d * d
	}
	return sum / float64(len(xs))
}
