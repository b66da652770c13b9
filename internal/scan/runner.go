// Package scan drives the periodic discover-validate-alert cycle.
package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"solana-token-sentinel/internal/alert"
	"solana-token-sentinel/internal/discovery"
	"solana-token-sentinel/internal/domain"
	"solana-token-sentinel/internal/observability"
	"solana-token-sentinel/internal/scoring"
	"solana-token-sentinel/internal/storage"
	"solana-token-sentinel/internal/validator"
)

// Options wires the runner. Notifier and History may be nil.
type Options struct {
	Sources   []discovery.Source
	Validator *validator.Validator
	Assembler *alert.Assembler
	Notifier  alert.Notifier
	History   storage.HistoryStore
	Settings  domain.BotSettings
	Interval  time.Duration
	Logger    zerolog.Logger
}

// Summary reports what one scan cycle did.
type Summary struct {
	Discovered    int
	Validated     int
	AlertsEmitted int
	Defects       int
}

// Runner runs scan cycles on an interval. Tokens are validated
// sequentially within a cycle; the expensive checks are rate limited and
// fanning tokens out would just queue behind the limiters.
type Runner struct {
	opts   Options
	logger zerolog.Logger
}

// NewRunner creates a runner from the wired components.
func NewRunner(opts Options) *Runner {
	return &Runner{
		opts:   opts,
		logger: opts.Logger.With().Str("component", "scan").Logger(),
	}
}

// Run scans immediately and then on every interval tick until the
// context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	r.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.runCycle(ctx)
		}
	}
}

func (r *Runner) runCycle(ctx context.Context) {
	start := time.Now()
	summary, err := r.Scan(ctx)
	status := "ok"
	if err != nil {
		status = "error"
		r.logger.Error().Err(err).Msg("scan cycle failed")
	} else {
		r.logger.Info().
			Int("discovered", summary.Discovered).
			Int("validated", summary.Validated).
			Int("alerts", summary.AlertsEmitted).
			Int("defects", summary.Defects).
			Dur("elapsed", time.Since(start)).
			Msg("scan cycle complete")
	}
	observability.RecordScan(status, time.Since(start).Seconds())
}

// Scan runs one full cycle: gather candidates from every source, then
// validate each in turn. A panic while validating one token is recorded
// as a defect and the cycle moves on to the next token.
func (r *Runner) Scan(ctx context.Context) (*Summary, error) {
	candidates, err := r.discover(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Discovered: len(candidates)}
	for i := range candidates {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		token := &candidates[i]
		emitted, err := r.validateOne(ctx, token)
		if err != nil {
			summary.Defects++
			r.logger.Error().Err(err).Str("mint", token.Mint).Msg("token validation defect")
			continue
		}
		summary.Validated++
		if emitted {
			summary.AlertsEmitted++
		}
	}
	return summary, nil
}

// discover merges candidates from all sources, deduplicated across
// sources. A failed source is logged and skipped.
func (r *Runner) discover(ctx context.Context) ([]domain.TokenCandidate, error) {
	var all []domain.TokenCandidate
	var failures int
	for _, source := range r.opts.Sources {
		found, err := source.Discover(ctx)
		observability.RecordDiscovery(source.Name(), len(found), err)
		if err != nil {
			failures++
			r.logger.Warn().Err(err).Str("source", source.Name()).Msg("discovery source failed")
			continue
		}
		all = append(all, found...)
	}
	if failures == len(r.opts.Sources) && len(r.opts.Sources) > 0 {
		return nil, fmt.Errorf("all %d discovery sources failed", failures)
	}
	return discovery.Dedupe(all), nil
}

// validateOne runs the funnel for a single token and handles the
// outcome end to end. Reports whether a valid alert was emitted.
func (r *Runner) validateOne(ctx context.Context, token *domain.TokenCandidate) (emitted bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic validating %s: %v", token.Mint, rec)
		}
	}()

	start := time.Now()
	out := r.opts.Validator.Validate(ctx, token, r.opts.Settings)
	result := scoring.Score(out.Checks, out.ContractScore, out.TierReached, &out.Enhancements)
	observability.RecordValidation(out.TierReached, time.Since(start).Seconds())
	if out.TierReached < 3 {
		observability.RecordGateFailure(out.TierReached)
	}

	if r.opts.History != nil {
		rec := &storage.ValidationRecord{
			Mint:           token.Mint,
			Symbol:         token.Symbol,
			CompositeScore: result.Composite,
			ContractScore:  out.ContractScore,
			IsValid:        result.IsValid,
			TierReached:    out.TierReached,
			CreatedAt:      time.Now().UTC(),
		}
		if err := r.opts.History.Append(ctx, rec); err != nil {
			r.logger.Warn().Err(err).Str("mint", token.Mint).Msg("history append failed")
		}
	}

	a, err := r.opts.Assembler.Assemble(ctx, token, out, result)
	if err != nil {
		return false, err
	}
	if !a.IsValid {
		return false, nil
	}

	observability.RecordAlert(string(a.Setup), a.CompositeScore)
	if r.opts.Notifier != nil {
		if err := r.opts.Notifier.Notify(ctx, a); err != nil {
			observability.RecordNotifierFailure("delivery")
			r.logger.Warn().Err(err).Str("mint", token.Mint).Msg("alert delivery failed")
		}
	}
	return true, nil
}
