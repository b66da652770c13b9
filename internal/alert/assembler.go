// Package alert assembles validation outcomes into the persisted Alert
// shape and delivers valid alerts to the configured notifiers.
package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"solana-token-sentinel/internal/domain"
	"solana-token-sentinel/internal/idhash"
	"solana-token-sentinel/internal/scoring"
	"solana-token-sentinel/internal/storage"
	"solana-token-sentinel/internal/validator"
)

// Assembler builds Alerts and upserts the valid ones. Persisting only
// valid alerts keeps storage limited to tokens that cleared the hard
// gates; invalid alerts are returned for diagnostics but never stored.
type Assembler struct {
	store  storage.AlertStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewAssembler creates an assembler over the given alert store.
func NewAssembler(store storage.AlertStore, logger zerolog.Logger) *Assembler {
	return &Assembler{
		store:  store,
		logger: logger.With().Str("component", "alert").Logger(),
		now:    time.Now,
	}
}

// Assemble wraps one validation outcome into an Alert. Valid alerts are
// upserted keyed by mint, the latest validation replacing any prior
// record. This is the only write path into persistent alert state.
func (a *Assembler) Assemble(ctx context.Context, token *domain.TokenCandidate, out *validator.Outcome, result scoring.Result) (*domain.Alert, error) {
	now := a.now()
	enh := &out.Enhancements

	alert := &domain.Alert{
		ID:              idhash.ComputeAlertID(token.Mint, now),
		Timestamp:       now,
		Token:           *token,
		Checks:          out.Checks,
		IsValid:         result.IsValid,
		Passed:          out.Checks.Passed(),
		Total:           out.Checks.Total(),
		Setup:           domain.ClassifySetup(token.VolumeIncreasePct),
		ContractScore:   out.ContractScore,
		CompositeScore:  result.Composite,
		Social:          enh.Social,
		Whale:           enh.Whale,
		Developer:       enh.Developer,
		Bundle:          &enh.Bundle,
		AI:              enh.AI,
		Recommendations: result.Recommendations,
		Risks:           out.Risks,
		TierReached:     out.TierReached,
	}

	if !alert.IsValid {
		return alert, nil
	}

	if err := a.store.Upsert(ctx, alert); err != nil {
		return alert, fmt.Errorf("failed to persist alert for %s: %w", token.Mint, err)
	}
	a.logger.Info().
		Str("mint", token.Mint).
		Int("composite", alert.CompositeScore).
		Int("tier", alert.TierReached).
		Msg("valid alert persisted")
	return alert, nil
}
