// Package launch analyzes a token's launch history: bundled-launch and
// sybil detection from the earliest transactions, and developer
// reputation from the creator's prior launches.
package launch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"solana-token-sentinel/internal/domain"
	"solana-token-sentinel/internal/observability"
	"solana-token-sentinel/internal/solana"
)

const (
	// launchSampleSize is how many of the earliest transactions are
	// inspected for signer repetition.
	launchSampleSize = 20

	// sameSlotBundleThreshold flags a launch when more than this many
	// transactions share the creation slot.
	sameSlotBundleThreshold = 10

	// sybilBuyThreshold flags a launch when more than this many of the
	// earliest transactions reuse an already-seen signer.
	sybilBuyThreshold = 5
)

// BundleDetector inspects the earliest confirmed transactions of a mint
// for coordinated launch activity.
type BundleDetector struct {
	rpc     solana.RPCClient
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewBundleDetector creates a detector. The limiter paces the per-
// transaction lookups; nil disables pacing.
func NewBundleDetector(rpc solana.RPCClient, limiter *rate.Limiter, logger zerolog.Logger) *BundleDetector {
	return &BundleDetector{
		rpc:     rpc,
		limiter: limiter,
		logger:  logger.With().Str("adapter", "bundle").Logger(),
	}
}

// Detect runs two heuristics over the launch window: same-slot creation
// activity and repeated-signer buys. The launch window comes from the
// oldest signature page so an actively traded mint is still measured at
// its creation, not its latest trading. Any transport failure,
// including a rate limit mid-batch, returns the permissive default with
// a detail noting the limiting condition.
func (d *BundleDetector) Detect(ctx context.Context, mint string) domain.BundleAnalysis {
	sigs, err := solana.OldestSignaturePage(ctx, d.rpc, mint)
	if err != nil {
		observability.RecordAdapterError("bundle")
		d.logger.Warn().Err(err).Str("mint", mint).Msg("signature fetch failed, skipping bundle detection")
		return domain.BundleAnalysis{Details: []string{fmt.Sprintf("bundle detection skipped: %v", err)}}
	}
	if len(sigs) == 0 {
		return domain.BundleAnalysis{Details: []string{"no transactions found"}}
	}

	// Signatures arrive newest first; the launch window is the tail,
	// reversed into chronological order.
	earliest := earliestWindow(sigs, launchSampleSize)

	result := domain.BundleAnalysis{}

	creationSlot := earliest[0].Slot
	sameSlot := 0
	for _, s := range sigs {
		if s.Slot == creationSlot {
			sameSlot++
		}
	}
	result.BundlePercentage = float64(sameSlot) / float64(len(sigs)) * 100
	if sameSlot > sameSlotBundleThreshold {
		result.IsBundled = true
		result.Details = append(result.Details, fmt.Sprintf("%d transactions in creation slot %d", sameSlot, creationSlot))
	}

	signerSeen := make(map[string]int)
	repeatedBuys := 0
	for _, s := range earliest {
		if err := d.wait(ctx); err != nil {
			result.Details = append(result.Details, "signer analysis cut short by rate limit")
			break
		}
		tx, err := d.rpc.GetTransaction(ctx, s.Signature)
		if err != nil {
			d.logger.Warn().Err(err).Str("signature", s.Signature).Msg("transaction fetch failed, stopping signer analysis")
			result.Details = append(result.Details, fmt.Sprintf("signer analysis incomplete: %v", err))
			break
		}
		signer := firstSigner(tx)
		if signer == "" {
			continue
		}
		signerSeen[signer]++
		if signerSeen[signer] > 1 {
			repeatedBuys++
		}
	}

	for _, n := range signerSeen {
		if n > 1 {
			result.SybilWallets++
		}
	}
	if repeatedBuys > sybilBuyThreshold {
		result.IsBundled = true
		result.Details = append(result.Details, fmt.Sprintf("%d repeated-signer buys across %d wallets in launch window", repeatedBuys, result.SybilWallets))
	}

	return result
}

func (d *BundleDetector) wait(ctx context.Context) error {
	if d.limiter == nil {
		return nil
	}
	return d.limiter.Wait(ctx)
}

// earliestWindow returns up to n of the oldest entries in chronological
// order, given a newest-first list.
func earliestWindow(sigs []solana.SignatureInfo, n int) []solana.SignatureInfo {
	if len(sigs) > n {
		sigs = sigs[len(sigs)-n:]
	}
	out := make([]solana.SignatureInfo, len(sigs))
	for i, s := range sigs {
		out[len(sigs)-1-i] = s
	}
	return out
}

// firstSigner returns the fee payer, account key zero by convention.
func firstSigner(tx *solana.Transaction) string {
	if tx == nil || tx.Message == nil || len(tx.Message.AccountKeys) == 0 {
		return ""
	}
	return tx.Message.AccountKeys[0]
}
