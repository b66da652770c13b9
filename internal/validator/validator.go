// Package validator runs the three-tier validation funnel: cheap
// high-signal checks first, rate-limited expensive checks only for
// tokens that survive the earlier gates.
package validator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"solana-token-sentinel/internal/domain"
	"solana-token-sentinel/internal/holders"
	"solana-token-sentinel/internal/narrative"
	"solana-token-sentinel/internal/safety"
)

// narrativePassScore is the heuristic narrative score at or above which
// the narrative check passes.
const narrativePassScore = 50

// bondingCurveLiquidityUSD bounds the "looks like a curve launch"
// heuristic when no pair address is known.
const bondingCurveLiquidityUSD = 10000

// Adapter interfaces. The validator accepts interfaces so tests can
// script each sub-check independently.
type (
	FreshnessChecker interface {
		Check(ctx context.Context, mint string) domain.Freshness
	}
	MarketChecker interface {
		Check(ctx context.Context) domain.MarketContext
	}
	AuthorityChecker interface {
		Check(ctx context.Context, mint string) safety.AuthorityResult
	}
	ContractChecker interface {
		Check(ctx context.Context, mint string) safety.ContractReport
	}
	SellSimulator interface {
		Simulate(ctx context.Context, mint string) safety.SellResult
	}
	DistributionChecker interface {
		Check(ctx context.Context, mint string) holders.Distribution
	}
	WhaleChecker interface {
		Check(ctx context.Context, dist holders.Distribution) domain.WhaleActivity
	}
	PatternChecker interface {
		Check(ctx context.Context, mint string) domain.TxPattern
	}
	BundleDetector interface {
		Detect(ctx context.Context, mint string) domain.BundleAnalysis
	}
	StabilityChecker interface {
		Check(ctx context.Context, mint string, liquidityUSD float64) domain.LiquidityStability
	}
	ReputationChecker interface {
		Check(ctx context.Context, mint string) *domain.DevReputation
	}
	SocialScorer interface {
		Score(token *domain.TokenCandidate) domain.SocialSignals
	}
	Analyst interface {
		Analyze(ctx context.Context, token *domain.TokenCandidate, mode domain.AIMode) *domain.AIAnalysis
	}
	// CurveSource reports bonding-curve completion in percent.
	CurveSource interface {
		Progress(ctx context.Context, mint string) (float64, error)
	}
)

// Options wires the validator's sub-checks. Freshness, Market,
// Authority, Contract, Sell, Distribution, Pattern, Bundle, Stability
// and Social are required; Whale, Reputation, AI and Curve may be nil
// and their tier-3 findings stay at neutral defaults.
type Options struct {
	Freshness    FreshnessChecker
	Market       MarketChecker
	Authority    AuthorityChecker
	Contract     ContractChecker
	Sell         SellSimulator
	Distribution DistributionChecker
	Whale        WhaleChecker
	Pattern      PatternChecker
	Bundle       BundleDetector
	Stability    StabilityChecker
	Reputation   ReputationChecker
	Social       SocialScorer
	AI           Analyst
	Curve        CurveSource
	Logger       zerolog.Logger
}

// Outcome is one validation run's result.
type Outcome struct {
	Checks        domain.ValidationChecks
	ContractScore int
	Risks         []string
	TierReached   int
	Enhancements  domain.EnhancementBundle

	// distribution carries the tier-2 holder snapshot into tier 3.
	distribution holders.Distribution
}

// Validator orchestrates the tiered funnel.
type Validator struct {
	opts   Options
	logger zerolog.Logger
}

// New creates a validator from the wired sub-checks.
func New(opts Options) *Validator {
	return &Validator{
		opts:   opts,
		logger: opts.Logger.With().Str("component", "validator").Logger(),
	}
}

// Validate runs the funnel for one candidate. Adapter failures never
// surface here; they are absorbed into each adapter's safe default.
// Early gate exits fill the untouched enhancement fields with neutral
// defaults.
func (v *Validator) Validate(ctx context.Context, token *domain.TokenCandidate, settings domain.BotSettings) *Outcome {
	out := &Outcome{Enhancements: domain.NeutralEnhancements()}
	enh := &out.Enhancements

	// Data-local checks need no I/O.
	enh.Narrative = narrative.ScoreNarrative(token)
	enh.Social = v.opts.Social.Score(token)
	out.Checks.Narrative = enh.Narrative.Score >= narrativePassScore
	out.Checks.Attention = token.VolumeIncreasePct >= settings.MinVolumeIncreasePct
	out.Checks.Liquidity = token.LiquidityUSD >= settings.MinLiquidityUSD
	if !out.Checks.Narrative {
		out.Risks = append(out.Risks, fmt.Sprintf("weak narrative (score %d)", enh.Narrative.Score))
	}
	if !out.Checks.Liquidity {
		out.Risks = append(out.Risks, fmt.Sprintf("liquidity $%.0f below minimum $%.0f", token.LiquidityUSD, settings.MinLiquidityUSD))
	}

	if !v.tier1(ctx, token, out) {
		out.TierReached = 1
		return out
	}
	if !v.tier2(ctx, token, settings, out) {
		out.TierReached = 2
		return out
	}
	v.tier3(ctx, token, settings, out)
	out.TierReached = 3
	return out
}

// tier1 runs the fast filter: freshness, market context and the quick
// on-chain security check, concurrently. Returns false on gate failure,
// leaving the contract score at 50 when only the security check failed
// and 0 otherwise.
func (v *Validator) tier1(ctx context.Context, token *domain.TokenCandidate, out *Outcome) bool {
	enh := &out.Enhancements
	var authority safety.AuthorityResult

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		enh.Freshness = v.opts.Freshness.Check(ctx, token.Mint)
	}()
	go func() {
		defer wg.Done()
		enh.Market = v.opts.Market.Check(ctx)
	}()
	go func() {
		defer wg.Done()
		authority = v.opts.Authority.Check(ctx, token.Mint)
	}()
	wg.Wait()

	if !enh.Freshness.IsFresh {
		out.Risks = append(out.Risks, fmt.Sprintf("token is %.0f minutes old, past the freshness window", enh.Freshness.AgeMinutes))
	}
	if !enh.Market.ShouldTrade {
		out.Risks = append(out.Risks, fmt.Sprintf("broad market down %.1f%%, trading suppressed", enh.Market.ChangePct))
	}
	if !authority.Passed {
		out.Risks = append(out.Risks, authority.Risks...)
	}

	if enh.Freshness.IsFresh && enh.Market.ShouldTrade && authority.Passed {
		return true
	}

	// A failed security check zeroes the contract score. When the quick
	// check passed and the gate fell to freshness or market context, the
	// contract is unassessed and scores neutral.
	if authority.Passed {
		out.ContractScore = 50
	}
	v.logger.Debug().Str("mint", token.Mint).Strs("risks", out.Risks).Msg("tier 1 gate failed")
	return false
}

// tier2 runs the security and pattern fan-out. The gate needs a
// verified contract, a working sell route, acceptable holder
// concentration and no bundle flag.
func (v *Validator) tier2(ctx context.Context, token *domain.TokenCandidate, settings domain.BotSettings, out *Outcome) bool {
	enh := &out.Enhancements
	var (
		report safety.ContractReport
		sell   safety.SellResult
		dist   holders.Distribution
	)

	var wg sync.WaitGroup
	wg.Add(6)
	go func() {
		defer wg.Done()
		report = v.opts.Contract.Check(ctx, token.Mint)
	}()
	go func() {
		defer wg.Done()
		sell = v.opts.Sell.Simulate(ctx, token.Mint)
	}()
	go func() {
		defer wg.Done()
		dist = v.opts.Distribution.Check(ctx, token.Mint)
	}()
	go func() {
		defer wg.Done()
		enh.Pattern = v.opts.Pattern.Check(ctx, token.Mint)
	}()
	go func() {
		defer wg.Done()
		enh.Bundle = v.opts.Bundle.Detect(ctx, token.Mint)
	}()
	go func() {
		defer wg.Done()
		enh.Stability = v.opts.Stability.Check(ctx, token.Mint, token.LiquidityUSD)
	}()
	wg.Wait()

	out.ContractScore = report.Score
	out.Checks.Contract = report.Verified
	out.Checks.SellTest = sell.CanSell
	out.Checks.OrganicVolume = enh.Pattern.IsOrganic
	out.Checks.Holders = dist.TopHolderPercent < settings.MaxTopHolderPercent
	token.TopHolderPercent = dist.TopHolderPercent
	out.distribution = dist

	if !report.Verified {
		out.Risks = append(out.Risks, report.Risks...)
	}
	if !sell.CanSell {
		out.Risks = append(out.Risks, sell.Reason)
	}
	if !out.Checks.Holders {
		out.Risks = append(out.Risks, fmt.Sprintf("top holder owns %.1f%% of supply (max %.1f%%)", dist.TopHolderPercent, settings.MaxTopHolderPercent))
	}
	if enh.Bundle.IsBundled {
		out.Risks = append(out.Risks, enh.Bundle.Details...)
	}
	if !enh.Pattern.IsOrganic {
		out.Risks = append(out.Risks, enh.Pattern.Patterns...)
	}
	if !enh.Stability.IsStable {
		out.Risks = append(out.Risks, fmt.Sprintf("liquidity drained %.1f%% since last observation", enh.Stability.ChangePct))
	}

	pass := report.Verified && sell.CanSell && out.Checks.Holders && !enh.Bundle.IsBundled
	if !pass {
		v.logger.Debug().Str("mint", token.Mint).Strs("risks", out.Risks).Msg("tier 2 gate failed")
	}
	return pass
}

// tier3 runs the alpha and AI enrichment. There is no gate; every
// branch completes and the tier always finishes.
func (v *Validator) tier3(ctx context.Context, token *domain.TokenCandidate, settings domain.BotSettings, out *Outcome) {
	enh := &out.Enhancements

	var wg sync.WaitGroup
	if v.opts.Reputation != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			enh.Developer = v.opts.Reputation.Check(ctx, token.Mint)
		}()
	}
	if v.opts.AI != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			enh.AI = v.opts.AI.Analyze(ctx, token, settings.AIMode)
		}()
	}
	if v.opts.Whale != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			enh.Whale = v.opts.Whale.Check(ctx, out.distribution)
		}()
	}
	var (
		curveProgress float64
		curveKnown    bool
	)
	if v.opts.Curve != nil && looksLikeCurveLaunch(token) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			progress, err := v.opts.Curve.Progress(ctx, token.Mint)
			if err != nil {
				v.logger.Warn().Err(err).Str("mint", token.Mint).Msg("bonding curve lookup failed, skipping enrichment")
				return
			}
			curveProgress, curveKnown = progress, true
		}()
	}
	wg.Wait()

	// The re-score is sequential after enrichment: the enriched text
	// must not change under the other goroutines.
	if curveKnown {
		token.Narrative = fmt.Sprintf("%s Bonding curve progress: %.1f%%.", token.Narrative, curveProgress)
		enh.Narrative = narrative.ScoreNarrative(token)
		out.Checks.Narrative = enh.Narrative.Score >= narrativePassScore
	}

	if enh.Developer != nil && enh.Developer.Score < 20 {
		out.Risks = append(out.Risks, "developer reputation critically low")
	}
}

// looksLikeCurveLaunch is the curve-launch heuristic: the narrative
// names a launchpad, or the token has no pair address and thin
// liquidity.
func looksLikeCurveLaunch(token *domain.TokenCandidate) bool {
	text := strings.ToLower(token.Narrative)
	if strings.Contains(text, "pump.fun") || strings.Contains(text, "pumpfun") || strings.Contains(text, "bonding curve") {
		return true
	}
	return token.PairAddress == "" && token.LiquidityUSD < bondingCurveLiquidityUSD
}
