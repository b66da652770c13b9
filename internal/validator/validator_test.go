package validator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"solana-token-sentinel/internal/domain"
	"solana-token-sentinel/internal/holders"
	"solana-token-sentinel/internal/narrative"
	"solana-token-sentinel/internal/safety"
	"solana-token-sentinel/internal/scoring"
)

// fakeAdapters scripts every sub-check and counts invocations so tier
// short-circuits can be asserted.
type fakeAdapters struct {
	mu    sync.Mutex
	calls map[string]int

	freshness domain.Freshness
	market    domain.MarketContext
	authority safety.AuthorityResult
	contract  safety.ContractReport
	sell      safety.SellResult
	dist      holders.Distribution
	whale     domain.WhaleActivity
	pattern   domain.TxPattern
	bundle    domain.BundleAnalysis
	stability domain.LiquidityStability
	devrep    *domain.DevReputation
	ai        *domain.AIAnalysis
	curve     float64
	curveErr  error
}

func (f *fakeAdapters) count(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeAdapters) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAdapters) Check(ctx context.Context, mint string) domain.Freshness {
	f.count("freshness")
	return f.freshness
}

type marketFake struct{ f *fakeAdapters }

func (m marketFake) Check(context.Context) domain.MarketContext {
	m.f.count("market")
	return m.f.market
}

type authorityFake struct{ f *fakeAdapters }

func (a authorityFake) Check(context.Context, string) safety.AuthorityResult {
	a.f.count("authority")
	return a.f.authority
}

type contractFake struct{ f *fakeAdapters }

func (c contractFake) Check(context.Context, string) safety.ContractReport {
	c.f.count("contract")
	return c.f.contract
}

type sellFake struct{ f *fakeAdapters }

func (s sellFake) Simulate(context.Context, string) safety.SellResult {
	s.f.count("sell")
	return s.f.sell
}

type distFake struct{ f *fakeAdapters }

func (d distFake) Check(context.Context, string) holders.Distribution {
	d.f.count("distribution")
	return d.f.dist
}

type whaleFake struct{ f *fakeAdapters }

func (w whaleFake) Check(_ context.Context, dist holders.Distribution) domain.WhaleActivity {
	w.f.count("whale")
	return w.f.whale
}

type patternFake struct{ f *fakeAdapters }

func (p patternFake) Check(context.Context, string) domain.TxPattern {
	p.f.count("pattern")
	return p.f.pattern
}

type bundleFake struct{ f *fakeAdapters }

func (b bundleFake) Detect(context.Context, string) domain.BundleAnalysis {
	b.f.count("bundle")
	return b.f.bundle
}

type stabilityFake struct{ f *fakeAdapters }

func (s stabilityFake) Check(context.Context, string, float64) domain.LiquidityStability {
	s.f.count("stability")
	return s.f.stability
}

type devrepFake struct{ f *fakeAdapters }

func (d devrepFake) Check(context.Context, string) *domain.DevReputation {
	d.f.count("devrep")
	return d.f.devrep
}

type aiFake struct{ f *fakeAdapters }

func (a aiFake) Analyze(context.Context, *domain.TokenCandidate, domain.AIMode) *domain.AIAnalysis {
	a.f.count("ai")
	return a.f.ai
}

type curveFake struct{ f *fakeAdapters }

func (c curveFake) Progress(context.Context, string) (float64, error) {
	c.f.count("curve")
	return c.f.curve, c.f.curveErr
}

func happyFakes() *fakeAdapters {
	return &fakeAdapters{
		calls:     make(map[string]int),
		freshness: domain.Freshness{AgeMinutes: 30, IsFresh: true},
		market:    domain.MarketContext{ShouldTrade: true, Trend: domain.TrendNeutral},
		authority: safety.AuthorityResult{Passed: true, Known: true},
		contract:  safety.ContractReport{Verified: true, Score: 85},
		sell:      safety.SellResult{CanSell: true},
		dist:      holders.Distribution{TopHolderPercent: 5, HolderCount: 60},
		whale:     domain.WhaleActivity{Involved: false, Confidence: 60},
		pattern:   domain.TxPattern{IsOrganic: true},
		stability: domain.LiquidityStability{IsStable: true},
		devrep:    &domain.DevReputation{Score: 50, Tier: domain.ReputationNew},
	}
}

func newTestValidator(f *fakeAdapters) *Validator {
	return New(Options{
		Freshness:    f,
		Market:       marketFake{f},
		Authority:    authorityFake{f},
		Contract:     contractFake{f},
		Sell:         sellFake{f},
		Distribution: distFake{f},
		Whale:        whaleFake{f},
		Pattern:      patternFake{f},
		Bundle:       bundleFake{f},
		Stability:    stabilityFake{f},
		Reputation:   devrepFake{f},
		Social:       narrative.NewSocialScorer(narrative.FixedEngagement(0)),
		AI:           aiFake{f},
		Curve:        curveFake{f},
		Logger:       zerolog.Nop(),
	})
}

func scenarioToken() *domain.TokenCandidate {
	return &domain.TokenCandidate{
		Mint:              "MintA",
		Symbol:            "ALPHA",
		Name:              "Alpha Token",
		Narrative:         "Backed by an experienced team with a completed audit and active Telegram/Twitter/website",
		LiquidityUSD:      60000,
		VolumeIncreasePct: 250,
		PairAddress:       "PairA",
		Socials: &domain.SocialLinks{
			Website:  "https://alpha.example",
			Twitter:  "https://x.com/alpha",
			Telegram: "https://t.me/alpha",
		},
	}
}

func TestValidate_ScenarioA_FullFunnel(t *testing.T) {
	f := happyFakes()
	v := newTestValidator(f)

	out := v.Validate(context.Background(), scenarioToken(), domain.DefaultSettings())
	require.Equal(t, 3, out.TierReached)
	require.True(t, out.Checks.Contract)
	require.True(t, out.Checks.Liquidity)
	require.True(t, out.Checks.Narrative)
	require.True(t, out.Checks.SellTest)
	require.True(t, out.Checks.Holders)
	require.Equal(t, 85, out.ContractScore)

	result := scoring.Score(out.Checks, out.ContractScore, out.TierReached, &out.Enhancements)
	require.Greater(t, result.Composite, 70)
	require.True(t, result.IsValid)
	require.Contains(t, result.Recommendations[0], "buy")
}

func TestValidate_ScenarioB_SecurityShortCircuit(t *testing.T) {
	f := happyFakes()
	f.authority = safety.AuthorityResult{
		Passed: false,
		Known:  true,
		Risks:  []string{"freeze authority not revoked, holders can be frozen"},
	}
	v := newTestValidator(f)

	out := v.Validate(context.Background(), scenarioToken(), domain.DefaultSettings())
	require.Equal(t, 1, out.TierReached)
	require.False(t, out.Checks.Contract)
	require.Zero(t, out.ContractScore)

	joined := ""
	for _, r := range out.Risks {
		joined += r + "\n"
	}
	require.Contains(t, joined, "freeze authority")

	for _, name := range []string{"contract", "sell", "distribution", "pattern", "bundle", "stability", "devrep", "ai", "whale", "curve"} {
		require.Zero(t, f.callCount(name), "tier 2/3 adapter %q must not run after a tier 1 exit", name)
	}

	result := scoring.Score(out.Checks, out.ContractScore, out.TierReached, &out.Enhancements)
	require.False(t, result.IsValid)
}

func TestValidate_ScenarioC_BundledGate(t *testing.T) {
	f := happyFakes()
	f.bundle = domain.BundleAnalysis{
		IsBundled:    true,
		SybilWallets: 7,
		Details:      []string{"14 repeated-signer buys across 7 wallets in launch window"},
	}
	v := newTestValidator(f)

	out := v.Validate(context.Background(), scenarioToken(), domain.DefaultSettings())
	require.Equal(t, 2, out.TierReached)
	require.True(t, out.Checks.Contract, "contract passes individually")
	require.True(t, out.Checks.SellTest, "sellability passes individually")

	joined := ""
	for _, r := range out.Risks {
		joined += r + "\n"
	}
	require.Contains(t, joined, "repeated-signer")

	require.Zero(t, f.callCount("devrep"))
	require.Zero(t, f.callCount("ai"))

	result := scoring.Score(out.Checks, out.ContractScore, out.TierReached, &out.Enhancements)
	require.False(t, result.IsValid, "the tier-2 gate requires not-bundled")
}

func TestValidate_HolderConcentrationGate(t *testing.T) {
	f := happyFakes()
	f.dist = holders.Distribution{TopHolderPercent: 45, HolderCount: 8}
	v := newTestValidator(f)

	token := scenarioToken()
	out := v.Validate(context.Background(), token, domain.DefaultSettings())
	require.Equal(t, 2, out.TierReached)
	require.False(t, out.Checks.Holders)
	require.Equal(t, 45.0, token.TopHolderPercent, "the candidate is enriched with the measured concentration")

	joined := ""
	for _, r := range out.Risks {
		joined += r + "\n"
	}
	require.Contains(t, joined, "top holder")
}

func TestValidate_StaleTokenExitsWithNeutralContract(t *testing.T) {
	f := happyFakes()
	f.freshness = domain.Freshness{AgeMinutes: 500, IsFresh: false}
	v := newTestValidator(f)

	out := v.Validate(context.Background(), scenarioToken(), domain.DefaultSettings())
	require.Equal(t, 1, out.TierReached)
	require.Equal(t, 50, out.ContractScore, "quick security passed, contract unassessed")
}

func TestValidate_Tier3NeverGates(t *testing.T) {
	f := happyFakes()
	f.devrep = nil
	f.ai = nil
	f.whale = domain.WhaleActivity{}
	v := newTestValidator(f)

	out := v.Validate(context.Background(), scenarioToken(), domain.DefaultSettings())
	require.Equal(t, 3, out.TierReached)
	require.Nil(t, out.Enhancements.Developer)
	require.Nil(t, out.Enhancements.AI)
}

func TestValidate_AIAnalysisCarried(t *testing.T) {
	f := happyFakes()
	f.ai = &domain.AIAnalysis{
		NarrativeScore: 77,
		HypeScore:      81,
		Sentiment:      domain.SentimentBullish,
		Summary:        "summary",
		Potential:      domain.PotentialHigh,
		Mode:           domain.AIModeBalanced,
	}
	v := newTestValidator(f)

	out := v.Validate(context.Background(), scenarioToken(), domain.DefaultSettings())
	require.NotNil(t, out.Enhancements.AI)
	require.Equal(t, 77, out.Enhancements.AI.NarrativeScore)
}

func TestValidate_CurveEnrichmentRescoresNarrative(t *testing.T) {
	f := happyFakes()
	f.curve = 62.5
	v := newTestValidator(f)

	token := scenarioToken()
	token.PairAddress = ""
	token.LiquidityUSD = 60000 // above min liquidity but pair unknown
	token.Narrative = "Launched on pump.fun with a completed audit and an active community"

	out := v.Validate(context.Background(), token, domain.DefaultSettings())
	require.Equal(t, 3, out.TierReached)
	require.Equal(t, 1, f.callCount("curve"))
	require.Contains(t, token.Narrative, "Bonding curve progress: 62.5%")
	require.True(t, out.Checks.Narrative)
}

func TestValidate_CurveFailureSkipsEnrichment(t *testing.T) {
	f := happyFakes()
	f.curveErr = errors.New("launchpad api down")
	v := newTestValidator(f)

	token := scenarioToken()
	token.Narrative = "Launched on pump.fun with a completed audit and an active community"

	out := v.Validate(context.Background(), token, domain.DefaultSettings())
	require.Equal(t, 3, out.TierReached)
	require.NotContains(t, token.Narrative, "Bonding curve progress")
}

func TestValidate_NoCurveLookupForPairedToken(t *testing.T) {
	f := happyFakes()
	v := newTestValidator(f)

	v.Validate(context.Background(), scenarioToken(), domain.DefaultSettings())
	require.Zero(t, f.callCount("curve"))
}

func TestValidate_Idempotent(t *testing.T) {
	f := happyFakes()
	v := newTestValidator(f)

	first := v.Validate(context.Background(), scenarioToken(), domain.DefaultSettings())
	second := v.Validate(context.Background(), scenarioToken(), domain.DefaultSettings())
	require.Equal(t, first.Checks, second.Checks)
	require.Equal(t, first.ContractScore, second.ContractScore)
	require.Equal(t, first.TierReached, second.TierReached)

	r1 := scoring.Score(first.Checks, first.ContractScore, first.TierReached, &first.Enhancements)
	r2 := scoring.Score(second.Checks, second.ContractScore, second.TierReached, &second.Enhancements)
	require.Equal(t, r1.Composite, r2.Composite)
}
