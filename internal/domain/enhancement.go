package domain

// Trend classifies the broad-market direction.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendNeutral Trend = "neutral"
	TrendBearish Trend = "bearish"
)

// Sentiment classifies narrative or social tone.
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentNeutral Sentiment = "neutral"
	SentimentBearish Sentiment = "bearish"
	SentimentWeak    Sentiment = "weak"
)

// PotentialTier is the AI-assessed upside classification.
type PotentialTier string

const (
	PotentialLow      PotentialTier = "low"
	PotentialMedium   PotentialTier = "medium"
	PotentialHigh     PotentialTier = "high"
	PotentialMoonshot PotentialTier = "moonshot"
)

// ReputationTier buckets a developer by prior launch history.
type ReputationTier string

const (
	ReputationNew    ReputationTier = "New"    // brand-new wallet, not penalized
	ReputationLow    ReputationTier = "Low"    // 1 prior launch
	ReputationMedium ReputationTier = "Medium" // 2-5 prior launches
	ReputationHigh   ReputationTier = "High"   // >5 prior launches
)

// Freshness is the token age check result.
type Freshness struct {
	AgeMinutes float64 `json:"ageMinutes"`
	IsFresh    bool    `json:"isFresh"`
}

// TxPattern is the transaction-interval bot-detection result.
type TxPattern struct {
	IsOrganic bool     `json:"isOrganic"`
	Patterns  []string `json:"patterns,omitempty"` // suspicious-pattern descriptions
}

// LiquidityStability compares the current liquidity reading against the
// last stored observation for the same mint.
type LiquidityStability struct {
	IsStable  bool    `json:"isStable"`
	ChangePct float64 `json:"changePct"` // percent change since last observation
}

// MarketContext is the broad-asset trend check result.
type MarketContext struct {
	ShouldTrade bool    `json:"shouldTrade"`
	Trend       Trend   `json:"trend"`
	ChangePct   float64 `json:"changePct"`
}

// NarrativeQuality is the heuristic narrative score with matched signals.
type NarrativeQuality struct {
	Score    int      `json:"score"` // 0-100
	Signals  []string `json:"signals,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// SocialSignals is the heuristic social-presence score.
type SocialSignals struct {
	Score     int       `json:"score"` // 10-100
	Sentiment Sentiment `json:"sentiment"`
	Mentions  int       `json:"mentions"`
}

// WhaleActivity is the top-holder balance concentration heuristic.
type WhaleActivity struct {
	Involved   bool `json:"involved"`
	Confidence int  `json:"confidence"` // 0-100
	Score      int  `json:"score"`      // 0-100
}

// DevReputation is the developer prior-launch reputation. Nil in an
// EnhancementBundle when the creator could not be resolved.
type DevReputation struct {
	Score         int            `json:"score"` // 0-100
	Tier          ReputationTier `json:"tier"`
	PriorLaunches int            `json:"priorLaunches"`
	Creator       string         `json:"creator"`
	WalletOnCurve bool           `json:"walletOnCurve"` // false when the deployer is a program-derived address
}

// BundleAnalysis is the bundled-launch / sybil detection result.
type BundleAnalysis struct {
	IsBundled        bool     `json:"isBundled"`
	BundlePercentage float64  `json:"bundlePercentage"`
	SybilWallets     int      `json:"sybilWallets"`
	Details          []string `json:"details,omitempty"`
}

// AIAnalysis is the structured output of the AI narrative analyst.
// Nil in an EnhancementBundle when both providers were unavailable.
type AIAnalysis struct {
	NarrativeScore int           `json:"narrativeScore"` // 1-100
	HypeScore      int           `json:"hypeScore"`      // 1-100
	Sentiment      Sentiment     `json:"sentiment"`
	Summary        string        `json:"summary"`
	Risks          []string      `json:"risks,omitempty"`
	Potential      PotentialTier `json:"potential"`
	Brief          []string      `json:"brief,omitempty"`    // 3-bullet intelligence brief
	Analysis       string        `json:"analysis,omitempty"` // qualitative narrative-analysis text
	Mode           AIMode        `json:"mode"`
}

// EnhancementBundle carries the per-category raw findings of one
// validation run. Fields for checks that never ran hold neutral defaults.
type EnhancementBundle struct {
	Freshness Freshness          `json:"freshness"`
	Pattern   TxPattern          `json:"pattern"`
	Stability LiquidityStability `json:"stability"`
	Market    MarketContext      `json:"market"`
	Narrative NarrativeQuality   `json:"narrative"`
	Social    SocialSignals      `json:"social"`
	Whale     WhaleActivity      `json:"whale"`
	Developer *DevReputation     `json:"developer,omitempty"`
	Bundle    BundleAnalysis     `json:"bundle"`
	AI        *AIAnalysis        `json:"ai,omitempty"`
}

// NeutralEnhancements returns a bundle filled with safe defaults, used
// for categories that early tier exits skipped.
func NeutralEnhancements() EnhancementBundle {
	return EnhancementBundle{
		Freshness: Freshness{AgeMinutes: 0, IsFresh: true},
		Pattern:   TxPattern{IsOrganic: true},
		Stability: LiquidityStability{IsStable: true},
		Market:    MarketContext{ShouldTrade: true, Trend: TrendNeutral},
		Narrative: NarrativeQuality{Score: 50},
		Social:    SocialSignals{Score: 50, Sentiment: SentimentNeutral},
		Whale:     WhaleActivity{Involved: false, Confidence: 0, Score: 0},
		Bundle:    BundleAnalysis{IsBundled: false},
	}
}
