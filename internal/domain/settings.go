package domain

// AIMode selects the risk tolerance of AI narrative analysis.
// It changes prompt instructions only, never the output schema.
type AIMode string

const (
	AIModeConservative AIMode = "conservative"
	AIModeBalanced     AIMode = "balanced"
	AIModeAggressive   AIMode = "aggressive"
)

// BotSettings holds the per-scan validation thresholds.
type BotSettings struct {
	MinLiquidityUSD      float64
	MaxTopHolderPercent  float64
	MinVolumeIncreasePct float64
	AIMode               AIMode
}

// DefaultSettings returns the thresholds used when a scan supplies none.
func DefaultSettings() BotSettings {
	return BotSettings{
		MinLiquidityUSD:      50000,
		MaxTopHolderPercent:  30,
		MinVolumeIncreasePct: 100,
		AIMode:               AIModeBalanced,
	}
}
