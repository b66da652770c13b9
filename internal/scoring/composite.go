// Package scoring blends a validation run's findings into one 0-100
// composite score plus the ordered recommendation strings. The weights
// and penalties are fixed policy, not configuration.
package scoring

import (
	"fmt"
	"math"

	"solana-token-sentinel/internal/domain"
)

const (
	contractWeight  = 0.4
	narrativeWeight = 0.2
	socialWeight    = 0.15
	whaleWeight     = 0.05
	liquidityWeight = 0.2

	stalePenalty     = 10
	inorganicPenalty = 20
	riskOffPenalty   = 10
	bundledPenalty   = 30
	lowDevRepPenalty = 20

	lowDevRepThreshold = 20
)

// Result is the composite scorer's output.
type Result struct {
	Composite       int      `json:"composite"`
	IsValid         bool     `json:"isValid"`
	Recommendations []string `json:"recommendations"`
}

// Score computes the weighted composite, applies penalties, and derives
// the recommendation list. IsValid requires the four gating checks plus
// a full funnel run: a token stopped at tier 1 or 2 can never be valid,
// even when its four gating booleans individually pass (a bundled
// launch or excessive holder concentration fails the tier gate without
// flipping any of the four). IsValid stays deliberately decoupled from
// the numeric score.
func Score(checks domain.ValidationChecks, contractScore, tierReached int, enh *domain.EnhancementBundle) Result {
	narrativeComponent := float64(enh.Narrative.Score)
	socialComponent := float64(enh.Social.Score)
	if enh.AI != nil {
		narrativeComponent = float64(enh.AI.NarrativeScore)
		socialComponent = float64(enh.AI.HypeScore)
	}

	liquidityComponent := 0.0
	if enh.Stability.IsStable {
		liquidityComponent = 100
	}

	composite := contractWeight*float64(contractScore) +
		narrativeWeight*narrativeComponent +
		socialWeight*socialComponent +
		whaleWeight*float64(enh.Whale.Score) +
		liquidityWeight*liquidityComponent

	if !enh.Freshness.IsFresh {
		composite -= stalePenalty
	}
	if !enh.Pattern.IsOrganic {
		composite -= inorganicPenalty
	}
	if !enh.Market.ShouldTrade {
		composite -= riskOffPenalty
	}
	if enh.Bundle.IsBundled {
		composite -= bundledPenalty
	}
	if enh.Developer != nil && enh.Developer.Score < lowDevRepThreshold {
		composite -= lowDevRepPenalty
	}

	score := int(math.Round(math.Min(100, math.Max(0, composite))))

	return Result{
		Composite:       score,
		IsValid:         checks.Valid() && tierReached == 3,
		Recommendations: recommendations(score, enh),
	}
}

// recommendations derives the ordered, human-readable guidance list.
// Conditions are independent and can stack.
func recommendations(score int, enh *domain.EnhancementBundle) []string {
	var recs []string

	switch {
	case score >= 80:
		recs = append(recs, fmt.Sprintf("strong buy signal (%d/100)", score))
	case score >= 70:
		recs = append(recs, fmt.Sprintf("buy signal (%d/100)", score))
	case score >= 60:
		recs = append(recs, fmt.Sprintf("moderate signal (%d/100), proceed with caution", score))
	default:
		recs = append(recs, fmt.Sprintf("avoid (%d/100)", score))
	}

	if enh.Whale.Involved {
		recs = append(recs, "whale wallets active among top holders")
	}
	if enh.Bundle.IsBundled {
		recs = append(recs, "warning: bundled launch detected")
	}
	if enh.Developer != nil && enh.Developer.Tier == domain.ReputationHigh {
		recs = append(recs, "developer has an extensive launch history")
	}
	if len(enh.Pattern.Patterns) > 0 {
		recs = append(recs, "warning: suspicious transaction patterns recorded")
	}

	if enh.AI != nil {
		recs = append(recs, enh.AI.Summary)
		recs = append(recs, enh.AI.Brief...)
		if enh.AI.Potential == domain.PotentialMoonshot {
			recs = append(recs, "moonshot potential per AI assessment")
		}
	}

	return recs
}
