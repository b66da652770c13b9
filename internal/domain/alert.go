package domain

import "time"

// SetupType classifies the trade setup an alert represents.
type SetupType string

const (
	SetupBreakout SetupType = "breakout" // volume increase > 500%
	SetupPullback SetupType = "pullback"
)

// ClassifySetup derives the setup type from the volume-increase ratio.
func ClassifySetup(volumeIncreasePct float64) SetupType {
	if volumeIncreasePct > 500 {
		return SetupBreakout
	}
	return SetupPullback
}

// Alert is the persisted, user-facing unit produced once per validation
// run. Upserted into storage keyed by mint when IsValid is true; invalid
// alerts are returned to the caller but never persisted.
type Alert struct {
	ID        string           `json:"id"` // sha256(mint|timestamp), unique per emission
	Timestamp time.Time        `json:"timestamp"`
	Token     TokenCandidate   `json:"token"`
	Checks    ValidationChecks `json:"checks"`
	IsValid   bool             `json:"isValid"`
	Passed    int              `json:"passed"`
	Total     int              `json:"total"`

	Setup          SetupType `json:"setup"`
	ContractScore  int       `json:"contractScore"`  // 0-100
	CompositeScore int       `json:"compositeScore"` // 0-100

	Social    SocialSignals   `json:"social"`
	Whale     WhaleActivity   `json:"whale"`
	Developer *DevReputation  `json:"developer,omitempty"`
	Bundle    *BundleAnalysis `json:"bundle,omitempty"`
	AI        *AIAnalysis     `json:"ai,omitempty"`

	Recommendations []string `json:"recommendations"` // ordered, human-readable
	Risks           []string `json:"risks"`           // ordered
	TierReached     int      `json:"tierReached"`     // 1-3
}
