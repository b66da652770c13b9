package domain

// ValidationChecks holds the seven independent boolean checks of one
// validation run. Recomputed as a whole per run, never updated in place.
type ValidationChecks struct {
	Narrative     bool `json:"narrative"`     // narrative quality above threshold
	Attention     bool `json:"attention"`     // volume spike above configured minimum
	Liquidity     bool `json:"liquidity"`     // liquidity above configured minimum
	OrganicVolume bool `json:"organicVolume"` // transaction pattern looks organic
	Contract      bool `json:"contract"`      // contract safety verified
	Holders       bool `json:"holders"`       // top-holder concentration below configured maximum
	SellTest      bool `json:"sellTest"`      // swap simulation confirmed sellable
}

// Passed returns how many of the seven checks passed.
func (c ValidationChecks) Passed() int {
	n := 0
	for _, b := range []bool{c.Narrative, c.Attention, c.Liquidity, c.OrganicVolume, c.Contract, c.Holders, c.SellTest} {
		if b {
			n++
		}
	}
	return n
}

// Total returns the number of checks in a run.
func (c ValidationChecks) Total() int { return 7 }

// Valid reports structural validity: the four gating checks must pass.
// Attention, OrganicVolume and Holders influence scoring and
// recommendations but do not gate validity.
func (c ValidationChecks) Valid() bool {
	return c.Narrative && c.Liquidity && c.Contract && c.SellTest
}
