// Package discovery produces deduplicated token candidates from market
// data sources: a DEX pair-search HTTP API and a launchpad new-token
// WebSocket feed.
package discovery

import (
	"context"

	"solana-token-sentinel/internal/domain"
)

// Source produces token candidates for one scan batch.
type Source interface {
	Name() string
	Discover(ctx context.Context) ([]domain.TokenCandidate, error)
}

// Dedupe keeps the first candidate per mint, preserving order, and
// drops entries whose mint is not a valid public key.
func Dedupe(candidates []domain.TokenCandidate) []domain.TokenCandidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]domain.TokenCandidate, 0, len(candidates))
	for _, c := range candidates {
		if !domain.ValidMint(c.Mint) {
			continue
		}
		if _, dup := seen[c.Mint]; dup {
			continue
		}
		seen[c.Mint] = struct{}{}
		out = append(out, c)
	}
	return out
}
