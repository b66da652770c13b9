package safety

import (
	"context"

	"github.com/rs/zerolog"

	"solana-token-sentinel/internal/solana"
)

// AuthorityResult is the quick on-chain security check outcome.
type AuthorityResult struct {
	Passed bool     `json:"passed"`
	Known  bool     `json:"known"` // false when mint state could not be read
	Risks  []string `json:"risks,omitempty"`
}

// AuthorityChecker inspects a mint's authority fields directly on chain.
// Authoritative when data is available; an unreadable mint fails open.
type AuthorityChecker struct {
	rpc    solana.RPCClient
	logger zerolog.Logger
}

// NewAuthorityChecker creates a new quick-security checker.
func NewAuthorityChecker(rpc solana.RPCClient, logger zerolog.Logger) *AuthorityChecker {
	return &AuthorityChecker{
		rpc:    rpc,
		logger: logger.With().Str("adapter", "authority").Logger(),
	}
}

// Check passes only when both the mint authority and the freeze
// authority have been revoked. A retained mint authority allows supply
// inflation; a retained freeze authority allows holder lockout.
func (c *AuthorityChecker) Check(ctx context.Context, mint string) AuthorityResult {
	info, err := c.rpc.GetMintInfo(ctx, mint)
	if err != nil || info == nil {
		c.logger.Warn().Err(err).Str("mint", mint).Msg("mint state unavailable, failing open")
		return AuthorityResult{Passed: true, Known: false}
	}

	result := AuthorityResult{Passed: true, Known: true}
	if info.MintAuthority != "" {
		result.Passed = false
		result.Risks = append(result.Risks, "mint authority not revoked, supply can be inflated")
	}
	if info.FreezeAuthority != "" {
		result.Passed = false
		result.Risks = append(result.Risks, "freeze authority not revoked, holders can be frozen")
	}
	return result
}
