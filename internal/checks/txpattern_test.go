package checks

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"solana-token-sentinel/internal/solana"
	"solana-token-sentinel/internal/solana/stub"
)

// sigsWithGaps builds a newest-first signature list where gaps[i] is the
// number of seconds between consecutive transactions.
func sigsWithGaps(start int64, gaps []int64) []solana.SignatureInfo {
	sigs := make([]solana.SignatureInfo, 0, len(gaps)+1)
	t := start
	sigs = append(sigs, sigAt("sig0", t))
	for i, g := range gaps {
		t -= g
		sigs = append(sigs, sigAt(string(rune('a'+i%26))+"sig", t))
	}
	return sigs
}

func TestPatternChecker_OrganicCadence(t *testing.T) {
	rpc := stub.NewRPCClient()

	// Irregular gaps between 30s and 10min, well under 50 transactions.
	gaps := []int64{45, 300, 90, 600, 33, 210, 127, 480, 61, 355}
	rpc.AddSignatures("MintA", sigsWithGaps(1_700_000_000, gaps))

	checker := NewPatternChecker(rpc, zerolog.Nop())
	got := checker.Check(context.Background(), "MintA")
	require.True(t, got.IsOrganic)
	require.Empty(t, got.Patterns)
}

func TestPatternChecker_BurstFlag(t *testing.T) {
	rpc := stub.NewRPCClient()

	// 50 transactions inside ~3 minutes, with enough gap jitter that the
	// cadence flag stays quiet and only the burst flag fires.
	gaps := make([]int64, 49)
	for i := range gaps {
		gaps[i] = int64(1 + i%4)
	}
	gaps[0], gaps[5], gaps[10] = 20, 15, 25
	rpc.AddSignatures("MintA", sigsWithGaps(1_700_000_000, gaps))

	checker := NewPatternChecker(rpc, zerolog.Nop())
	got := checker.Check(context.Background(), "MintA")
	require.False(t, got.IsOrganic)
	require.NotEmpty(t, got.Patterns)
	require.Contains(t, got.Patterns[0], "bot burst")
}

func TestPatternChecker_BurstFlagSurvivesMissingBlockTime(t *testing.T) {
	rpc := stub.NewRPCClient()

	// Same burst, but one entry arrives without a block time. The flag
	// must still fire on the 50 fetched signatures.
	gaps := make([]int64, 49)
	for i := range gaps {
		gaps[i] = int64(1 + i%4)
	}
	gaps[0], gaps[5], gaps[10] = 20, 15, 25
	sigs := sigsWithGaps(1_700_000_000, gaps)
	sigs[7].BlockTime = nil
	rpc.AddSignatures("MintA", sigs)

	checker := NewPatternChecker(rpc, zerolog.Nop())
	got := checker.Check(context.Background(), "MintA")
	require.False(t, got.IsOrganic)
	require.Contains(t, got.Patterns[0], "bot burst")
}

func TestPatternChecker_MechanicalCadence(t *testing.T) {
	rpc := stub.NewRPCClient()

	// 15 transactions exactly 30s apart: zero variance, sub-minute average.
	gaps := make([]int64, 14)
	for i := range gaps {
		gaps[i] = 30
	}
	rpc.AddSignatures("MintA", sigsWithGaps(1_700_000_000, gaps))

	checker := NewPatternChecker(rpc, zerolog.Nop())
	got := checker.Check(context.Background(), "MintA")
	require.False(t, got.IsOrganic)
	require.Len(t, got.Patterns, 1)
	require.Contains(t, got.Patterns[0], "automated trading")
}

func TestPatternChecker_BothFlags(t *testing.T) {
	rpc := stub.NewRPCClient()

	// 50 transactions at a metronomic 2s cadence: burst and cadence.
	gaps := make([]int64, 49)
	for i := range gaps {
		gaps[i] = 2
	}
	rpc.AddSignatures("MintA", sigsWithGaps(1_700_000_000, gaps))

	checker := NewPatternChecker(rpc, zerolog.Nop())
	got := checker.Check(context.Background(), "MintA")
	require.False(t, got.IsOrganic)
	require.Len(t, got.Patterns, 2)
}

func TestPatternChecker_FailsOpen(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.Errs["GetSignaturesForAddress"] = errors.New("rpc down")

	checker := NewPatternChecker(rpc, zerolog.Nop())
	got := checker.Check(context.Background(), "MintA")
	require.True(t, got.IsOrganic)
}

func TestPatternChecker_TooFewTransactions(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.AddSignatures("MintA", []solana.SignatureInfo{sigAt("sig0", 1_700_000_000)})

	checker := NewPatternChecker(rpc, zerolog.Nop())
	got := checker.Check(context.Background(), "MintA")
	require.True(t, got.IsOrganic)
}
