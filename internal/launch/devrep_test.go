package launch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"solana-token-sentinel/internal/domain"
	"solana-token-sentinel/internal/solana"
	"solana-token-sentinel/internal/solana/stub"
)

// onCurveWallet is the ed25519 base point, always a valid curve point.
const onCurveWallet = "6x5SYnLroiN7WYq8NQYU9KHcH4YjpBbwpUfVu3EB7ieH"

type fixedIndex struct {
	launches int
	err      error
}

func (x *fixedIndex) PriorLaunches(context.Context, string) (int, error) {
	return x.launches, x.err
}

func seedCreator(rpc *stub.RPCClient, mint, creator string) {
	rpc.AddSignatures(mint, []solana.SignatureInfo{
		{Signature: "sigNew", Slot: 200},
		{Signature: "sigFirst", Slot: 100},
	})
	rpc.AddTransaction(&solana.Transaction{
		Signature: "sigFirst",
		Slot:      100,
		Message:   &solana.TransactionMessage{AccountKeys: []string{creator}},
	})
}

func TestReputationChecker_NewWallet(t *testing.T) {
	rpc := stub.NewRPCClient()
	seedCreator(rpc, "MintA", onCurveWallet)

	// The index attributes only the launch under evaluation.
	checker := NewReputationChecker(rpc, &fixedIndex{launches: 1}, zerolog.Nop())
	got := checker.Check(context.Background(), "MintA")
	require.NotNil(t, got)
	require.Equal(t, 50, got.Score)
	require.Equal(t, domain.ReputationNew, got.Tier)
	require.Zero(t, got.PriorLaunches)
	require.Equal(t, onCurveWallet, got.Creator)
	require.True(t, got.WalletOnCurve)
}

func TestReputationChecker_ExperiencedDeveloper(t *testing.T) {
	rpc := stub.NewRPCClient()
	seedCreator(rpc, "MintA", onCurveWallet)

	checker := NewReputationChecker(rpc, &fixedIndex{launches: 4}, zerolog.Nop())
	got := checker.Check(context.Background(), "MintA")
	require.NotNil(t, got)
	require.Equal(t, 65, got.Score) // 50 + 5*3
	require.Equal(t, domain.ReputationMedium, got.Tier)
	require.Equal(t, 3, got.PriorLaunches)
}

func TestReputationChecker_BonusCapped(t *testing.T) {
	rpc := stub.NewRPCClient()
	seedCreator(rpc, "MintA", onCurveWallet)

	checker := NewReputationChecker(rpc, &fixedIndex{launches: 20}, zerolog.Nop())
	got := checker.Check(context.Background(), "MintA")
	require.NotNil(t, got)
	require.Equal(t, 75, got.Score)
	require.Equal(t, domain.ReputationHigh, got.Tier)
}

func TestReputationChecker_CreatorBehindFullSignaturePage(t *testing.T) {
	rpc := stub.NewRPCClient()

	// A full page of later trading sits in front of the deployment
	// transaction. The creator must resolve from the genesis signer,
	// not an arbitrary recent trader.
	sigs := make([]solana.SignatureInfo, 0, solana.SignaturePageLimit+1)
	for i := 0; i < solana.SignaturePageLimit; i++ {
		sigs = append(sigs, solana.SignatureInfo{Signature: fmt.Sprintf("trade%d", i), Slot: 5000 - int64(i)})
	}
	sigs = append(sigs, solana.SignatureInfo{Signature: "sigGenesis", Slot: 100})
	rpc.AddSignatures("MintA", sigs)
	rpc.AddTransaction(&solana.Transaction{
		Signature: "sigGenesis",
		Slot:      100,
		Message:   &solana.TransactionMessage{AccountKeys: []string{onCurveWallet}},
	})

	checker := NewReputationChecker(rpc, &fixedIndex{launches: 1}, zerolog.Nop())
	got := checker.Check(context.Background(), "MintA")
	require.NotNil(t, got)
	require.Equal(t, onCurveWallet, got.Creator)
	require.Equal(t, 2, rpc.Calls["GetSignaturesForAddress"])
}

func TestReputationChecker_IndexFailureIsNewWallet(t *testing.T) {
	rpc := stub.NewRPCClient()
	seedCreator(rpc, "MintA", onCurveWallet)

	checker := NewReputationChecker(rpc, &fixedIndex{err: errors.New("index down")}, zerolog.Nop())
	got := checker.Check(context.Background(), "MintA")
	require.NotNil(t, got)
	require.Equal(t, domain.ReputationNew, got.Tier)
	require.Equal(t, 50, got.Score)
}

func TestReputationChecker_UnresolvableCreator(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.Errs["GetSignaturesForAddress"] = errors.New("rpc down")

	checker := NewReputationChecker(rpc, &fixedIndex{}, zerolog.Nop())
	require.Nil(t, checker.Check(context.Background(), "MintA"))
}

func TestReputationTiers(t *testing.T) {
	tests := []struct {
		launches int
		want     domain.ReputationTier
	}{
		{0, domain.ReputationNew},
		{1, domain.ReputationLow},
		{2, domain.ReputationMedium},
		{5, domain.ReputationMedium},
		{6, domain.ReputationHigh},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, reputationTier(tt.launches))
	}
}

func TestIsOnCurve(t *testing.T) {
	require.True(t, isOnCurve(onCurveWallet))
	require.False(t, isOnCurve("not-base58-0OIl"))
	require.False(t, isOnCurve("abc")) // too short after decode
}

func TestHTTPAssetIndex_CountsTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v0/addresses/Creator1/tokens", r.URL.Path)
		w.Write([]byte(`[{"mint":"M1"},{"mint":"M2"},{"mint":"M3"}]`))
	}))
	defer server.Close()

	index := NewHTTPAssetIndex(server.URL)
	n, err := index.PriorLaunches(context.Background(), "Creator1")
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestHTTPAssetIndex_ErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	index := NewHTTPAssetIndex(server.URL)
	_, err := index.PriorLaunches(context.Background(), "Creator1")
	require.Error(t, err)
}
