package safety

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestContractChecker_VerifiedToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/tokens/MintA/report", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"verified":true,"score":85,"risks":[]}`))
	}))
	defer server.Close()

	checker := NewContractChecker(server.URL, zerolog.Nop())
	got := checker.Check(context.Background(), "MintA")
	require.True(t, got.Verified)
	require.Equal(t, 85, got.Score)
	require.Empty(t, got.Risks)
}

func TestContractChecker_RisksMapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"verified":false,"score":20,"risks":[
			{"name":"mutable metadata","description":"token metadata can be changed"},
			{"name":"low liquidity"}
		]}`))
	}))
	defer server.Close()

	checker := NewContractChecker(server.URL, zerolog.Nop())
	got := checker.Check(context.Background(), "MintA")
	require.False(t, got.Verified)
	require.Equal(t, []string{
		"mutable metadata: token metadata can be changed",
		"low liquidity",
	}, got.Risks)
}

func TestContractChecker_FailureIsNeutral(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	checker := NewContractChecker(server.URL, zerolog.Nop())
	got := checker.Check(context.Background(), "MintA")
	require.False(t, got.Verified)
	require.Equal(t, 50, got.Score, "outages score neutral, not zero")
	require.Len(t, got.Risks, 1)
}

func TestContractChecker_MalformedResponseIsNeutral(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	checker := NewContractChecker(server.URL, zerolog.Nop())
	got := checker.Check(context.Background(), "MintA")
	require.False(t, got.Verified)
	require.Equal(t, 50, got.Score)
}

func TestContractChecker_ScoreClamped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"verified":true,"score":250}`))
	}))
	defer server.Close()

	checker := NewContractChecker(server.URL, zerolog.Nop())
	got := checker.Check(context.Background(), "MintA")
	require.Equal(t, 100, got.Score)
}
