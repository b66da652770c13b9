package safety

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSellSimulator_RouteExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "MintA", r.URL.Query().Get("inputMint"))
		require.Equal(t, wrappedSolMint, r.URL.Query().Get("outputMint"))
		w.Write([]byte(`{"outAmount":"42000","priceImpactPct":"0.13","routePlan":[{"swapInfo":{"label":"Raydium"}}]}`))
	}))
	defer server.Close()

	sim := NewSellSimulator(server.URL, zerolog.Nop())
	got := sim.Simulate(context.Background(), "MintA")
	require.True(t, got.CanSell)
	require.InDelta(t, 0.13, got.PriceImpactPct, 0.001)
}

func TestSellSimulator_NoRouteFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"outAmount":"0","routePlan":[]}`))
	}))
	defer server.Close()

	sim := NewSellSimulator(server.URL, zerolog.Nop())
	got := sim.Simulate(context.Background(), "MintA")
	require.False(t, got.CanSell)
	require.Contains(t, got.Reason, "honeypot")
}

func TestSellSimulator_APIErrorFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	sim := NewSellSimulator(server.URL, zerolog.Nop())
	got := sim.Simulate(context.Background(), "MintA")
	require.False(t, got.CanSell)
	require.NotEmpty(t, got.Reason)
}

func TestSellSimulator_TransportErrorFailsClosed(t *testing.T) {
	sim := NewSellSimulator("http://127.0.0.1:1", zerolog.Nop())
	got := sim.Simulate(context.Background(), "MintA")
	require.False(t, got.CanSell)
	require.NotEmpty(t, got.Reason)
}
