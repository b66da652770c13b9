package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"solana-token-sentinel/internal/domain"
	"solana-token-sentinel/internal/storage"
	"solana-token-sentinel/internal/storage/postgres"
)

func testAlert(mint, id string, ts time.Time) *domain.Alert {
	return &domain.Alert{
		ID:        id,
		Timestamp: ts,
		Token: domain.TokenCandidate{
			Mint:         mint,
			Symbol:       "ALPHA",
			Name:         "Alpha Token",
			LiquidityUSD: 60000,
		},
		Checks: domain.ValidationChecks{
			Narrative: true, Attention: true, Liquidity: true,
			OrganicVolume: true, Contract: true, Holders: true, SellTest: true,
		},
		IsValid:         true,
		Passed:          7,
		Total:           7,
		Setup:           domain.SetupPullback,
		ContractScore:   85,
		CompositeScore:  78,
		TierReached:     3,
		Recommendations: []string{"buy signal (78/100)"},
		Risks:           []string{},
	}
}

func TestAlertStore_UpsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewAlertStore(pool)
	ctx := context.Background()
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	alert := testAlert("MintA", "alert-1", ts)
	require.NoError(t, store.Upsert(ctx, alert))

	got, err := store.GetByMint(ctx, "MintA")
	require.NoError(t, err)
	require.Equal(t, "alert-1", got.ID)
	require.Equal(t, "ALPHA", got.Token.Symbol)
	require.Equal(t, 78, got.CompositeScore)
	require.Equal(t, 3, got.TierReached)
	require.True(t, got.Timestamp.Equal(ts))
	require.True(t, got.Checks.Contract)
}

func TestAlertStore_UpsertReplacesByMint(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewAlertStore(pool)
	ctx := context.Background()
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Upsert(ctx, testAlert("MintA", "alert-1", ts)))

	second := testAlert("MintA", "alert-2", ts.Add(5*time.Minute))
	second.CompositeScore = 64
	require.NoError(t, store.Upsert(ctx, second))

	got, err := store.GetByMint(ctx, "MintA")
	require.NoError(t, err)
	require.Equal(t, "alert-2", got.ID)
	require.Equal(t, 64, got.CompositeScore)

	recent, err := store.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1, "one row per mint")
}

func TestAlertStore_ListRecentOrdering(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewAlertStore(pool)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Upsert(ctx, testAlert("MintA", "alert-a", base)))
	require.NoError(t, store.Upsert(ctx, testAlert("MintB", "alert-b", base.Add(time.Hour))))
	require.NoError(t, store.Upsert(ctx, testAlert("MintC", "alert-c", base.Add(2*time.Hour))))

	recent, err := store.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "alert-c", recent[0].ID)
	require.Equal(t, "alert-b", recent[1].ID)
}

func TestAlertStore_GetByMintNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewAlertStore(pool)
	_, err := store.GetByMint(context.Background(), "Unknown")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAlertStore_RejectsInvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewAlertStore(pool)
	require.ErrorIs(t, store.Upsert(context.Background(), nil), storage.ErrInvalidInput)
	require.ErrorIs(t, store.Upsert(context.Background(), &domain.Alert{}), storage.ErrInvalidInput)
}
