package storage

import (
	"context"
	"time"

	"solana-token-sentinel/internal/domain"
)

// AlertStore provides persistence for valid alerts, keyed by mint.
// The latest validation for a mint replaces any prior record.
type AlertStore interface {
	// Upsert inserts or replaces the alert for its token's mint.
	Upsert(ctx context.Context, a *domain.Alert) error

	// GetByMint retrieves the latest alert for a mint. Returns ErrNotFound if none.
	GetByMint(ctx context.Context, mint string) (*domain.Alert, error)

	// ListRecent retrieves up to limit alerts ordered by timestamp DESC.
	ListRecent(ctx context.Context, limit int) ([]*domain.Alert, error)
}

// LiquidityReading is the rolling single-sample observation the
// stability check compares against.
type LiquidityReading struct {
	LiquidityUSD float64
	ObservedAt   time.Time
}

// StateStore provides the small per-key rolling state used by the
// liquidity-stability and market-context checks. Single-key upserts,
// no transactions; callers adding cross-token parallelism must add
// per-mint serialization.
type StateStore interface {
	// GetLiquidityReading returns the last stored reading for a mint.
	// Returns ErrNotFound if no reading has been stored yet.
	GetLiquidityReading(ctx context.Context, mint string) (*LiquidityReading, error)

	// SetLiquidityReading overwrites the stored reading for a mint.
	SetLiquidityReading(ctx context.Context, mint string, r *LiquidityReading) error

	// GetPriceWindow returns the rolling price-sample window for a key.
	// Returns ErrNotFound if no window has been stored yet.
	GetPriceWindow(ctx context.Context, key string) ([]float64, error)

	// SetPriceWindow overwrites the rolling price-sample window for a key.
	SetPriceWindow(ctx context.Context, key string, samples []float64) error
}

// ValidationRecord is one appended validation outcome, kept for
// offline analysis of scoring behavior over time.
type ValidationRecord struct {
	Mint           string
	Symbol         string
	CompositeScore int
	ContractScore  int
	IsValid        bool
	TierReached    int
	CreatedAt      time.Time
}

// HistoryStore provides append-only storage of validation outcomes.
type HistoryStore interface {
	// Append adds one validation record.
	Append(ctx context.Context, rec *ValidationRecord) error

	// GetByMint retrieves all records for a mint, ordered by created_at ASC.
	GetByMint(ctx context.Context, mint string) ([]*ValidationRecord, error)
}
