package clickhouse

import (
	"context"
	"fmt"
	"time"

	"solana-token-sentinel/internal/storage"
)

// HistoryStore implements storage.HistoryStore using ClickHouse.
// Validation outcomes are append-only; MergeTree suits the write-heavy,
// analyze-later access pattern.
type HistoryStore struct {
	conn *Conn
}

// NewHistoryStore creates a new HistoryStore.
func NewHistoryStore(conn *Conn) *HistoryStore {
	return &HistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.HistoryStore = (*HistoryStore)(nil)

// Append adds one validation record.
func (s *HistoryStore) Append(ctx context.Context, rec *storage.ValidationRecord) error {
	if rec == nil || rec.Mint == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO validation_history (
			mint, symbol, composite_score, contract_score, is_valid, tier_reached, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		rec.Mint,
		rec.Symbol,
		int32(rec.CompositeScore),
		int32(rec.ContractScore),
		rec.IsValid,
		int8(rec.TierReached),
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append validation record: %w", err)
	}
	return nil
}

// GetByMint retrieves all records for a mint, ordered by created_at ASC.
func (s *HistoryStore) GetByMint(ctx context.Context, mint string) ([]*storage.ValidationRecord, error) {
	query := `
		SELECT mint, symbol, composite_score, contract_score, is_valid, tier_reached, created_at
		FROM validation_history
		WHERE mint = ?
		ORDER BY created_at ASC
	`

	rows, err := s.conn.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("query validation history: %w", err)
	}
	defer rows.Close()

	var result []*storage.ValidationRecord
	for rows.Next() {
		var (
			rec         storage.ValidationRecord
			composite   int32
			contract    int32
			tierReached int8
			createdAt   time.Time
		)
		if err := rows.Scan(&rec.Mint, &rec.Symbol, &composite, &contract, &rec.IsValid, &tierReached, &createdAt); err != nil {
			return nil, fmt.Errorf("scan validation record: %w", err)
		}
		rec.CompositeScore = int(composite)
		rec.ContractScore = int(contract)
		rec.TierReached = int(tierReached)
		rec.CreatedAt = createdAt
		result = append(result, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate validation history: %w", err)
	}
	return result, nil
}
