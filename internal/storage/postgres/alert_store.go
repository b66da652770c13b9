package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"solana-token-sentinel/internal/domain"
	"solana-token-sentinel/internal/storage"
)

// AlertStore implements storage.AlertStore using PostgreSQL.
// The full alert is kept as a JSONB payload; scalar columns are
// duplicated for querying and ordering.
type AlertStore struct {
	pool *Pool
}

// NewAlertStore creates a new AlertStore.
func NewAlertStore(pool *Pool) *AlertStore {
	return &AlertStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AlertStore = (*AlertStore)(nil)

// Upsert inserts or replaces the alert for its token's mint.
func (s *AlertStore) Upsert(ctx context.Context, a *domain.Alert) error {
	if a == nil || a.Token.Mint == "" {
		return storage.ErrInvalidInput
	}

	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	query := `
		INSERT INTO alerts (
			mint, alert_id, created_at, is_valid, composite_score, contract_score, tier_reached, setup, payload
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (mint) DO UPDATE SET
			alert_id = EXCLUDED.alert_id,
			created_at = EXCLUDED.created_at,
			is_valid = EXCLUDED.is_valid,
			composite_score = EXCLUDED.composite_score,
			contract_score = EXCLUDED.contract_score,
			tier_reached = EXCLUDED.tier_reached,
			setup = EXCLUDED.setup,
			payload = EXCLUDED.payload
	`

	_, err = s.pool.Exec(ctx, query,
		a.Token.Mint,
		a.ID,
		a.Timestamp,
		a.IsValid,
		a.CompositeScore,
		a.ContractScore,
		a.TierReached,
		string(a.Setup),
		payload,
	)
	if err != nil {
		return fmt.Errorf("upsert alert: %w", err)
	}
	return nil
}

// GetByMint retrieves the latest alert for a mint. Returns ErrNotFound if none.
func (s *AlertStore) GetByMint(ctx context.Context, mint string) (*domain.Alert, error) {
	query := `SELECT payload FROM alerts WHERE mint = $1`

	var payload []byte
	if err := s.pool.QueryRow(ctx, query, mint).Scan(&payload); err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get alert by mint: %w", err)
	}

	return unmarshalAlert(payload)
}

// ListRecent retrieves up to limit alerts ordered by timestamp DESC.
func (s *AlertStore) ListRecent(ctx context.Context, limit int) ([]*domain.Alert, error) {
	query := `SELECT payload FROM alerts ORDER BY created_at DESC LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent alerts: %w", err)
	}
	defer rows.Close()

	var result []*domain.Alert
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan alert payload: %w", err)
		}
		a, err := unmarshalAlert(payload)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return result, nil
}

func unmarshalAlert(payload []byte) (*domain.Alert, error) {
	var a domain.Alert
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("unmarshal alert: %w", err)
	}
	// Normalize to UTC; pgx returns timestamps in session location.
	a.Timestamp = a.Timestamp.In(time.UTC)
	return &a, nil
}
