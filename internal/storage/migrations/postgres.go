package migrations

import (
	"context"
	"fmt"

	"solana-token-sentinel/internal/storage/postgres"
)

// RunPostgresMigrations creates the alerts table and its indexes.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) error {
	if _, err := pool.Exec(ctx, alertsSchema); err != nil {
		return fmt.Errorf("apply alerts schema: %w", err)
	}
	return nil
}
