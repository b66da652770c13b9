package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"solana-token-sentinel/internal/storage"
)

// Key layout. Readings expire so a mint that stops trading does not
// pin stale state forever.
const (
	liquidityKeyPrefix = "sentinel:liquidity:"
	priceWindowPrefix  = "sentinel:pricewindow:"

	readingTTL = 24 * time.Hour
)

// StateStore is a Redis-backed implementation of storage.StateStore.
type StateStore struct {
	client *redis.Client
}

// NewStateStore creates a new Redis state store.
func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

// NewClient creates a redis client from an address like "localhost:6379".
func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// storedReading is the JSON shape kept under the liquidity key.
type storedReading struct {
	LiquidityUSD float64 `json:"liquidityUsd"`
	ObservedAtMs int64   `json:"observedAtMs"`
}

// GetLiquidityReading returns the last stored reading for a mint.
func (s *StateStore) GetLiquidityReading(ctx context.Context, mint string) (*storage.LiquidityReading, error) {
	data, err := s.client.Get(ctx, liquidityKeyPrefix+mint).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get liquidity reading: %w", err)
	}

	var sr storedReading
	if err := json.Unmarshal(data, &sr); err != nil {
		return nil, fmt.Errorf("unmarshal liquidity reading: %w", err)
	}
	return &storage.LiquidityReading{
		LiquidityUSD: sr.LiquidityUSD,
		ObservedAt:   time.UnixMilli(sr.ObservedAtMs).UTC(),
	}, nil
}

// SetLiquidityReading overwrites the stored reading for a mint.
func (s *StateStore) SetLiquidityReading(ctx context.Context, mint string, r *storage.LiquidityReading) error {
	if mint == "" || r == nil {
		return storage.ErrInvalidInput
	}

	data, err := json.Marshal(storedReading{
		LiquidityUSD: r.LiquidityUSD,
		ObservedAtMs: r.ObservedAt.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("marshal liquidity reading: %w", err)
	}

	if err := s.client.Set(ctx, liquidityKeyPrefix+mint, data, readingTTL).Err(); err != nil {
		return fmt.Errorf("set liquidity reading: %w", err)
	}
	return nil
}

// GetPriceWindow returns the rolling price-sample window for a key.
func (s *StateStore) GetPriceWindow(ctx context.Context, key string) ([]float64, error) {
	data, err := s.client.Get(ctx, priceWindowPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get price window: %w", err)
	}

	var samples []float64
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("unmarshal price window: %w", err)
	}
	return samples, nil
}

// SetPriceWindow overwrites the rolling price-sample window for a key.
func (s *StateStore) SetPriceWindow(ctx context.Context, key string, samples []float64) error {
	if key == "" {
		return storage.ErrInvalidInput
	}

	data, err := json.Marshal(samples)
	if err != nil {
		return fmt.Errorf("marshal price window: %w", err)
	}

	if err := s.client.Set(ctx, priceWindowPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("set price window: %w", err)
	}
	return nil
}

// Verify interface compliance at compile time.
var _ storage.StateStore = (*StateStore)(nil)
