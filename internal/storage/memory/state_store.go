package memory

import (
	"context"
	"sync"

	"solana-token-sentinel/internal/storage"
)

// StateStore is an in-memory implementation of storage.StateStore.
type StateStore struct {
	mu       sync.RWMutex
	readings map[string]*storage.LiquidityReading
	windows  map[string][]float64
}

// NewStateStore creates a new in-memory state store.
func NewStateStore() *StateStore {
	return &StateStore{
		readings: make(map[string]*storage.LiquidityReading),
		windows:  make(map[string][]float64),
	}
}

// GetLiquidityReading returns the last stored reading for a mint.
func (s *StateStore) GetLiquidityReading(_ context.Context, mint string) (*storage.LiquidityReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.readings[mint]
	if !exists {
		return nil, storage.ErrNotFound
	}
	readingCopy := *r
	return &readingCopy, nil
}

// SetLiquidityReading overwrites the stored reading for a mint.
func (s *StateStore) SetLiquidityReading(_ context.Context, mint string, r *storage.LiquidityReading) error {
	if mint == "" || r == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	readingCopy := *r
	s.readings[mint] = &readingCopy
	return nil
}

// GetPriceWindow returns the rolling price-sample window for a key.
func (s *StateStore) GetPriceWindow(_ context.Context, key string) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, exists := s.windows[key]
	if !exists {
		return nil, storage.ErrNotFound
	}
	out := make([]float64, len(w))
	copy(out, w)
	return out, nil
}

// SetPriceWindow overwrites the rolling price-sample window for a key.
func (s *StateStore) SetPriceWindow(_ context.Context, key string, samples []float64) error {
	if key == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w := make([]float64, len(samples))
	copy(w, samples)
	s.windows[key] = w
	return nil
}

// Verify interface compliance at compile time.
var _ storage.StateStore = (*StateStore)(nil)
