package memory

import (
	"context"
	"sort"
	"sync"

	"solana-token-sentinel/internal/domain"
	"solana-token-sentinel/internal/storage"
)

// AlertStore is an in-memory implementation of storage.AlertStore.
type AlertStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Alert // keyed by mint
}

// NewAlertStore creates a new in-memory alert store.
func NewAlertStore() *AlertStore {
	return &AlertStore{
		data: make(map[string]*domain.Alert),
	}
}

// Upsert inserts or replaces the alert for its token's mint.
func (s *AlertStore) Upsert(_ context.Context, a *domain.Alert) error {
	if a == nil || a.Token.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to prevent external mutation
	alertCopy := *a
	s.data[a.Token.Mint] = &alertCopy
	return nil
}

// GetByMint retrieves the latest alert for a mint. Returns ErrNotFound if none.
func (s *AlertStore) GetByMint(_ context.Context, mint string) (*domain.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.data[mint]
	if !exists {
		return nil, storage.ErrNotFound
	}

	alertCopy := *a
	return &alertCopy, nil
}

// ListRecent retrieves up to limit alerts ordered by timestamp DESC.
func (s *AlertStore) ListRecent(_ context.Context, limit int) ([]*domain.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Alert, 0, len(s.data))
	for _, a := range s.data {
		alertCopy := *a
		result = append(result, &alertCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})

	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.AlertStore = (*AlertStore)(nil)
