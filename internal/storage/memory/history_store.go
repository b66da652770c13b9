package memory

import (
	"context"
	"sort"
	"sync"

	"solana-token-sentinel/internal/storage"
)

// HistoryStore is an in-memory implementation of storage.HistoryStore.
type HistoryStore struct {
	mu   sync.RWMutex
	data []*storage.ValidationRecord
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Append adds one validation record.
func (s *HistoryStore) Append(_ context.Context, rec *storage.ValidationRecord) error {
	if rec == nil || rec.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recCopy := *rec
	s.data = append(s.data, &recCopy)
	return nil
}

// GetByMint retrieves all records for a mint, ordered by created_at ASC.
func (s *HistoryStore) GetByMint(_ context.Context, mint string) ([]*storage.ValidationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*storage.ValidationRecord
	for _, rec := range s.data {
		if rec.Mint == mint {
			recCopy := *rec
			result = append(result, &recCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.HistoryStore = (*HistoryStore)(nil)
