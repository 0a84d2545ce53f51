package memory

import (
	"context"
	"sync"

	"github.com/optima-platform/ledger/internal/models"
)

// IdempotencyStore keeps replayable responses for the process lifetime
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]models.IdempotencyKey
}

// NewIdempotencyStore creates an empty IdempotencyStore
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{entries: make(map[string]models.IdempotencyKey)}
}

func (s *IdempotencyStore) Get(_ context.Context, key, requestPath string) (*models.IdempotencyKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[requestPath+":"+key]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Store keeps the first response saved for a key
func (s *IdempotencyStore) Store(_ context.Context, idemKey *models.IdempotencyKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := idemKey.RequestPath + ":" + idemKey.Key
	if _, exists := s.entries[k]; !exists {
		s.entries[k] = *idemKey
	}
	return nil
}
