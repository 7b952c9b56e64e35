package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/ecerdem/movie-ticket-booking/internal/domain"
)

// MemoryCheckoutStore is an in-memory PendingCheckoutStore. TTLs are recorded
// but never enforced; tests that care about expiry drop the entry themselves.
type MemoryCheckoutStore struct {
	mu      sync.Mutex
	entries map[int]domain.PendingCheckout
	PutErr  error
	GetErr  error
	DelErr  error
	LastTTL time.Duration
}

func NewMemoryCheckoutStore() *MemoryCheckoutStore {
	return &MemoryCheckoutStore{entries: make(map[int]domain.PendingCheckout)}
}

func (s *MemoryCheckoutStore) Put(ctx context.Context, checkout domain.PendingCheckout, ttl time.Duration) error {
	if s.PutErr != nil {
		return s.PutErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[checkout.UserID] = checkout
	s.LastTTL = ttl
	return nil
}

func (s *MemoryCheckoutStore) Get(ctx context.Context, userID int) (*domain.PendingCheckout, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	checkout, ok := s.entries[userID]
	if !ok {
		return nil, domain.ErrNoPendingCheckout
	}
	return &checkout, nil
}

func (s *MemoryCheckoutStore) Delete(ctx context.Context, userID int) error {
	if s.DelErr != nil {
		return s.DelErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
	return nil
}

// Pending reports whether the user still has a stored checkout.
func (s *MemoryCheckoutStore) Pending(userID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[userID]
	return ok
}
