package session

import (
	"context"
	"sync"

	"github.com/onlineshop/tvshop/internal/models"
)

// MemoryStore is a process-local Store, used in tests and single-node runs.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]models.Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]models.Cart)}
}

func (s *MemoryStore) GetCart(_ context.Context, key string) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := models.Cart{}
	for id, entry := range s.carts[key] {
		cart[id] = entry
	}
	return cart, nil
}

func (s *MemoryStore) SetCart(_ context.Context, key string, cart models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := models.Cart{}
	for id, entry := range cart {
		copied[id] = entry
	}
	s.carts[key] = copied
	return nil
}

func (s *MemoryStore) DeleteCart(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, key)
	return nil
}
