// Package memory holds process-lifetime implementations of the domain
// repositories.
package memory

import (
	"context"
	"sync"

	"github.com/yunusemrekoyun/fast-food-app/internal/domain/cart"
	"github.com/yunusemrekoyun/fast-food-app/internal/domain/repository"
)

// CartStore keeps carts in a map for the lifetime of the process.
// Loaded carts are copies, so a caller mutating one does not race others.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string][]cart.LineItem
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string][]cart.LineItem)}
}

func (s *CartStore) Load(_ context.Context, userID string) (*cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &cart.Cart{Items: cloneLines(s.carts[userID])}, nil
}

func (s *CartStore) Save(_ context.Context, userID string, c *cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(c.Items) == 0 {
		delete(s.carts, userID)
		return nil
	}
	s.carts[userID] = cloneLines(c.Items)
	return nil
}

func (s *CartStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}

func cloneLines(in []cart.LineItem) []cart.LineItem {
	out := make([]cart.LineItem, len(in))
	for i, l := range in {
		out[i] = l
		if l.Customizations != nil {
			out[i].Customizations = append([]cart.Customization(nil), l.Customizations...)
		}
	}
	return out
}

var _ repository.CartRepository = (*CartStore)(nil)
