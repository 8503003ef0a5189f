package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/nikolayk812/foodcart/internal/domain"
)

// CartStore implements port.CartStore for single-process deployments and tests.
type CartStore struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]domain.Cart)}
}

func (s *CartStore) Get(_ context.Context, id string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[id]
	if !ok {
		return domain.NewCart(id), nil
	}
	cart.Lines = slices.Clone(cart.Lines)

	return &cart, nil
}

func (s *CartStore) Save(_ context.Context, cart *domain.Cart) error {
	stored := *cart
	stored.Lines = slices.Clone(cart.Lines)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[cart.ID] = stored
	return nil
}

func (s *CartStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, id)
	return nil
}
