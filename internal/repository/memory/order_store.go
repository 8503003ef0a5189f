package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/domain"
)

// OrderStore implements port.OrderRepository with in-memory storage.
type OrderStore struct {
	mu       sync.RWMutex
	orders   map[uuid.UUID]domain.Order
	attempts map[uuid.UUID]uuid.UUID // attemptID -> orderID
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders:   make(map[uuid.UUID]domain.Order),
		attempts: make(map[uuid.UUID]uuid.UUID),
	}
}

func (s *OrderStore) SaveOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	if err := order.Validate(); err != nil {
		return domain.Order{}, fmt.Errorf("order.Validate: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return domain.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return domain.Order{}, fmt.Errorf("order[%s] already exists", order.ID)
	}
	if _, exists := s.attempts[order.AttemptID]; exists {
		return domain.Order{}, fmt.Errorf("attempt[%s] already has an order", order.AttemptID)
	}

	order.Lines = slices.Clone(order.Lines)
	s.orders[order.ID] = order
	s.attempts[order.AttemptID] = order.ID

	return order, nil
}

func (s *OrderStore) GetOrder(_ context.Context, id uuid.UUID) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, fmt.Errorf("order[%s]: %w", id, domain.ErrOrderNotFound)
	}
	order.Lines = slices.Clone(order.Lines)

	return order, nil
}

func (s *OrderStore) ListOrders(_ context.Context) ([]domain.Order, error) {
	return s.list(func(domain.Order) bool { return true }), nil
}

func (s *OrderStore) ListOrdersByCustomer(_ context.Context, customerID uuid.UUID) ([]domain.Order, error) {
	return s.list(func(o domain.Order) bool { return o.CustomerID == customerID }), nil
}

// list returns matching orders newest first.
func (s *OrderStore) list(keep func(domain.Order) bool) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if keep(o) {
			o.Lines = slices.Clone(o.Lines)
			result = append(result, o)
		}
	}
	slices.SortFunc(result, func(a, b domain.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	return result
}
