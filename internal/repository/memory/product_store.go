package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/domain"
)

type movementKey struct {
	attemptID uuid.UUID
	productID uuid.UUID
	kind      domain.StockMovementKind
}

// ProductStore implements port.ProductRepository with in-memory storage.
// Stock checks and updates happen under one lock, so decrements never oversell.
type ProductStore struct {
	mu        sync.RWMutex
	products  map[uuid.UUID]domain.Product
	movements map[movementKey]int
}

func NewProductStore(products ...domain.Product) *ProductStore {
	s := &ProductStore{
		products:  make(map[uuid.UUID]domain.Product, len(products)),
		movements: make(map[movementKey]int),
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *ProductStore) GetProduct(_ context.Context, id uuid.UUID) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product[%s]: %w", id, domain.ErrProductNotFound)
	}
	return p, nil
}

func (s *ProductStore) DecrementStock(ctx context.Context, attemptID, productID uuid.UUID, quantity int) (int, error) {
	if quantity < 1 {
		return 0, fmt.Errorf("quantity[%d] must be positive", quantity)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return 0, fmt.Errorf("product[%s]: %w", productID, domain.ErrProductNotFound)
	}
	if p.Stock < quantity {
		return 0, fmt.Errorf("product[%s]: %w", productID, domain.ErrInsufficientStock)
	}

	key := movementKey{attemptID: attemptID, productID: productID, kind: domain.MovementCheckout}
	if _, done := s.movements[key]; done {
		return 0, fmt.Errorf("attempt[%s] already decremented product[%s]", attemptID, productID)
	}

	p.Stock -= quantity
	p.UpdatedAt = time.Now().UTC()
	s.products[productID] = p
	s.movements[key] = quantity

	return p.Stock, nil
}

func (s *ProductStore) IncrementStock(_ context.Context, attemptID, productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity[%d] must be positive", quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return fmt.Errorf("product[%s]: %w", productID, domain.ErrProductNotFound)
	}

	taken := movementKey{attemptID: attemptID, productID: productID, kind: domain.MovementCheckout}
	if _, ok := s.movements[taken]; !ok {
		return nil
	}

	key := movementKey{attemptID: attemptID, productID: productID, kind: domain.MovementCompensation}
	if _, done := s.movements[key]; done {
		return nil
	}

	p.Stock += quantity
	p.UpdatedAt = time.Now().UTC()
	s.products[productID] = p
	s.movements[key] = quantity

	return nil
}

func (s *ProductStore) CreateProduct(_ context.Context, p domain.Product) (domain.Product, error) {
	if p.Stock < 0 {
		return domain.Product{}, fmt.Errorf("stock[%d] is negative", p.Stock)
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; exists {
		return domain.Product{}, fmt.Errorf("product[%s] already exists", p.ID)
	}
	s.products[p.ID] = p

	return p, nil
}

func (s *ProductStore) ListActiveProducts(_ context.Context) ([]domain.Product, error) {
	return s.filter(domain.Product.Available, func(a, b domain.Product) int {
		return strings.Compare(a.Name, b.Name)
	}), nil
}

func (s *ProductStore) ListLowStock(_ context.Context, threshold int) ([]domain.Product, error) {
	return s.filter(func(p domain.Product) bool {
		return p.Stock < threshold
	}, func(a, b domain.Product) int {
		if a.Stock != b.Stock {
			return a.Stock - b.Stock
		}
		return strings.Compare(a.Name, b.Name)
	}), nil
}

func (s *ProductStore) filter(keep func(domain.Product) bool, order func(a, b domain.Product) int) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if keep(p) {
			result = append(result, p)
		}
	}
	slices.SortFunc(result, order)

	return result
}
