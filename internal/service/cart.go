package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/nikolayk812/foodcart/internal/port"
)

// CartService applies cart mutations against current product data and keeps
// the result in the session cart store.
type CartService struct {
	products port.ProductRepository
	carts    port.CartStore
	logger   *slog.Logger
}

func NewCartService(products port.ProductRepository, carts port.CartStore, logger *slog.Logger) *CartService {
	return &CartService{
		products: products,
		carts:    carts,
		logger:   logger,
	}
}

func (s *CartService) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("carts.Get: %w", err)
	}
	return cart, nil
}

// AddItem adds quantity units of a product. A non-positive quantity adds one unit.
func (s *CartService) AddItem(ctx context.Context, cartID string, productID uuid.UUID, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		quantity = 1
	}

	return s.mutate(ctx, cartID, productID, s.currentProduct, func(cart *domain.Cart, p domain.Product) error {
		return cart.AddItem(p, quantity)
	})
}

// UpdateQuantity moves a line by one unit. Decrementing still works once the
// product has left the catalog, using the line's own snapshot.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID string, productID uuid.UUID, delta domain.QuantityDelta) (*domain.Cart, error) {
	lookup := s.currentProduct
	if delta == domain.QuantityDecrement {
		lookup = s.currentOrSnapshot
	}

	return s.mutate(ctx, cartID, productID, lookup, func(cart *domain.Cart, p domain.Product) error {
		return cart.UpdateQuantity(p, delta)
	})
}

func (s *CartService) RemoveItem(ctx context.Context, cartID string, productID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("carts.Get: %w", err)
	}

	cart.RemoveItem(productID)

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) ClearCart(ctx context.Context, cartID string) error {
	if err := s.carts.Delete(ctx, cartID); err != nil {
		return fmt.Errorf("carts.Delete: %w", err)
	}
	return nil
}

type productLookup func(ctx context.Context, cart *domain.Cart, productID uuid.UUID) (domain.Product, error)

func (s *CartService) currentProduct(ctx context.Context, _ *domain.Cart, productID uuid.UUID) (domain.Product, error) {
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.GetProduct: %w", err)
	}
	return p, nil
}

func (s *CartService) currentOrSnapshot(ctx context.Context, cart *domain.Cart, productID uuid.UUID) (domain.Product, error) {
	p, err := s.currentProduct(ctx, cart, productID)
	if !errors.Is(err, domain.ErrProductNotFound) {
		return p, err
	}

	line, ok := cart.Line(productID)
	if !ok {
		return domain.Product{}, err
	}
	return line.SnapshotProduct(), nil
}

func (s *CartService) mutate(ctx context.Context, cartID string, productID uuid.UUID, lookup productLookup, apply func(*domain.Cart, domain.Product) error) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("carts.Get: %w", err)
	}

	p, err := lookup(ctx, cart, productID)
	if err != nil {
		return nil, err
	}

	if err := apply(cart, p); err != nil {
		s.logger.DebugContext(ctx, "cart mutation rejected",
			slog.String("cart_id", cartID),
			slog.String("product_id", productID.String()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// persist drops empty carts from the store instead of keeping them around.
func (s *CartService) persist(ctx context.Context, cart *domain.Cart) error {
	if cart.IsEmpty() {
		if err := s.carts.Delete(ctx, cart.ID); err != nil {
			return fmt.Errorf("carts.Delete: %w", err)
		}
		return nil
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return fmt.Errorf("carts.Save: %w", err)
	}
	return nil
}
