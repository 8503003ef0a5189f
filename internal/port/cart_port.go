package port

import (
	"context"

	"github.com/nikolayk812/foodcart/internal/domain"
)

// CartStore keeps session carts between requests.
type CartStore interface {
	// Get returns the cart for id, or a new empty cart if none is stored.
	Get(ctx context.Context, id string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, id string) error
}
