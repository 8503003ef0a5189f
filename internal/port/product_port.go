package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/domain"
)

// ProductRepository is the product store. Stock mutations are keyed by the
// checkout attempt that performs them.
type ProductRepository interface {
	GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error)

	// DecrementStock atomically removes quantity units if at least that many are
	// available and returns the remaining stock. It fails with
	// domain.ErrInsufficientStock or domain.ErrProductNotFound without side effects.
	DecrementStock(ctx context.Context, attemptID, productID uuid.UUID, quantity int) (int, error)

	// IncrementStock gives back units taken by attemptID. Repeated calls for the
	// same attempt and product credit the stock once, and a product the attempt
	// never decremented is left unchanged.
	IncrementStock(ctx context.Context, attemptID, productID uuid.UUID, quantity int) error

	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	ListActiveProducts(ctx context.Context) ([]domain.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]domain.Product, error)
}
