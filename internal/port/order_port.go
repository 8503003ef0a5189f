package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/domain"
)

type OrderRepository interface {
	// SaveOrder persists the header and all lines, or nothing.
	SaveOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error)
}
