package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/domain"
)

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order domain.Order) error
	PublishStockLow(ctx context.Context, productID uuid.UUID, remaining int) error
}
