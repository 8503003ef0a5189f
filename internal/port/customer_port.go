package port

import (
	"context"

	"github.com/nikolayk812/foodcart/internal/domain"
)

type CustomerRepository interface {
	GetCustomerByEmail(ctx context.Context, email string) (domain.Customer, error)
	CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error)
}
