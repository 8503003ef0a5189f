package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/nikolayk812/foodcart/internal/policy"
	"github.com/nikolayk812/foodcart/internal/port"
)

// Viewer is the authenticated caller as reported by the identity provider.
type Viewer struct {
	Email string
	Role  domain.Role
}

// OrderService serves order history. Customers see their own orders; roles
// holding policy.ReadAllOrders see every order.
type OrderService struct {
	orders    port.OrderRepository
	customers port.CustomerRepository
}

func NewOrderService(orders port.OrderRepository, customers port.CustomerRepository) *OrderService {
	return &OrderService{
		orders:    orders,
		customers: customers,
	}
}

func (s *OrderService) ListOrders(ctx context.Context, viewer Viewer) ([]domain.Order, error) {
	if policy.Can(viewer.Role, policy.ReadAllOrders) {
		orders, err := s.orders.ListOrders(ctx)
		if err != nil {
			return nil, fmt.Errorf("orders.ListOrders: %w", err)
		}
		return orders, nil
	}

	if !policy.Can(viewer.Role, policy.ReadOwnOrders) {
		return nil, domain.ErrForbidden
	}

	customer, err := s.customers.GetCustomerByEmail(ctx, viewer.Email)
	if err != nil {
		return nil, fmt.Errorf("customers.GetCustomerByEmail: %w", err)
	}

	orders, err := s.orders.ListOrdersByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("orders.ListOrdersByCustomer: %w", err)
	}
	return orders, nil
}

// GetOrder returns ErrOrderNotFound for orders the viewer may not read, so
// other customers' order IDs cannot be probed.
func (s *OrderService) GetOrder(ctx context.Context, viewer Viewer, id uuid.UUID) (domain.Order, error) {
	if !policy.Can(viewer.Role, policy.ReadOwnOrders) {
		return domain.Order{}, domain.ErrForbidden
	}

	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", err)
	}

	if policy.Can(viewer.Role, policy.ReadAllOrders) || order.CustomerEmail == viewer.Email {
		return order, nil
	}
	return domain.Order{}, fmt.Errorf("order[%s]: %w", id, domain.ErrOrderNotFound)
}
