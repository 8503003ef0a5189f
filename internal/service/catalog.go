package service

import (
	"context"
	"fmt"

	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/nikolayk812/foodcart/internal/policy"
	"github.com/nikolayk812/foodcart/internal/port"
)

type CatalogService struct {
	products          port.ProductRepository
	lowStockThreshold int
}

func NewCatalogService(products port.ProductRepository, lowStockThreshold int) *CatalogService {
	return &CatalogService{
		products:          products,
		lowStockThreshold: lowStockThreshold,
	}
}

// ListProducts returns products that are active and in stock.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.ListActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("products.ListActiveProducts: %w", err)
	}
	return products, nil
}

// LowStock lists products below the low stock threshold for catalog managers.
func (s *CatalogService) LowStock(ctx context.Context, viewer Viewer) ([]domain.Product, error) {
	if !policy.Can(viewer.Role, policy.ManageCatalog) {
		return nil, domain.ErrForbidden
	}

	products, err := s.products.ListLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("products.ListLowStock: %w", err)
	}
	return products, nil
}
