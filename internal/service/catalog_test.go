package service

import (
	"context"
	"testing"

	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/nikolayk812/foodcart/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService(t *testing.T) {
	ctx := context.Background()

	flour := newProduct("Harina 1kg", "2.50", 20)
	salt := newProduct("Sal", "0.80", 2)
	sugar := newProduct("Azucar", "1.10", 0)
	retired := newProduct("Descontinuado", "1.00", 9)
	retired.Active = false

	svc := NewCatalogService(memory.NewProductStore(flour, salt, sugar, retired), 5)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Harina 1kg", "Sal"}, names)

	low, err := svc.LowStock(ctx, Viewer{Role: domain.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, sugar.ID, low[0].ID)
	assert.Equal(t, salt.ID, low[1].ID)

	_, err = svc.LowStock(ctx, Viewer{Role: domain.RoleCustomer})
	require.ErrorIs(t, err, domain.ErrForbidden)
}
