package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	a, b := product("2.50", 10), product("4.00", 10)
	cart := domain.NewCart("session-1")
	require.NoError(t, cart.AddItem(a, 3))
	require.NoError(t, cart.AddItem(b, 2))

	customer := domain.Customer{ID: uuid.New(), Email: "ana@example.com", Role: domain.RoleCustomer}
	orderID, attemptID := uuid.New(), uuid.New()
	now := time.Now().UTC()

	order, err := domain.NewOrder(orderID, attemptID, customer, domain.PaymentCash, cart.Snapshot(), now)
	require.NoError(t, err)

	assert.Equal(t, orderID, order.ID)
	assert.Equal(t, attemptID, order.AttemptID)
	assert.Equal(t, customer.ID, order.CustomerID)
	assert.Equal(t, customer.Email, order.CustomerEmail)
	assert.Equal(t, domain.PaymentCash, order.PaymentMethod)
	assert.True(t, usd("15.50").Equal(order.Total), "got %s", order.Total)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, a.ID, order.Lines[0].ProductID)
	assert.Equal(t, 3, order.Lines[0].Quantity)
}

func TestNewOrder_EmptySnapshot(t *testing.T) {
	_, err := domain.NewOrder(uuid.New(), uuid.New(), domain.Customer{}, domain.PaymentCash, domain.NewCart("s").Snapshot(), time.Now())
	require.ErrorIs(t, err, domain.ErrOrderInvalid)
}

func TestOrder_Validate(t *testing.T) {
	line := domain.OrderLine{ProductID: uuid.New(), Quantity: 2, UnitPrice: usd("1.50"), Subtotal: usd("3.00")}

	tests := []struct {
		name    string
		order   domain.Order
		wantErr bool
	}{
		{
			name:  "consistent",
			order: domain.Order{Total: usd("3.00"), Lines: []domain.OrderLine{line}},
		},
		{
			name:    "total does not match lines",
			order:   domain.Order{Total: usd("4.00"), Lines: []domain.OrderLine{line}},
			wantErr: true,
		},
		{
			name: "subtotal does not match price times quantity",
			order: domain.Order{Total: usd("2.00"), Lines: []domain.OrderLine{
				{ProductID: uuid.New(), Quantity: 2, UnitPrice: usd("1.50"), Subtotal: usd("2.00")},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.order.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrOrderInvalid)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := domain.ParsePaymentMethod("card")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCard, m)

	_, err = domain.ParsePaymentMethod("bitcoin")
	require.Error(t, err)
}
