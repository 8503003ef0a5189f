package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to domain.CheckoutState
		want     bool
	}{
		{domain.CheckoutStarted, domain.CheckoutDecrementing, true},
		{domain.CheckoutDecrementing, domain.CheckoutCommitting, true},
		{domain.CheckoutCommitting, domain.CheckoutCommitted, true},
		{domain.CheckoutStarted, domain.CheckoutCommitting, false},
		{domain.CheckoutStarted, domain.CheckoutCommitted, false},
		{domain.CheckoutDecrementing, domain.CheckoutStarted, false},
		{domain.CheckoutStarted, domain.CheckoutAbortedEmpty, true},
		{domain.CheckoutStarted, domain.CheckoutAbortedUnknownCustomer, true},
		{domain.CheckoutDecrementing, domain.CheckoutAbortedStock, true},
		{domain.CheckoutCommitting, domain.CheckoutAbortedPersistence, true},
		{domain.CheckoutCommitted, domain.CheckoutAbortedPersistence, false},
		{domain.CheckoutAbortedStock, domain.CheckoutStarted, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s to %s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestCheckoutStateOf(t *testing.T) {
	err := fmt.Errorf("handler: %w", &domain.CheckoutError{
		State:     domain.CheckoutAbortedStock,
		AttemptID: uuid.New(),
		Err:       domain.ErrInsufficientStock,
	})

	assert.Equal(t, domain.CheckoutAbortedStock, domain.CheckoutStateOf(err))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, domain.CheckoutState(""), domain.CheckoutStateOf(errors.New("other")))
}
