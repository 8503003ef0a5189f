package validator_test

import (
	"testing"

	"github.com/nikolayk812/foodcart/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"gte=1,lte=99"`
	Method    string `json:"payment_method" validate:"oneof=cash card transfer"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		req        addItemRequest
		wantFields map[string]string
	}{
		{
			name: "valid",
			req:  addItemRequest{ProductID: "6f1c3c1e-4c43-4a57-9c55-2f1d3c7b1a10", Quantity: 2, Method: "cash"},
		},
		{
			name: "every field invalid",
			req:  addItemRequest{ProductID: "", Quantity: 0, Method: "bitcoin"},
			wantFields: map[string]string{
				"product_id":     "is required",
				"quantity":       "must be greater than or equal to 1",
				"payment_method": "must be one of: cash card transfer",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(tt.req)
			if tt.wantFields == nil {
				require.NoError(t, err)
				return
			}

			var verr *validator.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantFields, verr.Fields())
		})
	}
}
