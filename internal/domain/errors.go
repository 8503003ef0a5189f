package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Cart errors are user-correctable.
var (
	ErrProductInactive  = errors.New("product is not available")
	ErrOutOfStock       = errors.New("product is out of stock")
	ErrStockExceeded    = errors.New("requested quantity exceeds available stock")
	ErrLineNotFound     = errors.New("product is not in the cart")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidDelta     = errors.New("quantity delta must be +1 or -1")
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrCartEmpty        = errors.New("cart is empty")
)

// Store errors.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderInvalid      = errors.New("order is invalid")
)

var (
	ErrCompensationIncomplete = errors.New("stock compensation incomplete")
	ErrForbidden              = errors.New("operation not permitted for role")
)

// StockError carries the numbers behind ErrOutOfStock and ErrStockExceeded
// so callers can tell the user how many units are left.
type StockError struct {
	Err         error
	ProductID   uuid.UUID
	ProductName string
	Requested   int
	Available   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%s: %s requested %d, available %d", e.Err, e.ProductName, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error {
	return e.Err
}
