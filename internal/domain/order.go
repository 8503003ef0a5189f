package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return m, nil
	default:
		return "", fmt.Errorf("unknown payment method %q", s)
	}
}

// Order is a committed purchase. AttemptID ties it to the checkout attempt
// that decremented stock for it.
type Order struct {
	ID            uuid.UUID
	AttemptID     uuid.UUID
	CustomerID    uuid.UUID
	CustomerEmail string
	PaymentMethod PaymentMethod
	Total         Money
	Lines         []OrderLine
	CreatedAt     time.Time
}

type OrderLine struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   Money
	Subtotal    Money
}

// NewOrder builds an order from the prices captured in the cart snapshot.
func NewOrder(id, attemptID uuid.UUID, customer Customer, method PaymentMethod, snapshot CartSnapshot, createdAt time.Time) (Order, error) {
	order := Order{
		ID:            id,
		AttemptID:     attemptID,
		CustomerID:    customer.ID,
		CustomerEmail: customer.Email,
		PaymentMethod: method,
		Total:         snapshot.Total,
		Lines:         make([]OrderLine, 0, len(snapshot.Lines)),
		CreatedAt:     createdAt,
	}

	for _, line := range snapshot.Lines {
		order.Lines = append(order.Lines, OrderLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal,
		})
	}

	if err := order.Validate(); err != nil {
		return Order{}, err
	}

	return order, nil
}

// Validate checks that every subtotal is price times quantity and that the
// total is the sum of the subtotals.
func (o Order) Validate() error {
	if len(o.Lines) == 0 {
		return fmt.Errorf("%w: no lines", ErrOrderInvalid)
	}

	sum := ZeroMoney(o.Total.Currency)
	for i, line := range o.Lines {
		if line.Quantity < 1 {
			return fmt.Errorf("%w: line %d quantity %d", ErrOrderInvalid, i, line.Quantity)
		}
		if !line.UnitPrice.Mul(line.Quantity).Equal(line.Subtotal) {
			return fmt.Errorf("%w: line %d subtotal %s", ErrOrderInvalid, i, line.Subtotal)
		}

		var err error
		if sum, err = sum.Add(line.Subtotal); err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrOrderInvalid, i, err)
		}
	}

	if !sum.Equal(o.Total) {
		return fmt.Errorf("%w: total %s, lines sum to %s", ErrOrderInvalid, o.Total, sum)
	}

	return nil
}
