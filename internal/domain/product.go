package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Category    string
	ImageURL    string
	Price       Money
	Stock       int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Available reports whether the product can be sold right now.
func (p Product) Available() bool {
	return p.Active && p.Stock > 0
}

// StockMovementKind labels an entry in the stock ledger.
type StockMovementKind string

const (
	MovementCheckout     StockMovementKind = "checkout"
	MovementCompensation StockMovementKind = "compensation"
)
