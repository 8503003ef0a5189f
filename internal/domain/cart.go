package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

// QuantityDelta is the step applied by Cart.UpdateQuantity.
type QuantityDelta int

const (
	QuantityIncrement QuantityDelta = 1
	QuantityDecrement QuantityDelta = -1
)

// Cart is a session-scoped, single-writer shopping cart. Lines keep insertion order
// and hold price and name snapshots taken at the time of the last mutation.
type Cart struct {
	ID        string
	Currency  currency.Unit
	Lines     []CartLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartLine struct {
	ProductID   uuid.UUID
	ProductName string
	ImageURL    string
	UnitPrice   Money
	Quantity    int
	Subtotal    Money
}

// CartSnapshot is a read-only copy of a cart taken at checkout start.
type CartSnapshot struct {
	CartID   string
	Currency currency.Unit
	Lines    []CartLine
	Total    Money
}

func NewCart(id string) *Cart {
	now := time.Now().UTC()
	return &Cart{ID: id, CreatedAt: now, UpdatedAt: now}
}

// AddItem adds qty units of p, merging with an existing line for the same product.
// The combined quantity must not exceed the product's current stock.
func (c *Cart) AddItem(p Product, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if !p.Active {
		return fmt.Errorf("product[%s]: %w", p.ID, ErrProductInactive)
	}
	if p.Stock <= 0 {
		return &StockError{Err: ErrOutOfStock, ProductID: p.ID, ProductName: p.Name, Requested: qty}
	}
	if err := c.checkCurrency(p.Price); err != nil {
		return err
	}

	i := c.index(p.ID)
	if i < 0 {
		if qty > p.Stock {
			return &StockError{Err: ErrStockExceeded, ProductID: p.ID, ProductName: p.Name, Requested: qty, Available: p.Stock}
		}
		c.Lines = append(c.Lines, newCartLine(p, qty))
		c.touch(p.Price)
		return nil
	}

	newQty := c.Lines[i].Quantity + qty
	if newQty > p.Stock {
		return &StockError{Err: ErrStockExceeded, ProductID: p.ID, ProductName: p.Name, Requested: newQty, Available: p.Stock}
	}
	c.Lines[i] = newCartLine(p, newQty)
	c.touch(p.Price)

	return nil
}

// UpdateQuantity moves a line by one unit. Incrementing past the product's stock
// fails without changing the line; decrementing a line of quantity 1 removes it.
func (c *Cart) UpdateQuantity(p Product, delta QuantityDelta) error {
	if delta != QuantityIncrement && delta != QuantityDecrement {
		return fmt.Errorf("%w: got %d", ErrInvalidDelta, delta)
	}

	i := c.index(p.ID)
	if i < 0 {
		return fmt.Errorf("product[%s]: %w", p.ID, ErrLineNotFound)
	}

	newQty := c.Lines[i].Quantity + int(delta)
	if newQty <= 0 {
		c.Lines = slices.Delete(c.Lines, i, i+1)
		c.UpdatedAt = time.Now().UTC()
		return nil
	}

	if delta == QuantityIncrement && newQty > p.Stock {
		return &StockError{Err: ErrStockExceeded, ProductID: p.ID, ProductName: p.Name, Requested: newQty, Available: p.Stock}
	}
	if err := c.checkCurrency(p.Price); err != nil {
		return err
	}

	c.Lines[i] = newCartLine(p, newQty)
	c.touch(p.Price)

	return nil
}

// RemoveItem drops the line for productID. Removing an absent product is a no-op.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	c.Lines = slices.Delete(c.Lines, i, i+1)
	c.UpdatedAt = time.Now().UTC()
}

func (c *Cart) Clear() {
	c.Lines = nil
	c.UpdatedAt = time.Now().UTC()
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) Line(productID uuid.UUID) (CartLine, bool) {
	i := c.index(productID)
	if i < 0 {
		return CartLine{}, false
	}
	return c.Lines[i], true
}

func (c *Cart) Total() Money {
	total := ZeroMoney(c.Currency)
	for _, line := range c.Lines {
		total.Amount = total.Amount.Add(line.Subtotal.Amount)
	}
	return total
}

func (c *Cart) Snapshot() CartSnapshot {
	return CartSnapshot{
		CartID:   c.ID,
		Currency: c.Currency,
		Lines:    slices.Clone(c.Lines),
		Total:    c.Total(),
	}
}

func (c *Cart) index(productID uuid.UUID) int {
	return slices.IndexFunc(c.Lines, func(l CartLine) bool {
		return l.ProductID == productID
	})
}

func (c *Cart) checkCurrency(price Money) error {
	if len(c.Lines) == 0 || c.Currency == price.Currency {
		return nil
	}
	return fmt.Errorf("%w: cart is in %s, product is priced in %s", ErrCurrencyMismatch, c.Currency, price.Currency)
}

func (c *Cart) touch(price Money) {
	c.Currency = price.Currency
	c.UpdatedAt = time.Now().UTC()
}

// SnapshotProduct rebuilds the product as the line last saw it. It is inactive
// and has no stock, so it can only be used to shrink the line.
func (l CartLine) SnapshotProduct() Product {
	return Product{
		ID:       l.ProductID,
		Name:     l.ProductName,
		ImageURL: l.ImageURL,
		Price:    l.UnitPrice,
	}
}

func newCartLine(p Product, qty int) CartLine {
	return CartLine{
		ProductID:   p.ID,
		ProductName: p.Name,
		ImageURL:    p.ImageURL,
		UnitPrice:   p.Price,
		Quantity:    qty,
		Subtotal:    p.Price.Mul(qty),
	}
}
