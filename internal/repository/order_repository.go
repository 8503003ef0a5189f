package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nikolayk812/foodcart/internal/db"
	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/nikolayk812/foodcart/internal/port"
)

type orderRepository struct {
	q    *db.Queries
	pool Pool
}

func NewOrder(pool Pool) (port.OrderRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &orderRepository{
		q:    db.New(pool),
		pool: pool,
	}, nil
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *orderRepository) SaveOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	if err := order.Validate(); err != nil {
		return domain.Order{}, fmt.Errorf("order.Validate: %w", err)
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.Order, error) {
		err := q.InsertOrder(ctx, db.InsertOrderParams{
			ID:            order.ID,
			AttemptID:     order.AttemptID,
			CustomerID:    order.CustomerID,
			CustomerEmail: order.CustomerEmail,
			PaymentMethod: string(order.PaymentMethod),
			TotalAmount:   order.Total.Amount,
			TotalCurrency: order.Total.Currency.String(),
			CreatedAt:     order.CreatedAt,
		})
		if err != nil {
			return domain.Order{}, fmt.Errorf("q.InsertOrder: %w", err)
		}

		for i, line := range order.Lines {
			err := q.InsertOrderLine(ctx, db.InsertOrderLineParams{
				OrderID:         order.ID,
				Position:        int32(i),
				ProductID:       line.ProductID,
				ProductName:     line.ProductName,
				Quantity:        int32(line.Quantity),
				UnitPriceAmount: line.UnitPrice.Amount,
				SubtotalAmount:  line.Subtotal.Amount,
			})
			if err != nil {
				return domain.Order{}, fmt.Errorf("q.InsertOrderLine[%d]: %w", i, err)
			}
		}

		return order, nil
	})
}

func (r *orderRepository) GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	row, err := r.q.GetOrder(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("order[%s]: %w", id, domain.ErrOrderNotFound)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("q.GetOrder: %w", err)
	}

	orders, err := r.attachLines(ctx, []db.Order{row})
	if err != nil {
		return domain.Order{}, err
	}

	return orders[0], nil
}

func (r *orderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.q.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.ListOrders: %w", err)
	}

	return r.attachLines(ctx, rows)
}

func (r *orderRepository) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error) {
	rows, err := r.q.ListOrdersByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("q.ListOrdersByCustomer: %w", err)
	}

	return r.attachLines(ctx, rows)
}

// attachLines loads the lines of all given orders with one query.
func (r *orderRepository) attachLines(ctx context.Context, rows []db.Order) ([]domain.Order, error) {
	orders := make([]domain.Order, 0, len(rows))
	if len(rows) == 0 {
		return orders, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	lineRows, err := r.q.ListOrderLines(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("q.ListOrderLines: %w", err)
	}

	linesByOrder := make(map[uuid.UUID][]db.OrderLine, len(rows))
	for _, line := range lineRows {
		linesByOrder[line.OrderID] = append(linesByOrder[line.OrderID], line)
	}

	for _, row := range rows {
		order, err := mapOrderToDomain(row, linesByOrder[row.ID])
		if err != nil {
			return nil, fmt.Errorf("mapOrderToDomain: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func mapOrderToDomain(row db.Order, lines []db.OrderLine) (domain.Order, error) {
	total, err := mapMoney(row.TotalAmount, row.TotalCurrency)
	if err != nil {
		return domain.Order{}, err
	}

	method, err := domain.ParsePaymentMethod(row.PaymentMethod)
	if err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:            row.ID,
		AttemptID:     row.AttemptID,
		CustomerID:    row.CustomerID,
		CustomerEmail: row.CustomerEmail,
		PaymentMethod: method,
		Total:         total,
		Lines:         make([]domain.OrderLine, 0, len(lines)),
		CreatedAt:     row.CreatedAt,
	}

	for _, line := range lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    int(line.Quantity),
			UnitPrice:   domain.Money{Amount: line.UnitPriceAmount, Currency: total.Currency},
			Subtotal:    domain.Money{Amount: line.SubtotalAmount, Currency: total.Currency},
		})
	}

	return order, nil
}
