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

type productRepository struct {
	q    *db.Queries
	pool Pool
}

func NewProduct(pool Pool) (port.ProductRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &productRepository{
		q:    db.New(pool),
		pool: pool,
	}, nil
}

func NewProductWithTx(tx pgx.Tx) port.ProductRepository {
	return &productRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *productRepository) GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	row, err := r.q.GetProduct(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("product[%s]: %w", id, domain.ErrProductNotFound)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("q.GetProduct: %w", err)
	}

	p, err := mapProductToDomain(row)
	if err != nil {
		return domain.Product{}, fmt.Errorf("mapProductToDomain: %w", err)
	}

	return p, nil
}

func (r *productRepository) DecrementStock(ctx context.Context, attemptID, productID uuid.UUID, quantity int) (int, error) {
	if quantity < 1 {
		return 0, fmt.Errorf("quantity[%d] must be positive", quantity)
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (int, error) {
		remaining, err := q.DecrementStock(ctx, db.DecrementStockParams{
			Quantity: int32(quantity),
			ID:       productID,
		})
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, r.decrementMiss(ctx, q, productID)
		}
		if err != nil {
			return 0, fmt.Errorf("q.DecrementStock: %w", err)
		}

		inserted, err := q.InsertStockMovement(ctx, db.InsertStockMovementParams{
			AttemptID: attemptID,
			ProductID: productID,
			Kind:      string(domain.MovementCheckout),
			Quantity:  int32(quantity),
		})
		if err != nil {
			return 0, fmt.Errorf("q.InsertStockMovement: %w", err)
		}
		if inserted == 0 {
			return 0, fmt.Errorf("attempt[%s] already decremented product[%s]", attemptID, productID)
		}

		return int(remaining), nil
	})
}

// decrementMiss explains why the conditional update matched no row.
func (r *productRepository) decrementMiss(ctx context.Context, q *db.Queries, productID uuid.UUID) error {
	exists, err := q.ProductExists(ctx, productID)
	if err != nil {
		return fmt.Errorf("q.ProductExists: %w", err)
	}
	if !exists {
		return fmt.Errorf("product[%s]: %w", productID, domain.ErrProductNotFound)
	}
	return fmt.Errorf("product[%s]: %w", productID, domain.ErrInsufficientStock)
}

func (r *productRepository) IncrementStock(ctx context.Context, attemptID, productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity[%d] must be positive", quantity)
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		exists, err := q.ProductExists(ctx, productID)
		if err != nil {
			return struct{}{}, fmt.Errorf("q.ProductExists: %w", err)
		}
		if !exists {
			return struct{}{}, fmt.Errorf("product[%s]: %w", productID, domain.ErrProductNotFound)
		}

		inserted, err := q.InsertCompensationMovement(ctx, db.InsertCompensationMovementParams{
			AttemptID: attemptID,
			ProductID: productID,
			Quantity:  int32(quantity),
		})
		if err != nil {
			return struct{}{}, fmt.Errorf("q.InsertCompensationMovement: %w", err)
		}
		if inserted == 0 {
			// already credited, or the attempt never took this product
			return struct{}{}, nil
		}

		if _, err := q.IncrementStock(ctx, db.IncrementStockParams{
			Quantity: int32(quantity),
			ID:       productID,
		}); err != nil {
			return struct{}{}, fmt.Errorf("q.IncrementStock: %w", err)
		}

		return struct{}{}, nil
	})

	return err
}

func (r *productRepository) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Stock < 0 {
		return domain.Product{}, fmt.Errorf("stock[%d] is negative", p.Stock)
	}

	row, err := r.q.CreateProduct(ctx, db.CreateProductParams{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		ImageUrl:      p.ImageURL,
		PriceAmount:   p.Price.Amount,
		PriceCurrency: p.Price.Currency.String(),
		Stock:         int32(p.Stock),
		Active:        p.Active,
	})
	if err != nil {
		return domain.Product{}, fmt.Errorf("q.CreateProduct: %w", err)
	}

	p.CreatedAt = row.CreatedAt
	p.UpdatedAt = row.UpdatedAt

	return p, nil
}

func (r *productRepository) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.q.ListActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.ListActiveProducts: %w", err)
	}

	products, err := mapProductsToDomain(rows)
	if err != nil {
		return nil, fmt.Errorf("mapProductsToDomain: %w", err)
	}

	return products, nil
}

func (r *productRepository) ListLowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	rows, err := r.q.ListLowStock(ctx, int32(threshold))
	if err != nil {
		return nil, fmt.Errorf("q.ListLowStock: %w", err)
	}

	products, err := mapProductsToDomain(rows)
	if err != nil {
		return nil, fmt.Errorf("mapProductsToDomain: %w", err)
	}

	return products, nil
}

func mapProductToDomain(row db.Product) (domain.Product, error) {
	price, err := mapMoney(row.PriceAmount, row.PriceCurrency)
	if err != nil {
		return domain.Product{}, err
	}

	return domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Category:    row.Category,
		ImageURL:    row.ImageUrl,
		Price:       price,
		Stock:       int(row.Stock),
		Active:      row.Active,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func mapProductsToDomain(rows []db.Product) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(rows))

	for _, row := range rows {
		p, err := mapProductToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapProductToDomain: %w", err)
		}

		products = append(products, p)
	}

	return products, nil
}
