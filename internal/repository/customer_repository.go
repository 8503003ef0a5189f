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

type customerRepository struct {
	q *db.Queries
}

func NewCustomer(pool Pool) (port.CustomerRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &customerRepository{q: db.New(pool)}, nil
}

func (r *customerRepository) GetCustomerByEmail(ctx context.Context, email string) (domain.Customer, error) {
	if email == "" {
		return domain.Customer{}, fmt.Errorf("email is empty")
	}

	row, err := r.q.GetCustomerByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Customer{}, fmt.Errorf("customer[%s]: %w", email, domain.ErrCustomerNotFound)
	}
	if err != nil {
		return domain.Customer{}, fmt.Errorf("q.GetCustomerByEmail: %w", err)
	}

	role, err := domain.ParseRole(row.Role)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("domain.ParseRole: %w", err)
	}

	return domain.Customer{
		ID:        row.ID,
		Email:     row.Email,
		Name:      row.Name,
		Role:      role,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *customerRepository) CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	if c.Email == "" {
		return domain.Customer{}, fmt.Errorf("email is empty")
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Role == "" {
		c.Role = domain.RoleCustomer
	}

	createdAt, err := r.q.CreateCustomer(ctx, db.CreateCustomerParams{
		ID:    c.ID,
		Email: c.Email,
		Name:  c.Name,
		Role:  string(c.Role),
	})
	if err != nil {
		return domain.Customer{}, fmt.Errorf("q.CreateCustomer: %w", err)
	}
	c.CreatedAt = createdAt

	return c, nil
}
