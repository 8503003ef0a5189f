package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/domain"
)

// CustomerStore implements port.CustomerRepository keyed by email.
type CustomerStore struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
}

func NewCustomerStore(customers ...domain.Customer) *CustomerStore {
	s := &CustomerStore{customers: make(map[string]domain.Customer, len(customers))}
	for _, c := range customers {
		s.customers[c.Email] = c
	}
	return s
}

func (s *CustomerStore) GetCustomerByEmail(_ context.Context, email string) (domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[email]
	if !ok {
		return domain.Customer{}, fmt.Errorf("customer[%s]: %w", email, domain.ErrCustomerNotFound)
	}
	return c, nil
}

func (s *CustomerStore) CreateCustomer(_ context.Context, c domain.Customer) (domain.Customer, error) {
	if c.Email == "" {
		return domain.Customer{}, fmt.Errorf("email is empty")
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Role == "" {
		c.Role = domain.RoleCustomer
	}
	c.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[c.Email]; exists {
		return domain.Customer{}, fmt.Errorf("customer[%s] already exists", c.Email)
	}
	s.customers[c.Email] = c

	return c, nil
}
