package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/nikolayk812/foodcart/internal/port"
	"github.com/nikolayk812/foodcart/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

var errStoreDown = errors.New("store is down")

type checkoutFixture struct {
	products  *memory.ProductStore
	orders    *memory.OrderStore
	customers *memory.CustomerStore
	carts     *memory.CartStore
	customer  domain.Customer
}

func newCheckoutFixture(products ...domain.Product) *checkoutFixture {
	customer := domain.Customer{
		ID:    uuid.New(),
		Email: "ana@example.com",
		Name:  "Ana",
		Role:  domain.RoleCustomer,
	}

	return &checkoutFixture{
		products:  memory.NewProductStore(products...),
		orders:    memory.NewOrderStore(),
		customers: memory.NewCustomerStore(customer),
		carts:     memory.NewCartStore(),
		customer:  customer,
	}
}

// service builds a checkout service over the fixture stores. Wrappers replace
// individual stores when a test needs to inject failures.
func (f *checkoutFixture) service(opts ...func(*checkoutDeps)) *CheckoutService {
	deps := checkoutDeps{
		products:  f.products,
		orders:    f.orders,
		customers: f.customers,
		carts:     f.carts,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	return NewCheckoutService(
		deps.products,
		deps.orders,
		deps.customers,
		deps.carts,
		deps.publisher,
		nil,
		testLogger(),
		CheckoutConfig{
			LowStockThreshold: 5,
			Compensation: CompensationConfig{
				InitialInterval: time.Millisecond,
				MaxInterval:     5 * time.Millisecond,
			},
		},
	)
}

func (f *checkoutFixture) request(cart *domain.Cart) CheckoutRequest {
	return CheckoutRequest{
		Cart:             cart,
		PaymentMethod:    domain.PaymentCash,
		CustomerIdentity: f.customer.Email,
	}
}

func (f *checkoutFixture) stockOf(t *testing.T, id uuid.UUID) int {
	t.Helper()

	p, err := f.products.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

type checkoutDeps struct {
	products  port.ProductRepository
	orders    port.OrderRepository
	customers port.CustomerRepository
	carts     port.CartStore
	publisher port.EventPublisher
}

func withProducts(p port.ProductRepository) func(*checkoutDeps) {
	return func(d *checkoutDeps) { d.products = p }
}

func withOrders(o port.OrderRepository) func(*checkoutDeps) {
	return func(d *checkoutDeps) { d.orders = o }
}

func withCustomers(c port.CustomerRepository) func(*checkoutDeps) {
	return func(d *checkoutDeps) { d.customers = c }
}

func withCarts(c port.CartStore) func(*checkoutDeps) {
	return func(d *checkoutDeps) { d.carts = c }
}

func withPublisher(p port.EventPublisher) func(*checkoutDeps) {
	return func(d *checkoutDeps) { d.publisher = p }
}

// cartWith builds a cart from product copies so the cart can hold more than
// the store currently has in stock.
func cartWith(t *testing.T, items ...cartItem) *domain.Cart {
	t.Helper()

	cart := domain.NewCart("session-" + uuid.NewString())
	for _, item := range items {
		p := item.product
		if p.Stock < item.qty {
			p.Stock = item.qty
		}
		require.NoError(t, cart.AddItem(p, item.qty))
	}
	return cart
}

type cartItem struct {
	product domain.Product
	qty     int
}

func newProduct(name, price string, stock int) domain.Product {
	return domain.Product{
		ID:       uuid.New(),
		Name:     name,
		Category: "despensa",
		Price:    usd(price),
		Stock:    stock,
		Active:   true,
	}
}

func usd(amount string) domain.Money {
	return domain.NewMoney(decimal.RequireFromString(amount), currency.USD)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// flakyProducts fails the first failures calls to IncrementStock.
type flakyProducts struct {
	port.ProductRepository
	failures   int32
	increments atomic.Int32
}

func (p *flakyProducts) IncrementStock(ctx context.Context, attemptID, productID uuid.UUID, quantity int) error {
	if p.increments.Add(1) <= p.failures {
		return errStoreDown
	}
	return p.ProductRepository.IncrementStock(ctx, attemptID, productID, quantity)
}

// cancellingProducts cancels the checkout context after the first successful decrement.
type cancellingProducts struct {
	port.ProductRepository
	cancel context.CancelFunc
}

func (p *cancellingProducts) DecrementStock(ctx context.Context, attemptID, productID uuid.UUID, quantity int) (int, error) {
	remaining, err := p.ProductRepository.DecrementStock(ctx, attemptID, productID, quantity)
	if err == nil {
		p.cancel()
	}
	return remaining, err
}

// lostDecrementAck applies the decrement of product and then reports a failure,
// as when a commit succeeds but its acknowledgement is lost. With applied unset
// the decrement fails before reaching the store.
type lostDecrementAck struct {
	port.ProductRepository
	product uuid.UUID
	applied bool
}

func (p lostDecrementAck) DecrementStock(ctx context.Context, attemptID, productID uuid.UUID, quantity int) (int, error) {
	if productID != p.product {
		return p.ProductRepository.DecrementStock(ctx, attemptID, productID, quantity)
	}
	if p.applied {
		if _, err := p.ProductRepository.DecrementStock(ctx, attemptID, productID, quantity); err != nil {
			return 0, err
		}
	}
	return 0, errStoreDown
}

// flakyCarts fails the first failures calls to Delete.
type flakyCarts struct {
	port.CartStore
	failures int32
	deletes  atomic.Int32
}

func (c *flakyCarts) Delete(ctx context.Context, id string) error {
	if c.deletes.Add(1) <= c.failures {
		return errStoreDown
	}
	return c.CartStore.Delete(ctx, id)
}

// lostIncrements reports every IncrementStock as a missing product.
type lostIncrements struct {
	port.ProductRepository
}

func (lostIncrements) IncrementStock(_ context.Context, _, productID uuid.UUID, _ int) error {
	return errors.Join(domain.ErrProductNotFound, errors.New(productID.String()))
}

// failingOrders fails SaveOrder. With persist set the order is stored first,
// as when a commit succeeds but its acknowledgement is lost.
type failingOrders struct {
	port.OrderRepository
	persist bool
}

func (o failingOrders) SaveOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	if o.persist {
		if _, err := o.OrderRepository.SaveOrder(ctx, order); err != nil {
			return domain.Order{}, err
		}
	}
	return domain.Order{}, errStoreDown
}

type failingCustomers struct {
	port.CustomerRepository
}

func (failingCustomers) GetCustomerByEmail(context.Context, string) (domain.Customer, error) {
	return domain.Customer{}, errStoreDown
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockPublisher) PublishStockLow(ctx context.Context, productID uuid.UUID, remaining int) error {
	args := m.Called(ctx, productID, remaining)
	return args.Error(0)
}
