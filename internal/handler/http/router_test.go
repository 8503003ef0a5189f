package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/nikolayk812/foodcart/internal/metrics"
	"github.com/nikolayk812/foodcart/internal/repository/memory"
	"github.com/nikolayk812/foodcart/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

const (
	testSession = "session-1"
	testEmail   = "ana@example.com"
)

type testEnv struct {
	router   http.Handler
	products *memory.ProductStore
	flour    domain.Product
	salt     domain.Product
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	flour := testProduct("Harina 1kg", "2.50", 10)
	salt := testProduct("Sal", "0.80", 2)

	products := memory.NewProductStore(flour, salt)
	orders := memory.NewOrderStore()
	customers := memory.NewCustomerStore(
		domain.Customer{ID: uuid.New(), Email: testEmail, Role: domain.RoleCustomer},
		domain.Customer{ID: uuid.New(), Email: "luis@example.com", Role: domain.RoleCustomer},
	)
	carts := memory.NewCartStore()
	logger := testLogger()

	reg := prometheus.NewRegistry()
	checkout := service.NewCheckoutService(products, orders, customers, carts, nil, metrics.NewCheckout(reg), logger,
		service.CheckoutConfig{LowStockThreshold: 5, Compensation: service.DefaultCompensationConfig()})

	router := NewRouter(Services{
		Catalog:  service.NewCatalogService(products, 5),
		Cart:     service.NewCartService(products, carts, logger),
		Checkout: checkout,
		Orders:   service.NewOrderService(orders, customers),
	}, reg, logger)

	return &testEnv{router: router, products: products, flour: flour, salt: salt}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&env))
	}
	return rec, env
}

func (e *testEnv) stockOf(t *testing.T, id uuid.UUID) int {
	t.Helper()

	p, err := e.products.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *errorResponse  `json:"error"`
}

func customerHeaders() map[string]string {
	return map[string]string{
		headerSessionID:     testSession,
		headerCustomerEmail: testEmail,
		headerCustomerRole:  string(domain.RoleCustomer),
	}
}

func TestListProducts(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/products", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []productResponse
	require.NoError(t, json.Unmarshal(resp.Data, &products))
	require.Len(t, products, 2)
	assert.Equal(t, "Harina 1kg", products[0].Name)
	assert.Equal(t, moneyResponse{Amount: "2.50", Currency: "USD"}, products[0].Price)
}

func TestLowStock(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/products/low-stock", nil, customerHeaders())
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	admin := map[string]string{headerCustomerEmail: "admin@example.com", headerCustomerRole: string(domain.RoleAdmin)}
	rec, resp = env.do(t, http.MethodGet, "/api/v1/products/low-stock", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []productResponse
	require.NoError(t, json.Unmarshal(resp.Data, &products))
	require.Len(t, products, 1)
	assert.Equal(t, env.salt.ID.String(), products[0].ID)
}

func TestCartEndpoints(t *testing.T) {
	env := newTestEnv(t)
	headers := customerHeaders()

	rec, resp := env.do(t, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: env.flour.ID.String(), Quantity: 3}, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	var cart cartResponse
	require.NoError(t, json.Unmarshal(resp.Data, &cart))
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "7.50", cart.Total.Amount)

	rec, _ = env.do(t, http.MethodPatch, "/api/v1/cart/items/"+env.flour.ID.String(),
		UpdateItemRequest{Action: "sumar"}, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp = env.do(t, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: env.salt.ID.String(), Quantity: 3}, headers)
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "STOCK_EXCEEDED", resp.Error.Code)
	assert.Equal(t, "only 2 units of Sal available", resp.Error.Message)

	rec, resp = env.do(t, http.MethodGet, "/api/v1/cart", nil, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &cart))
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 4, cart.Lines[0].Quantity)
	assert.Equal(t, "10.00", cart.Total.Amount)

	rec, resp = env.do(t, http.MethodDelete, "/api/v1/cart/items/"+env.flour.ID.String(), nil, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &cart))
	assert.Empty(t, cart.Lines)

	rec, _ = env.do(t, http.MethodDelete, "/api/v1/cart", nil, headers)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCartEndpoints_BadRequests(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		headers  map[string]string
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing session",
			method:   http.MethodGet,
			path:     "/api/v1/cart",
			wantCode: http.StatusBadRequest,
			wantErr:  "MISSING_SESSION",
		},
		{
			name:     "invalid product id",
			method:   http.MethodPost,
			path:     "/api/v1/cart/items",
			body:     AddItemRequest{ProductID: "nope"},
			headers:  customerHeaders(),
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_ERROR",
		},
		{
			name:     "unknown product",
			method:   http.MethodPost,
			path:     "/api/v1/cart/items",
			body:     AddItemRequest{ProductID: uuid.NewString()},
			headers:  customerHeaders(),
			wantCode: http.StatusNotFound,
			wantErr:  "NOT_FOUND",
		},
		{
			name:     "invalid action",
			method:   http.MethodPatch,
			path:     "/api/v1/cart/items/" + uuid.NewString(),
			body:     UpdateItemRequest{Action: "double"},
			headers:  customerHeaders(),
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_ERROR",
		},
		{
			name:     "line not in cart",
			method:   http.MethodPatch,
			path:     "/api/v1/cart/items/" + env.flour.ID.String(),
			body:     UpdateItemRequest{Action: "increment"},
			headers:  customerHeaders(),
			wantCode: http.StatusNotFound,
			wantErr:  "NOT_FOUND",
		},
		{
			name:     "invalid path id",
			method:   http.MethodDelete,
			path:     "/api/v1/cart/items/abc",
			headers:  customerHeaders(),
			wantCode: http.StatusBadRequest,
			wantErr:  "INVALID_PARAMETER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := env.do(t, tt.method, tt.path, tt.body, tt.headers)

			assert.Equal(t, tt.wantCode, rec.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantErr, resp.Error.Code)
		})
	}
}

func TestCheckout(t *testing.T) {
	env := newTestEnv(t)
	headers := customerHeaders()

	rec, _ := env.do(t, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: env.flour.ID.String(), Quantity: 3}, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := env.do(t, http.MethodPost, "/api/v1/checkout", nil, headers)
	require.Equal(t, http.StatusCreated, rec.Code)

	var result checkoutResponse
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, string(domain.CheckoutCommitted), result.State)
	assert.Equal(t, "cash", result.Order.PaymentMethod)
	assert.Equal(t, moneyResponse{Amount: "7.50", Currency: "USD"}, result.Order.Total)
	assert.Equal(t, 7, env.stockOf(t, env.flour.ID))

	rec, resp = env.do(t, http.MethodGet, "/api/v1/cart", nil, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	var cart cartResponse
	require.NoError(t, json.Unmarshal(resp.Data, &cart))
	assert.Empty(t, cart.Lines)

	rec, resp = env.do(t, http.MethodGet, "/api/v1/orders", nil, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	var orders []orderResponse
	require.NoError(t, json.Unmarshal(resp.Data, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, result.Order.ID, orders[0].ID)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/orders/"+result.Order.ID, nil, headers)
	assert.Equal(t, http.StatusOK, rec.Code)

	other := map[string]string{headerCustomerEmail: "luis@example.com"}
	rec, resp = env.do(t, http.MethodGet, "/api/v1/orders/"+result.Order.ID, nil, other)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestCheckout_Aborts(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		qty      func(env *testEnv) (uuid.UUID, int)
		drain    int
		wantCode int
		wantErr  string
	}{
		{
			name:     "empty cart",
			email:    testEmail,
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  "CART_EMPTY",
		},
		{
			name:     "stock taken by another buyer",
			email:    testEmail,
			qty:      func(env *testEnv) (uuid.UUID, int) { return env.salt.ID, 2 },
			drain:    1,
			wantCode: http.StatusConflict,
			wantErr:  "INSUFFICIENT_STOCK",
		},
		{
			name:     "unknown customer",
			email:    "ghost@example.com",
			qty:      func(env *testEnv) (uuid.UUID, int) { return env.flour.ID, 1 },
			wantCode: http.StatusInternalServerError,
			wantErr:  "UNKNOWN_CUSTOMER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			headers := customerHeaders()
			headers[headerCustomerEmail] = tt.email

			var productID uuid.UUID
			if tt.qty != nil {
				var qty int
				productID, qty = tt.qty(env)
				rec, _ := env.do(t, http.MethodPost, "/api/v1/cart/items",
					AddItemRequest{ProductID: productID.String(), Quantity: qty}, headers)
				require.Equal(t, http.StatusOK, rec.Code)
			}
			if tt.drain > 0 {
				_, err := env.products.DecrementStock(context.Background(), uuid.New(), productID, tt.drain)
				require.NoError(t, err)
			}

			var before int
			if productID != uuid.Nil {
				before = env.stockOf(t, productID)
			}

			rec, resp := env.do(t, http.MethodPost, "/api/v1/checkout", CheckoutRequest{PaymentMethod: "card"}, headers)

			assert.Equal(t, tt.wantCode, rec.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantErr, resp.Error.Code)

			if productID != uuid.Nil {
				assert.Equal(t, before, env.stockOf(t, productID))

				_, cartResp := env.do(t, http.MethodGet, "/api/v1/cart", nil, headers)
				var cart cartResponse
				require.NoError(t, json.Unmarshal(cartResp.Data, &cart))
				assert.Len(t, cart.Lines, 1)
			}
		})
	}
}

func TestCheckout_RequiresIdentity(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.do(t, http.MethodPost, "/api/v1/checkout", nil, map[string]string{headerSessionID: testSession})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)

	headers := customerHeaders()
	headers[headerCustomerRole] = "INVITADO"
	rec, _ = env.do(t, http.MethodPost, "/api/v1/checkout", nil, headers)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCheckout_InvalidPaymentMethod(t *testing.T) {
	env := newTestEnv(t)
	headers := customerHeaders()

	rec, _ := env.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: env.flour.ID.String()}, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := env.do(t, http.MethodPost, "/api/v1/checkout", CheckoutRequest{PaymentMethod: "bitcoin"}, headers)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "payment_method")
	assert.Equal(t, 10, env.stockOf(t, env.flour.ID))
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/health/live", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecovery(t *testing.T) {
	h := Recovery(testLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func testProduct(name, price string, stock int) domain.Product {
	return domain.Product{
		ID:     uuid.New(),
		Name:   name,
		Price:  domain.NewMoney(decimal.RequireFromString(price), currency.USD),
		Stock:  stock,
		Active: true,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}
