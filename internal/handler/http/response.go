package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/nikolayk812/foodcart/internal/logger"
	"github.com/nikolayk812/foodcart/internal/validator"
	"golang.org/x/text/currency"
)

type response struct {
	Data  any            `json:"data,omitempty"`
	Error *errorResponse `json:"error,omitempty"`
}

type errorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, response{Error: &errorResponse{Code: code, Message: message}})
}

// writeError maps domain and checkout errors to HTTP responses. Unexpected
// errors are logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context(), fallback)

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusBadRequest, response{Error: &errorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "request validation failed",
			Fields:  valErr.Fields(),
		}})
		return
	}

	status, code, message := classify(err)

	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "request failed",
			slog.String("code", code),
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	writeJSON(w, status, response{Error: &errorResponse{
		Code:      code,
		Message:   message,
		RequestID: requestIDFromContext(r.Context()),
	}})
}

func classify(err error) (int, string, string) {
	switch domain.CheckoutStateOf(err) {
	case domain.CheckoutAbortedEmpty:
		return http.StatusUnprocessableEntity, "CART_EMPTY", "cart is empty"
	case domain.CheckoutAbortedStock:
		return http.StatusConflict, "INSUFFICIENT_STOCK", "not enough stock for one or more products, review your cart"
	case domain.CheckoutAbortedUnknownCustomer:
		return http.StatusInternalServerError, "UNKNOWN_CUSTOMER", "your account could not be found, contact support"
	case domain.CheckoutAbortedPersistence:
		return http.StatusInternalServerError, "CHECKOUT_FAILED", "checkout failed, please try again"
	}

	var stockErr *domain.StockError
	switch {
	case errors.As(err, &stockErr) && errors.Is(err, domain.ErrOutOfStock):
		return http.StatusConflict, "OUT_OF_STOCK", fmt.Sprintf("%s is out of stock", stockErr.ProductName)
	case errors.As(err, &stockErr) && errors.Is(err, domain.ErrStockExceeded):
		return http.StatusConflict, "STOCK_EXCEEDED", fmt.Sprintf("only %d units of %s available", stockErr.Available, stockErr.ProductName)
	case errors.Is(err, domain.ErrProductInactive):
		return http.StatusConflict, "PRODUCT_INACTIVE", "product is not available"
	case errors.Is(err, domain.ErrCurrencyMismatch):
		return http.StatusConflict, "CURRENCY_MISMATCH", "product is priced in a different currency than the cart"
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidDelta):
		return http.StatusBadRequest, "INVALID_INPUT", err.Error()
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrLineNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrCustomerNotFound):
		return http.StatusNotFound, "CUSTOMER_NOT_FOUND", "customer not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "operation not permitted"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

type moneyResponse struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency,omitempty"`
}

func toMoney(m domain.Money) moneyResponse {
	resp := moneyResponse{Amount: m.Amount.StringFixed(2)}
	if m.Currency != (currency.Unit{}) {
		resp.Currency = m.Currency.String()
	}
	return resp
}

type productResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Category    string        `json:"category,omitempty"`
	ImageURL    string        `json:"image_url,omitempty"`
	Price       moneyResponse `json:"price"`
	Stock       int           `json:"stock"`
}

func toProducts(products []domain.Product) []productResponse {
	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, productResponse{
			ID:          p.ID.String(),
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			ImageURL:    p.ImageURL,
			Price:       toMoney(p.Price),
			Stock:       p.Stock,
		})
	}
	return resp
}

type cartLineResponse struct {
	ProductID   string        `json:"product_id"`
	ProductName string        `json:"product_name"`
	ImageURL    string        `json:"image_url,omitempty"`
	UnitPrice   moneyResponse `json:"unit_price"`
	Quantity    int           `json:"quantity"`
	Subtotal    moneyResponse `json:"subtotal"`
}

type cartResponse struct {
	ID    string             `json:"id"`
	Lines []cartLineResponse `json:"lines"`
	Total moneyResponse      `json:"total"`
}

func toCart(cart *domain.Cart) cartResponse {
	resp := cartResponse{
		ID:    cart.ID,
		Lines: make([]cartLineResponse, 0, len(cart.Lines)),
		Total: toMoney(cart.Total()),
	}
	for _, l := range cart.Lines {
		resp.Lines = append(resp.Lines, cartLineResponse{
			ProductID:   l.ProductID.String(),
			ProductName: l.ProductName,
			ImageURL:    l.ImageURL,
			UnitPrice:   toMoney(l.UnitPrice),
			Quantity:    l.Quantity,
			Subtotal:    toMoney(l.Subtotal),
		})
	}
	return resp
}

type orderLineResponse struct {
	ProductID   string        `json:"product_id"`
	ProductName string        `json:"product_name"`
	Quantity    int           `json:"quantity"`
	UnitPrice   moneyResponse `json:"unit_price"`
	Subtotal    moneyResponse `json:"subtotal"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	CustomerEmail string              `json:"customer_email"`
	PaymentMethod string              `json:"payment_method"`
	Total         moneyResponse       `json:"total"`
	Lines         []orderLineResponse `json:"lines"`
	CreatedAt     time.Time           `json:"created_at"`
}

func toOrder(o domain.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID.String(),
		CustomerEmail: o.CustomerEmail,
		PaymentMethod: string(o.PaymentMethod),
		Total:         toMoney(o.Total),
		Lines:         make([]orderLineResponse, 0, len(o.Lines)),
		CreatedAt:     o.CreatedAt,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, orderLineResponse{
			ProductID:   l.ProductID.String(),
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   toMoney(l.UnitPrice),
			Subtotal:    toMoney(l.Subtotal),
		})
	}
	return resp
}

func toOrders(orders []domain.Order) []orderResponse {
	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrder(o))
	}
	return resp
}
