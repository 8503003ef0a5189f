package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/nikolayk812/foodcart/internal/policy"
	"github.com/nikolayk812/foodcart/internal/service"
)

type CheckoutHandler struct {
	carts    *service.CartService
	checkout *service.CheckoutService
	logger   *slog.Logger
}

func NewCheckoutHandler(carts *service.CartService, checkout *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{carts: carts, checkout: checkout, logger: logger}
}

type CheckoutRequest struct {
	// PaymentMethod defaults to cash.
	PaymentMethod string `json:"payment_method"`
}

type checkoutResponse struct {
	AttemptID string        `json:"attempt_id"`
	State     string        `json:"state"`
	Order     orderResponse `json:"order"`
	CartStale bool          `json:"cart_stale,omitempty"`
}

// Checkout handles POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	viewer := viewerFromContext(r.Context())
	if !policy.Can(viewer.Role, policy.Checkout) {
		writeError(w, r, domain.ErrForbidden, h.logger)
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeErrorCode(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body: "+err.Error())
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = string(domain.PaymentCash)
	}

	cart, err := h.carts.GetCart(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	result, err := h.checkout.Checkout(r.Context(), service.CheckoutRequest{
		Cart:             cart,
		PaymentMethod:    domain.PaymentMethod(req.PaymentMethod),
		CustomerIdentity: viewer.Email,
	})
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: checkoutResponse{
		AttemptID: result.AttemptID.String(),
		State:     string(result.State),
		Order:     toOrder(result.Order),
		CartStale: result.CartStale,
	}})
}
