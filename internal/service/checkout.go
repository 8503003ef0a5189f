package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/nikolayk812/foodcart/internal/event"
	"github.com/nikolayk812/foodcart/internal/metrics"
	"github.com/nikolayk812/foodcart/internal/port"
	"github.com/nikolayk812/foodcart/internal/validator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/nikolayk812/foodcart/internal/service")

// cartDeleteRetries bounds the retries of the session cart delete after commit.
const cartDeleteRetries = 5

type CheckoutConfig struct {
	// LowStockThreshold triggers a stock.low event when a checkout leaves a
	// product with fewer units than this.
	LowStockThreshold int
	Compensation      CompensationConfig
}

type CheckoutRequest struct {
	Cart             *domain.Cart         `json:"-" validate:"-"`
	PaymentMethod    domain.PaymentMethod `json:"payment_method" validate:"required,oneof=cash card transfer"`
	CustomerIdentity string               `json:"customer_identity" validate:"required"`
}

type CheckoutResult struct {
	AttemptID uuid.UUID
	State     domain.CheckoutState
	Order     domain.Order
	// CartStale is set when the order committed but the session cart could
	// not be deleted. Checking that cart out again would place a second order.
	CartStale bool
}

// CheckoutService turns a session cart into a persisted order. Stock is taken
// line by line with atomic conditional decrements; any failure gives back
// everything taken so far before the attempt aborts.
type CheckoutService struct {
	products  port.ProductRepository
	orders    port.OrderRepository
	customers port.CustomerRepository
	carts     port.CartStore
	publisher port.EventPublisher
	metrics   *metrics.Checkout
	logger    *slog.Logger
	cfg       CheckoutConfig

	newID func() uuid.UUID
	now   func() time.Time
}

func NewCheckoutService(
	products port.ProductRepository,
	orders port.OrderRepository,
	customers port.CustomerRepository,
	carts port.CartStore,
	publisher port.EventPublisher,
	m *metrics.Checkout,
	logger *slog.Logger,
	cfg CheckoutConfig,
) *CheckoutService {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}

	return &CheckoutService{
		products:  products,
		orders:    orders,
		customers: customers,
		carts:     carts,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		cfg:       cfg,
		newID:     uuid.New,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// checkoutAttempt is the state of one Checkout call.
type checkoutAttempt struct {
	id          uuid.UUID
	state       domain.CheckoutState
	applied     []stockDecrement
	compensated map[uuid.UUID]bool
}

type stockDecrement struct {
	productID uuid.UUID
	quantity  int
	remaining int
}

func (a *checkoutAttempt) advance(next domain.CheckoutState) error {
	if !a.state.CanTransitionTo(next) {
		return &domain.IllegalTransitionError{From: a.state, To: next}
	}
	a.state = next
	return nil
}

// Checkout runs one checkout attempt. Aborted attempts return a
// *domain.CheckoutError whose State tells which abort occurred; the cart is
// left untouched. On success the cart is cleared.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResult, error) {
	if err := validator.Validate(req); err != nil {
		return CheckoutResult{}, err
	}

	attempt := &checkoutAttempt{
		id:          s.newID(),
		state:       domain.CheckoutStarted,
		compensated: make(map[uuid.UUID]bool),
	}

	ctx, span := tracer.Start(ctx, "checkout")
	defer span.End()
	span.SetAttributes(attribute.String("checkout.attempt_id", attempt.id.String()))

	start := time.Now()
	result, err := s.run(ctx, attempt, req)
	s.metrics.ObserveCheckout(attempt.state, time.Since(start))

	span.SetAttributes(attribute.String("checkout.state", string(attempt.state)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(attempt.state))
	}

	return result, err
}

func (s *CheckoutService) run(ctx context.Context, attempt *checkoutAttempt, req CheckoutRequest) (CheckoutResult, error) {
	log := s.logger.With(slog.String("attempt_id", attempt.id.String()))

	if req.Cart == nil || req.Cart.IsEmpty() {
		return s.abort(ctx, log, attempt, domain.CheckoutAbortedEmpty, domain.ErrCartEmpty)
	}
	snapshot := req.Cart.Snapshot()

	log.InfoContext(ctx, "checkout started",
		slog.String("cart_id", snapshot.CartID),
		slog.Int("lines", len(snapshot.Lines)),
		slog.String("total", snapshot.Total.String()),
	)

	customer, err := s.customers.GetCustomerByEmail(ctx, req.CustomerIdentity)
	if errors.Is(err, domain.ErrCustomerNotFound) {
		log.ErrorContext(ctx, "authenticated identity has no customer record",
			slog.String("identity", req.CustomerIdentity),
		)
		return s.abort(ctx, log, attempt, domain.CheckoutAbortedUnknownCustomer, err)
	}
	if err != nil {
		return s.abort(ctx, log, attempt, domain.CheckoutAbortedPersistence, fmt.Errorf("customers.GetCustomerByEmail: %w", err))
	}

	if err := attempt.advance(domain.CheckoutDecrementing); err != nil {
		return CheckoutResult{}, err
	}

	for _, line := range snapshot.Lines {
		remaining, err := s.products.DecrementStock(ctx, attempt.id, line.ProductID, line.Quantity)
		if errors.Is(err, domain.ErrInsufficientStock) || errors.Is(err, domain.ErrProductNotFound) {
			return s.abortWithCompensation(ctx, log, attempt, domain.CheckoutAbortedStock,
				fmt.Errorf("decrement %q: %w", line.ProductName, err))
		}
		if err != nil {
			// The decrement may have committed without us hearing back.
			// Compensation credits it only if the store recorded it.
			attempt.applied = append(attempt.applied, stockDecrement{
				productID: line.ProductID,
				quantity:  line.Quantity,
			})
			return s.abortWithCompensation(ctx, log, attempt, domain.CheckoutAbortedPersistence,
				fmt.Errorf("decrement %q: %w", line.ProductName, err))
		}

		attempt.applied = append(attempt.applied, stockDecrement{
			productID: line.ProductID,
			quantity:  line.Quantity,
			remaining: remaining,
		})
	}

	if err := attempt.advance(domain.CheckoutCommitting); err != nil {
		return CheckoutResult{}, errors.Join(err, s.compensate(ctx, log, attempt))
	}

	order, err := domain.NewOrder(s.newID(), attempt.id, customer, req.PaymentMethod, snapshot, s.now())
	if err != nil {
		return s.abortWithCompensation(ctx, log, attempt, domain.CheckoutAbortedPersistence, fmt.Errorf("domain.NewOrder: %w", err))
	}

	saved, err := s.saveOrder(ctx, log, order)
	if err != nil {
		return s.abortWithCompensation(ctx, log, attempt, domain.CheckoutAbortedPersistence, err)
	}

	if err := attempt.advance(domain.CheckoutCommitted); err != nil {
		return CheckoutResult{}, err
	}

	req.Cart.Clear()
	cartStale := !s.afterCommit(context.WithoutCancel(ctx), log, attempt, req.Cart.ID, saved)

	log.InfoContext(ctx, "checkout committed",
		slog.String("order_id", saved.ID.String()),
		slog.String("customer_id", saved.CustomerID.String()),
		slog.String("total", saved.Total.String()),
	)

	return CheckoutResult{AttemptID: attempt.id, State: attempt.state, Order: saved, CartStale: cartStale}, nil
}

// saveOrder persists the order. A failed save whose transaction did commit
// (the acknowledgement was lost) is detected by reading the order back, so
// stock for a durable order is never given back.
func (s *CheckoutService) saveOrder(ctx context.Context, log *slog.Logger, order domain.Order) (domain.Order, error) {
	saved, err := s.orders.SaveOrder(ctx, order)
	if err == nil {
		return saved, nil
	}

	existing, lookupErr := s.orders.GetOrder(context.WithoutCancel(ctx), order.ID)
	if lookupErr == nil {
		log.WarnContext(ctx, "order save reported failure but order is stored",
			slog.String("order_id", order.ID.String()),
			slog.String("error", err.Error()),
		)
		return existing, nil
	}

	return domain.Order{}, fmt.Errorf("orders.SaveOrder: %w", err)
}

// afterCommit runs the post-commit steps. None of them can undo the order;
// it reports whether the session cart was deleted.
func (s *CheckoutService) afterCommit(ctx context.Context, log *slog.Logger, attempt *checkoutAttempt, cartID string, order domain.Order) bool {
	cartDeleted := s.deleteCart(ctx, log, cartID)

	if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
		s.metrics.ObserveEventFailure(event.TypeOrderPlaced)
		log.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("order_id", order.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	for _, d := range attempt.applied {
		if d.remaining >= s.cfg.LowStockThreshold {
			continue
		}
		if err := s.publisher.PublishStockLow(ctx, d.productID, d.remaining); err != nil {
			s.metrics.ObserveEventFailure(event.TypeStockLow)
			log.ErrorContext(ctx, "failed to publish stock.low event",
				slog.String("product_id", d.productID.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	return cartDeleted
}

func (s *CheckoutService) deleteCart(ctx context.Context, log *slog.Logger, cartID string) bool {
	if s.carts == nil {
		return true
	}

	del := func() error {
		return s.carts.Delete(ctx, cartID)
	}
	notify := func(err error, wait time.Duration) {
		log.WarnContext(ctx, "session cart delete failed, retrying",
			slog.String("cart_id", cartID),
			slog.Duration("backoff", wait),
			slog.String("error", err.Error()),
		)
	}

	b := backoff.WithMaxRetries(s.cfg.Compensation.backOff(), cartDeleteRetries)
	if err := backoff.RetryNotify(del, b, notify); err != nil {
		log.ErrorContext(ctx, "failed to delete session cart after checkout",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

func (s *CheckoutService) abortWithCompensation(ctx context.Context, log *slog.Logger, attempt *checkoutAttempt, state domain.CheckoutState, cause error) (CheckoutResult, error) {
	if err := s.compensate(ctx, log, attempt); err != nil {
		cause = errors.Join(cause, err)
	}
	return s.abort(ctx, log, attempt, state, cause)
}

func (s *CheckoutService) abort(ctx context.Context, log *slog.Logger, attempt *checkoutAttempt, state domain.CheckoutState, cause error) (CheckoutResult, error) {
	if err := attempt.advance(state); err != nil {
		return CheckoutResult{}, errors.Join(err, cause)
	}

	level := slog.LevelInfo
	if state == domain.CheckoutAbortedPersistence || state == domain.CheckoutAbortedUnknownCustomer {
		level = slog.LevelError
	}
	log.Log(ctx, level, "checkout aborted",
		slog.String("state", string(state)),
		slog.String("error", cause.Error()),
	)

	return CheckoutResult{AttemptID: attempt.id, State: state}, &domain.CheckoutError{
		State:     state,
		AttemptID: attempt.id,
		Err:       cause,
	}
}
