package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/nikolayk812/foodcart/internal/metrics"
)

type CompensationConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// MaxElapsedTime of zero retries each increment until it succeeds.
	MaxElapsedTime time.Duration
}

func DefaultCompensationConfig() CompensationConfig {
	return CompensationConfig{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		MaxElapsedTime:  0,
	}
}

func (c CompensationConfig) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	if c.InitialInterval > 0 {
		b.InitialInterval = c.InitialInterval
	}
	if c.MaxInterval > 0 {
		b.MaxInterval = c.MaxInterval
	}
	b.MaxElapsedTime = c.MaxElapsedTime
	b.Reset()
	return b
}

// compensate gives back every decrement of the attempt in reverse order.
// It ignores cancellation of ctx. Lines already given back are skipped, so
// calling it twice credits stock once.
func (s *CheckoutService) compensate(ctx context.Context, log *slog.Logger, attempt *checkoutAttempt) error {
	ctx = context.WithoutCancel(ctx)

	ctx, span := tracer.Start(ctx, "checkout.compensate")
	defer span.End()

	var errs []error
	for i := len(attempt.applied) - 1; i >= 0; i-- {
		d := attempt.applied[i]
		if attempt.compensated[d.productID] {
			continue
		}

		if err := s.restore(ctx, log, attempt, d); err != nil {
			errs = append(errs, err)
			continue
		}
		attempt.compensated[d.productID] = true
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{domain.ErrCompensationIncomplete}, errs...)...)
	}
	return nil
}

func (s *CheckoutService) restore(ctx context.Context, log *slog.Logger, attempt *checkoutAttempt, d stockDecrement) error {
	increment := func() error {
		err := s.products.IncrementStock(ctx, attempt.id, d.productID, d.quantity)
		if errors.Is(err, domain.ErrProductNotFound) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		s.metrics.ObserveCompensation(metrics.CompensationRetried)
		log.WarnContext(ctx, "stock compensation failed, retrying",
			slog.String("product_id", d.productID.String()),
			slog.Int("quantity", d.quantity),
			slog.Duration("backoff", wait),
			slog.String("error", err.Error()),
		)
	}

	if err := backoff.RetryNotify(increment, s.cfg.Compensation.backOff(), notify); err != nil {
		s.metrics.ObserveCompensation(metrics.CompensationFailed)
		log.ErrorContext(ctx, "stock compensation gave up",
			slog.String("product_id", d.productID.String()),
			slog.Int("quantity", d.quantity),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("restore product[%s] quantity[%d]: %w", d.productID, d.quantity, err)
	}

	s.metrics.ObserveCompensation(metrics.CompensationRestored)
	return nil
}
