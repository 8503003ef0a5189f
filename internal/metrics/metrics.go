package metrics

import (
	"time"

	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Compensation results.
const (
	CompensationRestored = "restored"
	CompensationRetried  = "retried"
	CompensationFailed   = "failed"
)

// Checkout holds checkout metrics. A nil *Checkout records nothing.
type Checkout struct {
	outcomes      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	compensations *prometheus.CounterVec
	eventsFailed  *prometheus.CounterVec
}

func NewCheckout(reg prometheus.Registerer) *Checkout {
	factory := promauto.With(reg)

	return &Checkout{
		outcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "foodcart_checkout_outcomes_total",
				Help: "Checkout attempts by terminal state",
			},
			[]string{"state"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "foodcart_checkout_duration_seconds",
				Help:    "Checkout duration in seconds by terminal state",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"state"},
		),
		compensations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "foodcart_stock_compensations_total",
				Help: "Stock compensation increments by result",
			},
			[]string{"result"},
		),
		eventsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "foodcart_post_commit_event_failures_total",
				Help: "Post-commit events that could not be published",
			},
			[]string{"event_type"},
		),
	}
}

func (m *Checkout) ObserveCheckout(state domain.CheckoutState, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(string(state)).Inc()
	m.duration.WithLabelValues(string(state)).Observe(elapsed.Seconds())
}

func (m *Checkout) ObserveCompensation(result string) {
	if m == nil {
		return
	}
	m.compensations.WithLabelValues(result).Inc()
}

func (m *Checkout) ObserveEventFailure(eventType string) {
	if m == nil {
		return
	}
	m.eventsFailed.WithLabelValues(eventType).Inc()
}
