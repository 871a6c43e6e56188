package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records what happens to checkout attempts.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
	events   *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_attempt_duration_seconds",
		Help:    "Time from payment submission to a terminal checkout state.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_outcomes",
		Help: "Terminal checkout states by outcome destination.",
	}, []string{"outcome"})
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_tracking_events",
		Help: "Tracking events emitted by the checkout flow.",
	}, []string{"event"})
	reg.MustRegister(duration, outcomes, events)
	return &CheckoutMetrics{
		duration: duration,
		outcomes: outcomes,
		events:   events,
	}
}

// ObserveAttemptDuration records how long an attempt took for the method.
func (c *CheckoutMetrics) ObserveAttemptDuration(method string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(method)).Observe(duration.Seconds())
}

// IncOutcome increments the counter for the outcome destination.
func (c *CheckoutMetrics) IncOutcome(outcome string) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncEvent increments the counter for a tracking event name.
func (c *CheckoutMetrics) IncEvent(event string) {
	if c == nil || c.events == nil {
		return
	}
	c.events.WithLabelValues(normalizeLabel(event)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
