package tracking

import (
	"context"

	"github.com/sofiabenali/lunchwise-backend/pkg/logger"
	"github.com/sofiabenali/lunchwise-backend/pkg/metrics"
)

// Event is a fire-and-forget analytics record.
type Event struct {
	Name     string
	Category string
	Action   string
	Label    string
	Value    int
}

// Sink receives tracking events. Implementations must never block the
// caller and must never propagate a failure back into the checkout flow.
type Sink interface {
	Track(ctx context.Context, event Event)
}

// Emit delivers an event to the sink, swallowing nil sinks and panics.
// Every caller in the flow goes through this helper so a broken sink can
// never take down a checkout.
func Emit(ctx context.Context, sink Sink, event Event) {
	if sink == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	sink.Track(ctx, event)
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) Track(context.Context, Event) {}

// LogSink writes events to the structured log.
type LogSink struct {
	logg *logger.Logger
}

// NewLogSink builds a sink that logs each event.
func NewLogSink(logg *logger.Logger) *LogSink {
	return &LogSink{logg: logg}
}

func (s *LogSink) Track(ctx context.Context, event Event) {
	if s == nil || s.logg == nil {
		return
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"event":    event.Name,
		"category": event.Category,
		"action":   event.Action,
		"label":    event.Label,
		"value":    event.Value,
	})
	s.logg.Info(ctx, "tracking.event")
}

// PromSink counts events on the checkout metrics.
type PromSink struct {
	metrics *metrics.CheckoutMetrics
}

// NewPromSink builds a sink backed by prometheus counters.
func NewPromSink(m *metrics.CheckoutMetrics) *PromSink {
	return &PromSink{metrics: m}
}

func (s *PromSink) Track(_ context.Context, event Event) {
	if s == nil {
		return
	}
	s.metrics.IncEvent(event.Name)
}

// MultiSink fans an event out to several sinks, isolating each from the
// others' panics.
type MultiSink []Sink

func (m MultiSink) Track(ctx context.Context, event Event) {
	for _, sink := range m {
		Emit(ctx, sink, event)
	}
}
