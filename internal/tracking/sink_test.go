package tracking

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sofiabenali/lunchwise-backend/pkg/metrics"
)

type recordingSink struct {
	events []Event
}

func (r *recordingSink) Track(_ context.Context, event Event) {
	r.events = append(r.events, event)
}

type panickySink struct{}

func (panickySink) Track(context.Context, Event) {
	panic("sink exploded")
}

func TestEmitSwallowsPanics(t *testing.T) {
	ctx := context.Background()
	Emit(ctx, panickySink{}, Event{Name: "whatever"})
	Emit(ctx, nil, Event{Name: "whatever"})
}

func TestMultiSinkIsolatesFailures(t *testing.T) {
	rec := &recordingSink{}
	multi := MultiSink{panickySink{}, rec}
	multi.Track(context.Background(), Event{Name: "checkout_conversion"})

	if len(rec.events) != 1 {
		t.Fatalf("expected event to reach healthy sink, got %d", len(rec.events))
	}
	if rec.events[0].Name != "checkout_conversion" {
		t.Fatalf("unexpected event %q", rec.events[0].Name)
	}
}

func TestPromSinkCountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink := NewPromSink(metrics.NewCheckoutMetrics(reg))
	sink.Track(context.Background(), Event{Name: "checkout_declined"})

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "checkout_tracking_events" {
			for _, m := range mf.GetMetric() {
				if m.GetCounter().GetValue() == 1 {
					found = true
				}
			}
		}
	}
	if !found {
		t.Fatal("expected event counter to increment")
	}
}
