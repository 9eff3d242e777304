package telemetry

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/slangop28/local-electrician-sub001/internal/events"
	"github.com/slangop28/local-electrician-sub001/platform/logger"
	"github.com/slangop28/local-electrician-sub001/platform/metrics"
)

func value(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatal(err)
	}
	return m.GetCounter().GetValue()
}

func TestSubscriberCountsEvents(t *testing.T) {
	bus := events.NewInMemoryBus(logger.Nop())
	New(logger.Nop()).Subscribe(bus)
	ctx := context.Background()

	created := metrics.RequestsCreatedTotal.WithLabelValues("broadcast")
	accepted := metrics.TransitionsTotal.WithLabelValues("accept", "ACCEPTED")
	verified := metrics.ReconcileRowsTotal.WithLabelValues("workers", "verified_synced")
	before := []float64{value(t, created), value(t, accepted), value(t, verified)}

	if err := bus.PublishSync(ctx, events.RequestCreated{BaseEvent: events.NewBaseEvent(), RequestID: "REQ-1", City: "Pune"}); err != nil {
		t.Fatal(err)
	}
	if err := bus.PublishSync(ctx, events.RequestStatusChanged{BaseEvent: events.NewBaseEvent(), RequestID: "REQ-1", Action: "accept", ToStatus: "ACCEPTED"}); err != nil {
		t.Fatal(err)
	}
	if err := bus.PublishSync(ctx, events.ReconcileCompleted{BaseEvent: events.NewBaseEvent(), Workers: events.EntityCounts{Processed: 3, Synced: 3, VerifiedSynced: 2}}); err != nil {
		t.Fatal(err)
	}

	after := []float64{value(t, created), value(t, accepted), value(t, verified)}
	want := []float64{1, 1, 2}
	for i := range want {
		if got := after[i] - before[i]; got != want[i] {
			t.Errorf("metric %d delta = %v, want %v", i, got, want[i])
		}
	}
}
