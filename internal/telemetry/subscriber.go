// Package telemetry turns domain events into metrics and audit log lines.
package telemetry

import (
	"context"

	"github.com/slangop28/local-electrician-sub001/internal/events"
	"github.com/slangop28/local-electrician-sub001/platform/logger"
	"github.com/slangop28/local-electrician-sub001/platform/metrics"
)

// Subscriber records request and reconciliation events.
type Subscriber struct {
	log *logger.Logger
}

// New creates the subscriber.
func New(log *logger.Logger) *Subscriber {
	return &Subscriber{log: log}
}

// Subscribe registers handlers on the bus.
func (s *Subscriber) Subscribe(bus events.Bus) {
	bus.Subscribe(events.NameRequestCreated, events.HandlerFunc(s.onCreated))
	bus.Subscribe(events.NameRequestStatusChanged, events.HandlerFunc(s.onStatusChanged))
	bus.Subscribe(events.NameReconcileCompleted, events.HandlerFunc(s.onReconciled))
}

func (s *Subscriber) onCreated(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.RequestCreated)
	if !ok {
		return nil
	}
	metrics.RequestsCreatedTotal.WithLabelValues(ev.Mode()).Inc()
	s.log.WithContext(ctx).Info("service request created",
		"request_id", ev.RequestID, "customer_id", ev.CustomerID, "mode", ev.Mode(), "city", ev.City)
	return nil
}

func (s *Subscriber) onStatusChanged(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.RequestStatusChanged)
	if !ok {
		return nil
	}
	metrics.TransitionsTotal.WithLabelValues(ev.Action, ev.ToStatus).Inc()
	s.log.WithContext(ctx).Info("service request transitioned",
		"request_id", ev.RequestID, "actor_id", ev.ActorID, "from", ev.FromStatus, "to", ev.ToStatus)
	return nil
}

func (s *Subscriber) onReconciled(_ context.Context, e events.Event) error {
	ev, ok := e.(events.ReconcileCompleted)
	if !ok {
		return nil
	}
	addRows("users", ev.Users)
	addRows("workers", ev.Workers)
	return nil
}

func addRows(entity string, c events.EntityCounts) {
	metrics.ReconcileRowsTotal.WithLabelValues(entity, "synced").Add(float64(c.Synced))
	metrics.ReconcileRowsTotal.WithLabelValues(entity, "error").Add(float64(c.Errors))
	if c.VerifiedSynced > 0 {
		metrics.ReconcileRowsTotal.WithLabelValues(entity, "verified_synced").Add(float64(c.VerifiedSynced))
	}
}
