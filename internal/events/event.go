// Package events defines the events published by dispatch, lifecycle and
// reconciliation. The bus itself lives in platform/events.
package events

import (
	"github.com/slangop28/local-electrician-sub001/platform/events"
	"github.com/slangop28/local-electrician-sub001/platform/logger"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates the process-local bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// Event names.
const (
	NameRequestCreated       = "requests.created"
	NameRequestStatusChanged = "requests.status_changed"
	NameReconcileCompleted   = "reconcile.completed"
)

// RequestCreated is published after a service request is persisted.
type RequestCreated struct {
	BaseEvent
	RequestID  string `json:"requestId"`
	CustomerID string `json:"customerId"`
	WorkerID   string `json:"workerId,omitempty"`
	City       string `json:"city"`
	Direct     bool   `json:"isDirect"`
}

func (e RequestCreated) EventName() string { return NameRequestCreated }

// Mode labels the dispatch mode for metrics.
func (e RequestCreated) Mode() string {
	if e.Direct {
		return "direct"
	}
	return "broadcast"
}

// RequestStatusChanged is published after a lifecycle transition is committed.
type RequestStatusChanged struct {
	BaseEvent
	RequestID  string `json:"requestId"`
	ActorID    string `json:"actorId"`
	Action     string `json:"action"`
	FromStatus string `json:"fromStatus"`
	ToStatus   string `json:"toStatus"`
}

func (e RequestStatusChanged) EventName() string { return NameRequestStatusChanged }

// EntityCounts are the per-entity tallies of one reconciliation run.
type EntityCounts struct {
	Processed      int `json:"processed"`
	Synced         int `json:"synced"`
	VerifiedSynced int `json:"verified_synced,omitempty"`
	Errors         int `json:"errors"`
}

// ReconcileCompleted is published when a mirror reconciliation run finishes.
type ReconcileCompleted struct {
	BaseEvent
	Trigger string       `json:"trigger"`
	Users   EntityCounts `json:"users"`
	Workers EntityCounts `json:"workers"`
}

func (e ReconcileCompleted) EventName() string { return NameReconcileCompleted }
