// Package store defines the persistence contracts for the two backends and the
// replicated facade that services use instead of talking to either directly.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
)

// Sentinel errors returned by both backends.
var (
	ErrNotFound        = errors.New("not found")
	ErrConditionFailed = errors.New("conditional update matched no rows")
	ErrDuplicate       = errors.New("duplicate natural id")
)

// Transition describes one conditional status change. Backends apply it as a
// single compare-and-swap: the row must be in one of From and, when Claim is
// set, be unassigned or assigned to ActorID; otherwise it must be assigned to
// ActorID. On success the log entry is written in the same unit of work.
type Transition struct {
	RequestID string
	ActorID   string
	From      []domain.RequestStatus
	To        domain.RequestStatus
	Claim     bool
	Worker    domain.WorkerSnapshot
	Log       domain.RequestLog
	At        time.Time
}

// Matches reports whether req satisfies the transition's condition.
func (t Transition) Matches(req domain.ServiceRequest) bool {
	inSource := false
	for _, s := range t.From {
		if req.Status == s {
			inSource = true
			break
		}
	}
	if !inSource {
		return false
	}
	if t.Claim {
		return req.Assignment.ClaimableBy(t.ActorID)
	}
	return req.Assignment.IsAssignedTo(t.ActorID)
}

// Apply returns req after the transition. The caller has already checked Matches.
func (t Transition) Apply(req domain.ServiceRequest) domain.ServiceRequest {
	at := t.At
	req.Status = t.To
	req.UpdatedAt = at
	if t.Claim {
		req.Assignment = domain.AssignedTo(t.ActorID)
		req.Worker = t.Worker
	}
	switch t.To {
	case domain.StatusAccepted:
		req.AcceptedAt = &at
	case domain.StatusSuccess:
		req.CompletedAt = &at
	case domain.StatusCancelled:
		req.CancelledAt = &at
	}
	return req
}

// CustomerStore is the customer surface shared by both backends.
type CustomerStore interface {
	GetCustomer(ctx context.Context, id string) (domain.Customer, error)
	FindCustomerByPhone(ctx context.Context, phone string) (domain.Customer, error)
	FindCustomerByEmail(ctx context.Context, email string) (domain.Customer, error)
	UpsertCustomer(ctx context.Context, c domain.Customer) error
}

// WorkerStore is the worker surface shared by both backends.
type WorkerStore interface {
	GetWorker(ctx context.Context, id string) (domain.Worker, error)
	UpsertWorker(ctx context.Context, w domain.Worker) error
}

// RequestReader is the read surface for service requests shared by both backends.
type RequestReader interface {
	GetRequest(ctx context.Context, id string) (domain.ServiceRequest, error)
	// ListOpenRequests returns NEW requests that are unassigned or assigned to workerID,
	// newest first. An empty workerID returns only unassigned requests.
	ListOpenRequests(ctx context.Context, workerID string) ([]domain.ServiceRequest, error)
	// ListCustomerRequests returns every request of a customer, newest first.
	ListCustomerRequests(ctx context.Context, customerID string) ([]domain.ServiceRequest, error)
	ListLogs(ctx context.Context, requestID string) ([]domain.RequestLog, error)
}

// Authoritative is the source-of-truth backend.
type Authoritative interface {
	CustomerStore
	WorkerStore
	RequestReader

	// InsertCustomer fails with ErrDuplicate when the id is taken.
	InsertCustomer(ctx context.Context, c domain.Customer) error
	UpsertVerifiedWorker(ctx context.Context, w domain.Worker) error
	// InsertRequest writes the request and its creation log together.
	// It fails with ErrDuplicate when the id is taken.
	InsertRequest(ctx context.Context, r domain.ServiceRequest, log domain.RequestLog) error
	// ApplyTransition fails with ErrConditionFailed when the guard did not hold
	// at write time and with ErrNotFound when the request does not exist.
	ApplyTransition(ctx context.Context, t Transition) (domain.ServiceRequest, error)
	Ping(ctx context.Context) error
}

// Mirror is the legacy best-effort backend.
type Mirror interface {
	CustomerStore
	WorkerStore
	RequestReader

	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	ListWorkers(ctx context.Context) ([]domain.Worker, error)
	InsertRequest(ctx context.Context, r domain.ServiceRequest) error
	// SaveRequest overwrites the row of an existing request.
	SaveRequest(ctx context.Context, r domain.ServiceRequest) error
	AppendLog(ctx context.Context, log domain.RequestLog) error
}
