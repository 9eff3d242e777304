// Package service implements request dispatch, the claim state machine,
// availability matching and the request detail view.
package service

import (
	"context"
	"time"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
	"github.com/slangop28/local-electrician-sub001/internal/events"
	"github.com/slangop28/local-electrician-sub001/internal/store"
	"github.com/slangop28/local-electrician-sub001/platform/idgen"
	"github.com/slangop28/local-electrician-sub001/platform/logger"
)

const maxIDAttempts = 5

// Store is the persistence the service needs. *store.Replicated satisfies it.
type Store interface {
	GetCustomer(ctx context.Context, id string) (domain.Customer, error)
	GetWorker(ctx context.Context, id string) (domain.Worker, error)
	CreateRequest(ctx context.Context, r domain.ServiceRequest, entry domain.RequestLog) error
	ApplyTransition(ctx context.Context, t store.Transition) (domain.ServiceRequest, error)
	GetRequest(ctx context.Context, id string) (domain.ServiceRequest, error)
	ListOpenRequests(ctx context.Context, workerID string) ([]domain.ServiceRequest, error)
	ListLogs(ctx context.Context, requestID string) ([]domain.RequestLog, error)
}

// CustomerResolver finds or creates the customer behind a request.
type CustomerResolver interface {
	Resolve(ctx context.Context, profile domain.CustomerProfile) (domain.Customer, error)
}

// Service is the requests application service.
type Service struct {
	store     Store
	customers CustomerResolver
	ids       idgen.Generator
	bus       events.Bus
	now       func() time.Time
	log       *logger.Logger
}

// New creates the requests service.
func New(st Store, customers CustomerResolver, ids idgen.Generator, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:     st,
		customers: customers,
		ids:       ids,
		bus:       bus,
		now:       time.Now,
		log:       log,
	}
}

// WithClock overrides the clock; used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.bus != nil {
		s.bus.Publish(ctx, e)
	}
}
