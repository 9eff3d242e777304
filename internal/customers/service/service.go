// Package service resolves customer identity and serves the customer-facing read views.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
	"github.com/slangop28/local-electrician-sub001/internal/store"
	"github.com/slangop28/local-electrician-sub001/platform/apperr"
	"github.com/slangop28/local-electrician-sub001/platform/idgen"
	"github.com/slangop28/local-electrician-sub001/platform/logger"
	"github.com/slangop28/local-electrician-sub001/platform/phone"
	"github.com/slangop28/local-electrician-sub001/platform/sanitize"
)

const maxIDAttempts = 5

// Store is the persistence the service needs. *store.Replicated satisfies it.
type Store interface {
	GetCustomer(ctx context.Context, id string) (domain.Customer, error)
	FindCustomerByPhone(ctx context.Context, phone string) (domain.Customer, error)
	FindCustomerByEmail(ctx context.Context, email string) (domain.Customer, error)
	CreateCustomer(ctx context.Context, c domain.Customer) error
	SaveCustomer(ctx context.Context, c domain.Customer) error
	ListCustomerRequests(ctx context.Context, customerID string) ([]domain.ServiceRequest, error)
}

// Service implements identity resolution and the customer views.
type Service struct {
	store Store
	ids   idgen.Generator
	now   func() time.Time
	log   *logger.Logger
}

// New creates the customer service.
func New(st Store, ids idgen.Generator, log *logger.Logger) *Service {
	return &Service{store: st, ids: ids, now: time.Now, log: log}
}

// WithClock overrides the clock; used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func cleanProfile(p domain.CustomerProfile) domain.CustomerProfile {
	return domain.CustomerProfile{
		Name:    sanitize.Line(p.Name),
		Phone:   phone.Clean(p.Phone),
		Email:   sanitize.Email(p.Email),
		City:    sanitize.Line(p.City),
		Pincode: sanitize.Line(p.Pincode),
		Address: sanitize.Line(p.Address),
	}
}

// Resolve finds the customer identified by the profile's phone or email, merges
// the supplied fields into it and persists the result, or creates a new customer.
// Lookup order is exact phone, alternate phone form, then email.
func (s *Service) Resolve(ctx context.Context, profile domain.CustomerProfile) (domain.Customer, error) {
	p := cleanProfile(profile)
	if p.Phone == "" && p.Email == "" {
		return domain.Customer{}, apperr.Validation("phone or email is required").WithOp("customers.Resolve")
	}

	existing, found, err := s.find(ctx, p.Phone, p.Email)
	if err != nil {
		return domain.Customer{}, err
	}

	if found {
		merged := existing.Merge(p)
		merged.UpdatedAt = s.now().UTC()
		if err := s.store.SaveCustomer(ctx, merged); err != nil {
			return domain.Customer{}, err
		}
		return merged, nil
	}

	return s.create(ctx, p)
}

// Lookup finds an existing customer without creating one.
func (s *Service) Lookup(ctx context.Context, phoneNumber, email string) (domain.Customer, bool, error) {
	p := phone.Clean(phoneNumber)
	e := sanitize.Email(email)
	if p == "" && e == "" {
		return domain.Customer{}, false, apperr.Validation("phone or email is required").WithOp("customers.Lookup")
	}
	return s.find(ctx, p, e)
}

func (s *Service) find(ctx context.Context, phoneNumber, email string) (domain.Customer, bool, error) {
	var candidates []func(context.Context) (domain.Customer, error)
	if phoneNumber != "" {
		candidates = append(candidates, func(ctx context.Context) (domain.Customer, error) {
			return s.store.FindCustomerByPhone(ctx, phoneNumber)
		})
		if alt := phone.AltFormat(phoneNumber); alt != phoneNumber {
			candidates = append(candidates, func(ctx context.Context) (domain.Customer, error) {
				return s.store.FindCustomerByPhone(ctx, alt)
			})
		}
	}
	if email != "" {
		candidates = append(candidates, func(ctx context.Context) (domain.Customer, error) {
			return s.store.FindCustomerByEmail(ctx, email)
		})
	}

	for _, lookup := range candidates {
		c, err := lookup(ctx)
		if err == nil {
			return c, true, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return domain.Customer{}, false, err
		}
	}
	return domain.Customer{}, false, nil
}

func (s *Service) create(ctx context.Context, p domain.CustomerProfile) (domain.Customer, error) {
	now := s.now().UTC()
	c := domain.Customer{}.Merge(p)
	c.CreatedAt = now
	c.UpdatedAt = now

	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		c.ID = s.ids.New(idgen.PrefixCustomer)
		err := s.store.CreateCustomer(ctx, c)
		if err == nil {
			s.log.WithContext(ctx).Info("customer created", "customer_id", c.ID)
			return c, nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return domain.Customer{}, err
		}
	}
	return domain.Customer{}, apperr.Internal("could not allocate a customer id").WithOp("customers.create")
}

// ActiveRequest returns the customer's most recent NEW or ACCEPTED request.
func (s *Service) ActiveRequest(ctx context.Context, customerID string) (*domain.ServiceRequest, error) {
	if customerID == "" {
		return nil, apperr.Validation("customerId is required").WithOp("customers.ActiveRequest")
	}
	requests, err := s.store.ListCustomerRequests(ctx, customerID)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		if requests[i].Status.IsActive() {
			return &requests[i], nil
		}
	}
	return nil, nil
}

// History returns every request of the customer identified by phone or email,
// newest first. An unknown customer has an empty history.
func (s *Service) History(ctx context.Context, phoneNumber, email string) ([]domain.ServiceRequest, error) {
	c, found, err := s.Lookup(ctx, phoneNumber, email)
	if err != nil || !found {
		return nil, err
	}
	return s.store.ListCustomerRequests(ctx, c.ID)
}
