package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
	"github.com/slangop28/local-electrician-sub001/internal/events"
	"github.com/slangop28/local-electrician-sub001/internal/store"
	"github.com/slangop28/local-electrician-sub001/platform/apperr"
	"github.com/slangop28/local-electrician-sub001/platform/idgen"
	"github.com/slangop28/local-electrician-sub001/platform/sanitize"
)

// CreateInput is a new service request. Broadcast requests may still carry a
// WorkerID, which pre-targets them exactly like a direct request.
type CreateInput struct {
	Broadcast     bool
	WorkerID      string
	ServiceType   string
	Urgency       string
	PreferredDate string
	PreferredSlot string
	Description   string
	Customer      domain.CustomerProfile
	Latitude      *float64
	Longitude     *float64
}

// CreateResult identifies the created request and its customer.
type CreateResult struct {
	RequestID  string
	CustomerID string
}

func (in CreateInput) missing() []string {
	var fields []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			fields = append(fields, name)
		}
	}
	check("serviceType", in.ServiceType)
	check("urgency", in.Urgency)
	check("customerName", in.Customer.Name)
	check("customerPhone", in.Customer.Phone)
	if in.Broadcast {
		check("city", in.Customer.City)
	} else {
		check("workerId", in.WorkerID)
	}
	return fields
}

// Create resolves the customer, then persists a NEW request together with its
// "created" log entry.
func (s *Service) Create(ctx context.Context, in CreateInput) (CreateResult, error) {
	if fields := in.missing(); len(fields) > 0 {
		return CreateResult{}, apperr.Validation("missing required fields").
			WithOp("requests.Create").
			WithDetails(map[string]any{"fields": fields})
	}

	customer, err := s.customers.Resolve(ctx, in.Customer)
	if err != nil {
		return CreateResult{}, err
	}

	now := s.now().UTC()
	req := domain.ServiceRequest{
		CustomerID:    customer.ID,
		Assignment:    domain.AssignedTo(in.WorkerID),
		ServiceType:   sanitize.Line(in.ServiceType),
		Urgency:       sanitize.Line(in.Urgency),
		Status:        domain.StatusNew,
		PreferredDate: sanitize.Line(in.PreferredDate),
		PreferredSlot: sanitize.Line(in.PreferredSlot),
		Description:   sanitize.Text(in.Description),
		Customer: domain.CustomerSnapshot{
			Name:    customer.Name,
			Phone:   customer.Phone,
			Address: customer.Address,
			City:    customer.City,
			Pincode: customer.Pincode,
		},
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		req.ID = s.ids.New(idgen.PrefixRequest)
		entry := domain.RequestLog{
			ID:          uuid.NewString(),
			RequestID:   req.ID,
			Status:      domain.StatusNew,
			Description: "created",
			CreatedAt:   now,
		}
		err = s.store.CreateRequest(ctx, req, entry)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return CreateResult{}, err
		}
	}
	if err != nil {
		return CreateResult{}, apperr.Internal("could not allocate a request id").WithOp("requests.Create")
	}

	workerID, direct := req.Assignment.WorkerID()
	s.log.WithContext(ctx).Info("service request created",
		"request_id", req.ID, "customer_id", customer.ID, "direct", direct)
	s.publish(ctx, events.RequestCreated{
		BaseEvent:  events.NewBaseEvent(),
		RequestID:  req.ID,
		CustomerID: customer.ID,
		WorkerID:   workerID,
		City:       req.Customer.City,
		Direct:     direct,
	})

	return CreateResult{RequestID: req.ID, CustomerID: customer.ID}, nil
}
