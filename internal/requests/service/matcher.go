package service

import (
	"context"
	"strings"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
	"github.com/slangop28/local-electrician-sub001/platform/apperr"
)

// Available returns the NEW requests a worker may claim: broadcast requests whose
// customer city matches city, plus requests addressed to workerID. Requests
// addressed to the worker are included whatever their city. Newest first.
func (s *Service) Available(ctx context.Context, city, workerID string) ([]domain.ServiceRequest, error) {
	if strings.TrimSpace(city) == "" {
		return nil, apperr.Validation("city is required").WithOp("requests.Available")
	}
	workerID = strings.TrimSpace(workerID)

	open, err := s.store.ListOpenRequests(ctx, workerID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ServiceRequest, 0, len(open))
	for _, r := range open {
		if r.Status != domain.StatusNew {
			continue
		}
		switch {
		case r.Assignment.IsUnassigned():
			if domain.CityMatches(r.Customer.City, city) {
				out = append(out, r)
			}
		case r.Assignment.IsAssignedTo(workerID):
			out = append(out, r)
		}
	}
	return out, nil
}
