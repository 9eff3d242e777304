package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
	"github.com/slangop28/local-electrician-sub001/internal/store"
)

// Detail is the point-in-time view of one request.
type Detail struct {
	Request  domain.ServiceRequest
	Customer *domain.Customer
	Worker   *domain.Worker
	Timeline []domain.RequestLog
}

// Detail assembles the request with its customer, assigned worker and audit trail.
// Customer, worker and timeline are fetched concurrently; a missing customer or
// worker leaves that part empty.
func (s *Service) Detail(ctx context.Context, requestID string) (Detail, error) {
	req, err := s.loadRequest(ctx, requestID, "requests.Detail")
	if err != nil {
		return Detail{}, err
	}

	d := Detail{Request: req}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c, err := s.store.GetCustomer(gctx, req.CustomerID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		d.Customer = &c
		return nil
	})

	if workerID, ok := req.Assignment.WorkerID(); ok {
		g.Go(func() error {
			w, err := s.store.GetWorker(gctx, workerID)
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			d.Worker = &w
			return nil
		})
	}

	g.Go(func() error {
		logs, err := s.store.ListLogs(gctx, req.ID)
		if err != nil {
			return err
		}
		d.Timeline = logs
		return nil
	})

	if err := g.Wait(); err != nil {
		return Detail{}, err
	}
	return d, nil
}
