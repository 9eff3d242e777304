// Package reconcile copies the legacy mirror's Users and Electricians tabs into
// the authoritative store. Runs only upsert; nothing is ever deleted.
package reconcile

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
	"github.com/slangop28/local-electrician-sub001/internal/events"
	"github.com/slangop28/local-electrician-sub001/platform/apperr"
	"github.com/slangop28/local-electrician-sub001/platform/logger"
)

const lockKey = "reconcile:mirror:lock"

// Source is the mirror side.
type Source interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	ListWorkers(ctx context.Context) ([]domain.Worker, error)
}

// Target is the authoritative side.
type Target interface {
	UpsertCustomer(ctx context.Context, c domain.Customer) error
	UpsertWorker(ctx context.Context, w domain.Worker) error
	UpsertVerifiedWorker(ctx context.Context, w domain.Worker) error
}

// Counts are the tallies for one entity type.
type Counts struct {
	Processed      int
	Synced         int
	VerifiedSynced int
	Errors         int
}

// Results are the tallies of one run.
type Results struct {
	Users    Counts
	Workers  Counts
	Duration time.Duration
}

// Service runs reconciliation.
type Service struct {
	source Source
	target Target
	locker Locker
	bus    events.Bus
	log    *logger.Logger
}

// New creates the service. A nil locker disables cross-process locking.
func New(source Source, target Target, locker Locker, bus events.Bus, log *logger.Logger) *Service {
	if locker == nil {
		locker = NopLocker{}
	}
	return &Service{source: source, target: target, locker: locker, bus: bus, log: log}
}

// Run reads both mirror tabs concurrently and upserts every row. Row failures
// are counted and skipped. trigger labels the run in logs and events.
func (s *Service) Run(ctx context.Context, trigger string) (Results, error) {
	const op = "reconcile.Run"
	if s.source == nil {
		return Results{}, apperr.Internal("mirror is not configured").WithOp(op)
	}

	release, err := s.locker.Acquire(ctx, lockKey)
	if errors.Is(err, ErrLocked) {
		return Results{}, apperr.Conflict("a reconciliation run is already in progress").WithOp(op)
	}
	if err != nil {
		return Results{}, apperr.Upstream("could not acquire reconciliation lock", err).WithOp(op)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn("reconcile lock release failed", "error", err)
		}
	}()

	start := time.Now()
	var (
		customers []domain.Customer
		workers   []domain.Worker
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		customers, err = s.source.ListCustomers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		workers, err = s.source.ListWorkers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Results{}, apperr.Upstream("mirror read failed", err).WithOp(op)
	}

	log := s.log.WithContext(ctx)
	res := Results{}
	for _, c := range customers {
		res.Users.Processed++
		if err := s.target.UpsertCustomer(ctx, c); err != nil {
			res.Users.Errors++
			log.Warn("reconcile customer failed", "customer_id", c.ID, "error", err)
			continue
		}
		res.Users.Synced++
	}

	for _, w := range workers {
		res.Workers.Processed++
		if err := s.target.UpsertWorker(ctx, w); err != nil {
			res.Workers.Errors++
			log.Warn("reconcile worker failed", "worker_id", w.ID, "error", err)
			continue
		}
		res.Workers.Synced++
		if !w.IsVerified() {
			continue
		}
		if err := s.target.UpsertVerifiedWorker(ctx, w); err != nil {
			res.Workers.Errors++
			log.Warn("reconcile verified worker failed", "worker_id", w.ID, "error", err)
			continue
		}
		res.Workers.VerifiedSynced++
	}
	res.Duration = time.Since(start)

	log.Info("reconciliation finished",
		"trigger", trigger,
		"users_processed", res.Users.Processed, "users_synced", res.Users.Synced, "users_errors", res.Users.Errors,
		"workers_processed", res.Workers.Processed, "workers_synced", res.Workers.Synced,
		"workers_verified_synced", res.Workers.VerifiedSynced, "workers_errors", res.Workers.Errors,
		"duration_ms", res.Duration.Milliseconds())

	if s.bus != nil {
		s.bus.Publish(ctx, events.ReconcileCompleted{
			BaseEvent: events.NewBaseEvent(),
			Trigger:   trigger,
			Users:     events.EntityCounts(res.Users),
			Workers:   events.EntityCounts(res.Workers),
		})
	}
	return res, nil
}
