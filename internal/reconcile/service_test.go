package reconcile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
	"github.com/slangop28/local-electrician-sub001/internal/events"
	"github.com/slangop28/local-electrician-sub001/internal/reconcile"
	"github.com/slangop28/local-electrician-sub001/internal/store/memstore"
	"github.com/slangop28/local-electrician-sub001/internal/store/sheets"
	"github.com/slangop28/local-electrician-sub001/platform/apperr"
	"github.com/slangop28/local-electrician-sub001/platform/logger"
)

func seededLedger(t *testing.T) (*sheets.Ledger, *sheets.MemTable) {
	t.Helper()
	table := sheets.NewMemTable()
	ledger := sheets.NewLedger(table)
	ctx := context.Background()

	customers := []domain.Customer{
		{ID: "CUST-20240101-0001", Name: "Asha", Phone: "+919876543210", City: "Pune"},
		{ID: "CUST-20240101-0002", Name: "Ravi", Phone: "+919812345678", City: "Mumbai"},
	}
	for _, c := range customers {
		if err := ledger.UpsertCustomer(ctx, c); err != nil {
			t.Fatalf("seed customer: %v", err)
		}
	}
	workers := []domain.Worker{
		{ID: "ELEC-20240101-0001", Name: "Kiran", City: "Pune", Status: domain.WorkerVerified},
		{ID: "ELEC-20240101-0002", Name: "Mohan", City: "Pune", Status: domain.WorkerPending},
		{ID: "ELEC-20240101-0003", Name: "Suresh", City: "Nashik", Status: domain.WorkerVerified},
	}
	for _, w := range workers {
		if err := ledger.UpsertWorker(ctx, w); err != nil {
			t.Fatalf("seed worker: %v", err)
		}
	}
	return ledger, table
}

// failingTarget rejects one customer and one worker id.
type failingTarget struct {
	*memstore.Store
	badCustomer string
	badWorker   string
}

func (f failingTarget) UpsertCustomer(ctx context.Context, c domain.Customer) error {
	if c.ID == f.badCustomer {
		return errors.New("constraint violation")
	}
	return f.Store.UpsertCustomer(ctx, c)
}

func (f failingTarget) UpsertWorker(ctx context.Context, w domain.Worker) error {
	if w.ID == f.badWorker {
		return errors.New("constraint violation")
	}
	return f.Store.UpsertWorker(ctx, w)
}

func TestRunCopiesMirrorRows(t *testing.T) {
	ledger, _ := seededLedger(t)
	target := memstore.New()
	svc := reconcile.New(ledger, target, nil, nil, logger.Nop())

	res, err := svc.Run(context.Background(), "test")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.Users != (reconcile.Counts{Processed: 2, Synced: 2}) {
		t.Errorf("users = %+v", res.Users)
	}
	if res.Workers != (reconcile.Counts{Processed: 3, Synced: 3, VerifiedSynced: 2}) {
		t.Errorf("workers = %+v", res.Workers)
	}

	customers, workers, verified, _ := target.Counts()
	if customers != 2 || workers != 3 || verified != 2 {
		t.Errorf("counts = %d/%d/%d, want 2/3/2", customers, workers, verified)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	ledger, table := seededLedger(t)
	target := memstore.New()
	svc := reconcile.New(ledger, target, nil, nil, logger.Nop())
	ctx := context.Background()

	first, err := svc.Run(ctx, "test")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	before, _ := target.GetCustomer(ctx, "CUST-20240101-0001")
	usersRows := table.Len(sheets.TabUsers)

	second, err := svc.Run(ctx, "test")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first.Users != second.Users || first.Workers != second.Workers {
		t.Errorf("counts differ: %+v vs %+v", first, second)
	}

	after, _ := target.GetCustomer(ctx, "CUST-20240101-0001")
	if before != after {
		t.Errorf("customer changed between runs: %+v vs %+v", before, after)
	}
	customers, workers, verified, _ := target.Counts()
	if customers != 2 || workers != 3 || verified != 2 {
		t.Errorf("counts after rerun = %d/%d/%d", customers, workers, verified)
	}
	if got := table.Len(sheets.TabUsers); got != usersRows {
		t.Errorf("mirror was written: %d rows, want %d", got, usersRows)
	}
}

func TestRunCountsRowErrorsAndContinues(t *testing.T) {
	ledger, _ := seededLedger(t)
	target := failingTarget{Store: memstore.New(), badCustomer: "CUST-20240101-0001", badWorker: "ELEC-20240101-0001"}
	svc := reconcile.New(ledger, target, nil, nil, logger.Nop())

	res, err := svc.Run(context.Background(), "test")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Users != (reconcile.Counts{Processed: 2, Synced: 1, Errors: 1}) {
		t.Errorf("users = %+v", res.Users)
	}
	if res.Workers != (reconcile.Counts{Processed: 3, Synced: 2, VerifiedSynced: 1, Errors: 1}) {
		t.Errorf("workers = %+v", res.Workers)
	}
}

func TestRunMirrorUnavailable(t *testing.T) {
	ledger, table := seededLedger(t)
	table.Err = errors.New("quota exceeded")
	svc := reconcile.New(ledger, memstore.New(), nil, nil, logger.Nop())

	_, err := svc.Run(context.Background(), "test")
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("err = %v, want upstream", err)
	}
}

func TestRunPublishesCompletion(t *testing.T) {
	ledger, _ := seededLedger(t)
	bus := events.NewInMemoryBus(logger.Nop())
	got := make(chan events.ReconcileCompleted, 1)
	bus.Subscribe(events.NameReconcileCompleted, events.HandlerFunc(func(_ context.Context, e events.Event) error {
		got <- e.(events.ReconcileCompleted)
		return nil
	}))

	svc := reconcile.New(ledger, memstore.New(), nil, bus, logger.Nop())
	if _, err := svc.Run(context.Background(), "cron"); err != nil {
		t.Fatalf("run: %v", err)
	}
	bus.Wait()

	e := <-got
	if e.Trigger != "cron" || e.Users.Synced != 2 || e.Workers.VerifiedSynced != 2 {
		t.Errorf("event = %+v", e)
	}
}

func TestRunRejectsOverlap(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	locker := reconcile.NewRedisLocker(client, 0)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "reconcile:mirror:lock")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	ledger, _ := seededLedger(t)
	svc := reconcile.New(ledger, memstore.New(), locker, nil, logger.Nop())
	if _, err := svc.Run(ctx, "test"); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}

	if err := release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := svc.Run(ctx, "test"); err != nil {
		t.Fatalf("run after release: %v", err)
	}
	if mr.Exists("reconcile:mirror:lock") {
		t.Error("lock not released after run")
	}
}

func TestRedisLockerReleaseKeepsForeignToken(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	locker := reconcile.NewRedisLocker(client, 0)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "k")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	// Simulate expiry followed by another holder.
	if err := mr.Set("k", "someone-else"); err != nil {
		t.Fatal(err)
	}
	if err := release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if v, _ := mr.Get("k"); v != "someone-else" {
		t.Errorf("foreign lock was released, value %q", v)
	}
}
