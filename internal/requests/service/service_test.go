package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	customers "github.com/slangop28/local-electrician-sub001/internal/customers/service"
	"github.com/slangop28/local-electrician-sub001/internal/domain"
	"github.com/slangop28/local-electrician-sub001/internal/events"
	"github.com/slangop28/local-electrician-sub001/internal/store"
	"github.com/slangop28/local-electrician-sub001/internal/store/memstore"
	"github.com/slangop28/local-electrician-sub001/internal/store/sheets"
	"github.com/slangop28/local-electrician-sub001/platform/apperr"
	"github.com/slangop28/local-electrician-sub001/platform/idgen"
	"github.com/slangop28/local-electrician-sub001/platform/logger"
)

var fixedNow = time.Date(2026, 4, 12, 9, 30, 0, 0, time.UTC)

type sequence struct {
	mu   sync.Mutex
	next int
}

func (s *sequence) New(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return idgen.Format(prefix, fixedNow, s.next)
}

type fixture struct {
	svc     *Service
	primary *memstore.Store
	table   *sheets.MemTable
	bus     *events.InMemoryBus
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	primary := memstore.New()
	table := sheets.NewMemTable()
	log := logger.Nop()
	st := store.NewReplicated(primary, sheets.NewLedger(table), nil, log)
	ids := &sequence{}
	resolver := customers.New(st, ids, log).WithClock(func() time.Time { return fixedNow })
	bus := events.NewInMemoryBus(log)

	clock := fixedNow
	var mu sync.Mutex
	svc := New(st, resolver, ids, bus, log).WithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	})
	return fixture{svc: svc, primary: primary, table: table, bus: bus}
}

func broadcastInput(city string) CreateInput {
	return CreateInput{
		Broadcast:   true,
		ServiceType: "wiring",
		Urgency:     "High",
		Customer: domain.CustomerProfile{
			Name:    "Test User",
			Phone:   "9998887776",
			City:    city,
			Pincode: "123456",
		},
	}
}

func TestCreateWritesRequestAndCreatedLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, broadcastInput("TestCity"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RequestID != "REQ-20260412-0002" || res.CustomerID != "CUST-20260412-0001" {
		t.Fatalf("unexpected ids %+v", res)
	}

	req, err := f.primary.GetRequest(ctx, res.RequestID)
	if err != nil {
		t.Fatalf("request not stored: %v", err)
	}
	if req.Status != domain.StatusNew || !req.Assignment.IsUnassigned() {
		t.Fatalf("unexpected stored request %+v", req)
	}
	logs, _ := f.primary.ListLogs(ctx, res.RequestID)
	if len(logs) != 1 || logs[0].Status != domain.StatusNew || logs[0].Description != "created" {
		t.Fatalf("expected exactly one created log, got %+v", logs)
	}
	if f.table.Len(sheets.TabRequests) != 1 || f.table.Len(sheets.TabRequestLogs) != 1 {
		t.Fatal("expected the mirror to receive the request and its log")
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := broadcastInput("")
	if _, err := f.svc.Create(ctx, in); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for broadcast without city, got %v", err)
	}

	direct := broadcastInput("Delhi")
	direct.Broadcast = false
	if _, err := f.svc.Create(ctx, direct); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for direct without workerId, got %v", err)
	}

	direct.WorkerID = "ELEC-1"
	res, err := f.svc.Create(ctx, direct)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req, _ := f.primary.GetRequest(ctx, res.RequestID)
	if !req.Assignment.IsAssignedTo("ELEC-1") {
		t.Fatalf("expected direct assignment, got %s", req.Assignment)
	}
}

func TestCreateSucceedsWhenMirrorDown(t *testing.T) {
	f := newFixture(t)
	f.table.Err = errors.New("sheets quota")

	if _, err := f.svc.Create(context.Background(), broadcastInput("Delhi")); err != nil {
		t.Fatalf("expected success despite mirror failure, got %v", err)
	}
}

func TestCreateFailsWhenAuthoritativeDown(t *testing.T) {
	f := newFixture(t)
	f.primary.Err = errors.New("db down")

	_, err := f.svc.Create(context.Background(), broadcastInput("Delhi"))
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestConcurrentAcceptExactlyOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.svc.Create(ctx, broadcastInput("Delhi"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
		errs    []error
	)
	for i := 0; i < workers; i++ {
		actor := idgen.Format(idgen.PrefixWorker, fixedNow, i+1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Transition(ctx, TransitionInput{RequestID: res.RequestID, ActorID: actor, Action: "accept"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners = append(winners, actor)
				return
			}
			errs = append(errs, err)
		}()
	}
	wg.Wait()

	if len(winners) != 1 {
		t.Fatalf("expected exactly one winner, got %v", winners)
	}
	for _, err := range errs {
		if !apperr.Is(err, apperr.KindConflict) {
			t.Fatalf("expected conflict for losers, got %v", err)
		}
	}

	req, _ := f.primary.GetRequest(ctx, res.RequestID)
	if req.Status != domain.StatusAccepted || !req.Assignment.IsAssignedTo(winners[0]) {
		t.Fatalf("expected request accepted by %s, got %+v", winners[0], req)
	}
	logs, _ := f.primary.ListLogs(ctx, res.RequestID)
	if len(logs) != 2 {
		t.Fatalf("expected created plus one accepted log, got %d", len(logs))
	}
}

func TestForeignWorkerCannotCompleteOrCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, _ := f.svc.Create(ctx, broadcastInput("Delhi"))
	if _, err := f.svc.Transition(ctx, TransitionInput{RequestID: res.RequestID, ActorID: "ELEC-A", Action: "accept"}); err != nil {
		t.Fatalf("accept: %v", err)
	}

	for _, action := range []string{"complete", "cancel", "decline"} {
		_, err := f.svc.Transition(ctx, TransitionInput{RequestID: res.RequestID, ActorID: "ELEC-B", Action: action})
		if !apperr.Is(err, apperr.KindForbidden) {
			t.Fatalf("%s: expected forbidden, got %v", action, err)
		}
	}

	req, _ := f.primary.GetRequest(ctx, res.RequestID)
	if req.Status != domain.StatusAccepted || !req.Assignment.IsAssignedTo("ELEC-A") {
		t.Fatalf("request must be unchanged, got %+v", req)
	}

	updated, err := f.svc.Transition(ctx, TransitionInput{RequestID: res.RequestID, ActorID: "ELEC-A", Action: "complete"})
	if err != nil || updated.Status != domain.StatusSuccess || updated.CompletedAt == nil {
		t.Fatalf("expected completion by assignee, got %+v %v", updated, err)
	}
}

func TestTransitionErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, _ := f.svc.Create(ctx, broadcastInput("Delhi"))

	tests := []struct {
		name string
		in   TransitionInput
		kind apperr.Kind
	}{
		{"unknown action", TransitionInput{RequestID: res.RequestID, ActorID: "ELEC-A", Action: "reopen"}, apperr.KindValidation},
		{"unknown request", TransitionInput{RequestID: "REQ-404", ActorID: "ELEC-A", Action: "accept"}, apperr.KindNotFound},
		{"decline broadcast", TransitionInput{RequestID: res.RequestID, ActorID: "ELEC-A", Action: "decline"}, apperr.KindForbidden},
		{"complete before accept", TransitionInput{RequestID: res.RequestID, ActorID: "ELEC-A", Action: "complete"}, apperr.KindForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Transition(ctx, tc.in); !apperr.Is(err, tc.kind) {
				t.Fatalf("expected kind %d, got %v", tc.kind, err)
			}
		})
	}
}

func TestAcceptDenormalizesWorker(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.primary.UpsertWorker(ctx, domain.Worker{ID: "ELEC-7", Name: "Ravi", Phone: "9000000007", City: "Delhi", Status: domain.WorkerVerified}); err != nil {
		t.Fatalf("seed worker: %v", err)
	}
	res, _ := f.svc.Create(ctx, broadcastInput("Delhi"))

	updated, err := f.svc.Transition(ctx, TransitionInput{
		RequestID: res.RequestID, ActorID: "ELEC-7", Action: "accept", ActorPhone: "9111111111",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.WorkerSnapshot{Name: "Ravi", Phone: "9111111111", City: "Delhi"}
	if updated.Worker != want {
		t.Fatalf("expected %+v, got %+v", want, updated.Worker)
	}
}

func TestAvailableCityMatching(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	newDelhi, _ := f.svc.Create(ctx, broadcastInput("New Delhi"))
	mumbai := broadcastInput("Mumbai")
	mumbai.Customer.Phone = "9000000001"
	if _, err := f.svc.Create(ctx, mumbai); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	direct := broadcastInput("Pune")
	direct.Broadcast = false
	direct.WorkerID = "ELEC-1"
	direct.Customer.Phone = "9000000002"
	directRes, _ := f.svc.Create(ctx, direct)
	other := direct
	other.WorkerID = "ELEC-2"
	other.Customer.Phone = "9000000003"
	if _, err := f.svc.Create(ctx, other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := f.svc.Available(ctx, "Delhi", "ELEC-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != directRes.RequestID || got[1].ID != newDelhi.RequestID {
		t.Fatalf("expected direct then New Delhi request, got %+v", got)
	}
	if !got[0].IsDirect() || got[1].IsDirect() {
		t.Fatal("unexpected isDirect flags")
	}

	if _, err := f.svc.Available(ctx, " ", "ELEC-1"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for missing city, got %v", err)
	}
}

func TestAvailableFallbackMatchesPrimary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i, city := range []string{"Delhi", "New Delhi", "Mumbai"} {
		in := broadcastInput(city)
		in.Customer.Phone = fmt.Sprintf("900000000%d", i+1)
		if _, err := f.svc.Create(ctx, in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	primary, err := f.svc.Available(ctx, "delhi", "ELEC-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.primary.Err = errors.New("db down")
	mirrored, err := f.svc.Available(ctx, "delhi", "ELEC-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(primary) != 2 || len(mirrored) != len(primary) {
		t.Fatalf("expected two matches from both paths, got %d and %d", len(primary), len(mirrored))
	}
	for i := range primary {
		a, b := primary[i], mirrored[i]
		if a.ID != b.ID || a.Customer != b.Customer || a.Status != b.Status || !a.CreatedAt.Equal(b.CreatedAt) {
			t.Fatalf("row %d differs:\nprimary %+v\nmirror  %+v", i, a, b)
		}
	}
}

func TestDetailAssemblesTimeline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, _ := f.svc.Create(ctx, broadcastInput("Delhi"))
	if _, err := f.svc.Transition(ctx, TransitionInput{RequestID: res.RequestID, ActorID: "ELEC-1", Action: "accept"}); err != nil {
		t.Fatalf("accept: %v", err)
	}

	d, err := f.svc.Detail(ctx, res.RequestID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Customer == nil || d.Customer.ID != res.CustomerID {
		t.Fatalf("expected customer, got %+v", d.Customer)
	}
	if d.Worker != nil {
		t.Fatalf("expected no worker record for an unregistered worker, got %+v", d.Worker)
	}
	if len(d.Timeline) != 2 || d.Timeline[1].Status != domain.StatusAccepted {
		t.Fatalf("unexpected timeline %+v", d.Timeline)
	}

	if _, err := f.svc.Detail(ctx, "REQ-404"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEventsPublished(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var mu sync.Mutex
	var names []string
	record := events.HandlerFunc(func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		names = append(names, e.EventName())
		return nil
	})
	f.bus.Subscribe(events.NameRequestCreated, record)
	f.bus.Subscribe(events.NameRequestStatusChanged, record)

	res, _ := f.svc.Create(ctx, broadcastInput("Delhi"))
	if _, err := f.svc.Transition(ctx, TransitionInput{RequestID: res.RequestID, ActorID: "ELEC-1", Action: "accept"}); err != nil {
		t.Fatalf("accept: %v", err)
	}
	f.bus.Wait()

	if len(names) != 2 {
		t.Fatalf("expected two events, got %v", names)
	}
}
