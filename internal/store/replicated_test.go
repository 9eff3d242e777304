package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
	"github.com/slangop28/local-electrician-sub001/internal/store"
	"github.com/slangop28/local-electrician-sub001/internal/store/memstore"
	"github.com/slangop28/local-electrician-sub001/internal/store/sheets"
	"github.com/slangop28/local-electrician-sub001/platform/apperr"
	"github.com/slangop28/local-electrician-sub001/platform/logger"
)

type timeouts struct{}

func (timeouts) GetStoreTimeout() time.Duration  { return time.Second }
func (timeouts) GetMirrorTimeout() time.Duration { return time.Second }

func newReplicated() (*store.Replicated, *memstore.Store, *sheets.MemTable) {
	primary := memstore.New()
	table := sheets.NewMemTable()
	return store.NewReplicated(primary, sheets.NewLedger(table), timeouts{}, logger.Nop()), primary, table
}

func sampleRequest(id string) (domain.ServiceRequest, domain.RequestLog) {
	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	req := domain.ServiceRequest{
		ID:          id,
		CustomerID:  "CUST-1",
		ServiceType: "wiring",
		Status:      domain.StatusNew,
		Customer:    domain.CustomerSnapshot{Name: "Asha", Phone: "9998887776", City: "Delhi"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return req, domain.RequestLog{ID: "log-" + id, RequestID: id, Status: domain.StatusNew, Description: "created", CreatedAt: now}
}

func TestWriteSucceedsWhenMirrorFails(t *testing.T) {
	r, primary, table := newReplicated()
	table.Err = errors.New("quota exceeded")

	req, entry := sampleRequest("REQ-1")
	if err := r.CreateRequest(context.Background(), req, entry); err != nil {
		t.Fatalf("expected mirror failure to be swallowed, got %v", err)
	}
	if _, _, _, n := primary.Counts(); n != 1 {
		t.Fatalf("expected one authoritative request, got %d", n)
	}
}

func TestWriteFailsWhenAuthoritativeFails(t *testing.T) {
	r, primary, table := newReplicated()
	primary.Err = errors.New("connection refused")

	req, entry := sampleRequest("REQ-1")
	err := r.CreateRequest(context.Background(), req, entry)
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if table.Len(sheets.TabRequests) != 0 {
		t.Fatal("mirror must not be written when the authoritative write fails")
	}
}

func TestDuplicatePassesThrough(t *testing.T) {
	r, _, _ := newReplicated()
	req, entry := sampleRequest("REQ-1")
	ctx := context.Background()
	if err := r.CreateRequest(ctx, req, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.CreateRequest(ctx, req, entry); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestReadFallsBackWithIdenticalShape(t *testing.T) {
	r, primary, _ := newReplicated()
	ctx := context.Background()
	req, entry := sampleRequest("REQ-1")
	if err := r.CreateRequest(ctx, req, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fromPrimary, err := r.ListOpenRequests(ctx, "ELEC-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	primary.Err = errors.New("connection reset")
	fromMirror, err := r.ListOpenRequests(ctx, "ELEC-1")
	if err != nil {
		t.Fatalf("expected fallback to answer, got %v", err)
	}

	if len(fromPrimary) != 1 || len(fromMirror) != 1 {
		t.Fatalf("expected one request from each path, got %d and %d", len(fromPrimary), len(fromMirror))
	}
	a, b := fromPrimary[0], fromMirror[0]
	if a.ID != b.ID || a.Status != b.Status || a.Customer != b.Customer ||
		a.Assignment != b.Assignment || !a.CreatedAt.Equal(b.CreatedAt) {
		t.Fatalf("fallback shape differs:\nprimary %+v\nmirror  %+v", a, b)
	}
}

func TestReadFallsBackOnEmptyAnswer(t *testing.T) {
	r, _, table := newReplicated()
	table.Seed(sheets.TabUsers, sheets.UsersHeader,
		[]string{"CUST-9", "Legacy", "9998887776", "", "Pune", "", "", "", ""})

	c, err := r.FindCustomerByPhone(context.Background(), "9998887776")
	if err != nil {
		t.Fatalf("expected mirror hit, got %v", err)
	}
	if c.ID != "CUST-9" {
		t.Fatalf("expected CUST-9, got %q", c.ID)
	}
}

func TestReadBothStoresFailing(t *testing.T) {
	r, primary, table := newReplicated()
	primary.Err = errors.New("db down")
	table.Err = errors.New("sheets down")

	_, err := r.GetRequest(context.Background(), "REQ-1")
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestReadNotFoundEverywhere(t *testing.T) {
	r, _, _ := newReplicated()
	_, err := r.GetRequest(context.Background(), "REQ-404")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransitionConditionFailedPassesThrough(t *testing.T) {
	r, _, _ := newReplicated()
	ctx := context.Background()
	req, entry := sampleRequest("REQ-1")
	req.Assignment = domain.AssignedTo("ELEC-1")
	if err := r.CreateRequest(ctx, req, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := r.ApplyTransition(ctx, store.Transition{
		RequestID: "REQ-1",
		ActorID:   "ELEC-2",
		From:      []domain.RequestStatus{domain.StatusNew},
		To:        domain.StatusAccepted,
		Claim:     true,
		At:        time.Now(),
	})
	if !errors.Is(err, store.ErrConditionFailed) {
		t.Fatalf("expected ErrConditionFailed, got %v", err)
	}
}

func TestPointReadMissDuringOutageIsUpstream(t *testing.T) {
	r, primary, _ := newReplicated()
	primary.Err = errors.New("db down")
	ctx := context.Background()

	if _, err := r.GetRequest(ctx, "REQ-404"); !apperr.Is(err, apperr.KindUpstream) {
		t.Errorf("GetRequest: expected upstream error, got %v", err)
	}
	if _, err := r.GetCustomer(ctx, "CUST-404"); !apperr.Is(err, apperr.KindUpstream) {
		t.Errorf("GetCustomer: expected upstream error, got %v", err)
	}
}

func TestPointReadDuringOutageServedByMirror(t *testing.T) {
	r, primary, _ := newReplicated()
	ctx := context.Background()
	req, entry := sampleRequest("REQ-1")
	if err := r.CreateRequest(ctx, req, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	primary.Err = errors.New("db down")
	got, err := r.GetRequest(ctx, "REQ-1")
	if err != nil {
		t.Fatalf("expected mirror answer, got %v", err)
	}
	if got.ID != "REQ-1" || got.Status != domain.StatusNew {
		t.Fatalf("unexpected request %+v", got)
	}
}
