// Package memstore is an in-memory authoritative store. It backs service tests
// and applies transitions as an atomic compare-and-swap under its own lock.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
	"github.com/slangop28/local-electrician-sub001/internal/store"
)

// Store implements store.Authoritative.
type Store struct {
	mu        sync.Mutex
	customers map[string]domain.Customer
	workers   map[string]domain.Worker
	verified  map[string]domain.Worker
	requests  map[string]domain.ServiceRequest
	logs      map[string][]domain.RequestLog

	// Err, when set, is returned by every call. Tests use it to simulate an outage.
	Err error
}

var _ store.Authoritative = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		customers: make(map[string]domain.Customer),
		workers:   make(map[string]domain.Worker),
		verified:  make(map[string]domain.Worker),
		requests:  make(map[string]domain.ServiceRequest),
		logs:      make(map[string][]domain.RequestLog),
	}
}

func (s *Store) lock() (func(), error) {
	s.mu.Lock()
	if s.Err != nil {
		s.mu.Unlock()
		return nil, s.Err
	}
	return s.mu.Unlock, nil
}

func (s *Store) Ping(context.Context) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	unlock()
	return nil
}

func (s *Store) GetCustomer(_ context.Context, id string) (domain.Customer, error) {
	unlock, err := s.lock()
	if err != nil {
		return domain.Customer{}, err
	}
	defer unlock()
	c, ok := s.customers[id]
	if !ok {
		return domain.Customer{}, store.ErrNotFound
	}
	return c, nil
}

func (s *Store) FindCustomerByPhone(_ context.Context, phone string) (domain.Customer, error) {
	unlock, err := s.lock()
	if err != nil {
		return domain.Customer{}, err
	}
	defer unlock()
	for _, c := range s.sortedCustomers() {
		if phone != "" && c.Phone == phone {
			return c, nil
		}
	}
	return domain.Customer{}, store.ErrNotFound
}

func (s *Store) FindCustomerByEmail(_ context.Context, email string) (domain.Customer, error) {
	unlock, err := s.lock()
	if err != nil {
		return domain.Customer{}, err
	}
	defer unlock()
	for _, c := range s.sortedCustomers() {
		if email != "" && strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return domain.Customer{}, store.ErrNotFound
}

func (s *Store) sortedCustomers() []domain.Customer {
	out := make([]domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) InsertCustomer(_ context.Context, c domain.Customer) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	if _, ok := s.customers[c.ID]; ok {
		return store.ErrDuplicate
	}
	s.customers[c.ID] = c
	return nil
}

func (s *Store) UpsertCustomer(_ context.Context, c domain.Customer) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	if existing, ok := s.customers[c.ID]; ok && c.CreatedAt.IsZero() {
		c.CreatedAt = existing.CreatedAt
	}
	s.customers[c.ID] = c
	return nil
}

func (s *Store) GetWorker(_ context.Context, id string) (domain.Worker, error) {
	unlock, err := s.lock()
	if err != nil {
		return domain.Worker{}, err
	}
	defer unlock()
	w, ok := s.workers[id]
	if !ok {
		return domain.Worker{}, store.ErrNotFound
	}
	return w, nil
}

func (s *Store) UpsertWorker(_ context.Context, w domain.Worker) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	s.workers[w.ID] = w
	return nil
}

func (s *Store) UpsertVerifiedWorker(_ context.Context, w domain.Worker) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	s.verified[w.ID] = w
	return nil
}

func (s *Store) InsertRequest(_ context.Context, r domain.ServiceRequest, entry domain.RequestLog) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	if _, ok := s.requests[r.ID]; ok {
		return store.ErrDuplicate
	}
	s.requests[r.ID] = r
	s.logs[r.ID] = append(s.logs[r.ID], entry)
	return nil
}

func (s *Store) GetRequest(_ context.Context, id string) (domain.ServiceRequest, error) {
	unlock, err := s.lock()
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	defer unlock()
	r, ok := s.requests[id]
	if !ok {
		return domain.ServiceRequest{}, store.ErrNotFound
	}
	return r, nil
}

func (s *Store) ListOpenRequests(_ context.Context, workerID string) ([]domain.ServiceRequest, error) {
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()
	var out []domain.ServiceRequest
	for _, r := range s.requests {
		if r.Status != domain.StatusNew {
			continue
		}
		if r.Assignment.IsUnassigned() || r.Assignment.IsAssignedTo(workerID) {
			out = append(out, r)
		}
	}
	newestFirst(out)
	return out, nil
}

func (s *Store) ListCustomerRequests(_ context.Context, customerID string) ([]domain.ServiceRequest, error) {
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()
	var out []domain.ServiceRequest
	for _, r := range s.requests {
		if r.CustomerID == customerID {
			out = append(out, r)
		}
	}
	newestFirst(out)
	return out, nil
}

// ApplyTransition checks and writes under one lock, the in-memory analogue of a
// conditional UPDATE.
func (s *Store) ApplyTransition(_ context.Context, t store.Transition) (domain.ServiceRequest, error) {
	unlock, err := s.lock()
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	defer unlock()
	current, ok := s.requests[t.RequestID]
	if !ok {
		return domain.ServiceRequest{}, store.ErrNotFound
	}
	if !t.Matches(current) {
		return domain.ServiceRequest{}, store.ErrConditionFailed
	}
	updated := t.Apply(current)
	s.requests[t.RequestID] = updated
	s.logs[t.RequestID] = append(s.logs[t.RequestID], t.Log)
	return updated, nil
}

func (s *Store) ListLogs(_ context.Context, requestID string) ([]domain.RequestLog, error) {
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()
	return append([]domain.RequestLog(nil), s.logs[requestID]...), nil
}

// Counts reports the number of stored customers, workers, verified workers and requests.
func (s *Store) Counts() (customers, workers, verified, requests int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.customers), len(s.workers), len(s.verified), len(s.requests)
}

func newestFirst(rs []domain.ServiceRequest) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].ID > rs[j].ID
		}
		return rs[i].CreatedAt.After(rs[j].CreatedAt)
	})
}
