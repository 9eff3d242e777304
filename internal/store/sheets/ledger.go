package sheets

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
	"github.com/slangop28/local-electrician-sub001/internal/store"
	"github.com/slangop28/local-electrician-sub001/platform/logger"
	"github.com/slangop28/local-electrician-sub001/platform/phone"
)

// Ledger implements store.Mirror on top of a Table. The column mapping of a tab
// is built once per call from its header row.
type Ledger struct {
	table Table
	log   *logger.Logger
}

var _ store.Mirror = (*Ledger)(nil)

// NewLedger wraps a table.
func NewLedger(table Table) *Ledger {
	return &Ledger{table: table, log: logger.Nop()}
}

// WithLogger sets the logger used to report skipped legacy rows.
func (l *Ledger) WithLogger(log *logger.Logger) *Ledger {
	l.log = log
	return l
}

type grid struct {
	cols     Columns
	rows     [][]string
	headless bool
}

func (l *Ledger) load(ctx context.Context, tab string) (grid, error) {
	rows, err := l.table.Rows(ctx, tab)
	if err != nil {
		return grid{}, err
	}
	if len(rows) == 0 {
		return grid{cols: NewColumns(defaultHeaders[tab]), headless: true}, nil
	}
	return grid{cols: NewColumns(rows[0]), rows: rows[1:]}, nil
}

// upsert overwrites the row whose id column equals id, or appends a new one.
func (l *Ledger) upsert(ctx context.Context, tab, id string, values map[string]string) error {
	g, err := l.load(ctx, tab)
	if err != nil {
		return err
	}
	if g.headless {
		if err := l.table.Append(ctx, tab, defaultHeaders[tab]); err != nil {
			return err
		}
	}
	key := idColumn[tab]
	for i, row := range g.rows {
		if g.cols.Get(row, key) == id {
			return l.table.UpdateRow(ctx, tab, i+2, g.cols.Encode(row, values))
		}
	}
	return l.table.Append(ctx, tab, g.cols.Encode(nil, values))
}

func (l *Ledger) insert(ctx context.Context, tab string, values map[string]string) error {
	g, err := l.load(ctx, tab)
	if err != nil {
		return err
	}
	if g.headless {
		if err := l.table.Append(ctx, tab, defaultHeaders[tab]); err != nil {
			return err
		}
	}
	return l.table.Append(ctx, tab, g.cols.Encode(nil, values))
}

func (l *Ledger) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	g, err := l.load(ctx, TabUsers)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Customer, 0, len(g.rows))
	for _, row := range g.rows {
		if c := decodeCustomer(g.cols, row); c.ID != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

func (l *Ledger) findCustomer(ctx context.Context, match func(domain.Customer) bool) (domain.Customer, error) {
	customers, err := l.ListCustomers(ctx)
	if err != nil {
		return domain.Customer{}, err
	}
	for _, c := range customers {
		if match(c) {
			return c, nil
		}
	}
	return domain.Customer{}, store.ErrNotFound
}

func (l *Ledger) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	return l.findCustomer(ctx, func(c domain.Customer) bool { return c.ID == id })
}

func (l *Ledger) FindCustomerByPhone(ctx context.Context, number string) (domain.Customer, error) {
	return l.findCustomer(ctx, func(c domain.Customer) bool { return phone.Equivalent(c.Phone, number) })
}

func (l *Ledger) FindCustomerByEmail(ctx context.Context, email string) (domain.Customer, error) {
	return l.findCustomer(ctx, func(c domain.Customer) bool {
		return email != "" && strings.EqualFold(c.Email, email)
	})
}

func (l *Ledger) UpsertCustomer(ctx context.Context, c domain.Customer) error {
	return l.upsert(ctx, TabUsers, c.ID, encodeCustomer(c))
}

func (l *Ledger) ListWorkers(ctx context.Context) ([]domain.Worker, error) {
	g, err := l.load(ctx, TabWorkers)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Worker, 0, len(g.rows))
	for _, row := range g.rows {
		if w := decodeWorker(g.cols, row); w.ID != "" {
			out = append(out, w)
		}
	}
	return out, nil
}

func (l *Ledger) GetWorker(ctx context.Context, id string) (domain.Worker, error) {
	workers, err := l.ListWorkers(ctx)
	if err != nil {
		return domain.Worker{}, err
	}
	for _, w := range workers {
		if w.ID == id {
			return w, nil
		}
	}
	return domain.Worker{}, store.ErrNotFound
}

func (l *Ledger) UpsertWorker(ctx context.Context, w domain.Worker) error {
	return l.upsert(ctx, TabWorkers, w.ID, encodeWorker(w))
}

func (l *Ledger) listRequests(ctx context.Context, keep func(domain.ServiceRequest) bool) ([]domain.ServiceRequest, error) {
	g, err := l.load(ctx, TabRequests)
	if err != nil {
		return nil, err
	}
	var out []domain.ServiceRequest
	for _, row := range g.rows {
		req, ok := decodeRequest(g.cols, row)
		if req.ID == "" {
			continue
		}
		if !ok {
			l.log.Warn("mirror request row skipped, unreadable status",
				"request_id", req.ID, "status", g.cols.Get(row, "Status"))
			continue
		}
		if keep(req) {
			out = append(out, req)
		}
	}
	if err := l.rejoin(ctx, out); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// rejoin fills the snapshot fields the authoritative store keeps denormalized
// but legacy rows may lack: customer name/city/phone by customer id and worker
// name/phone/city by assigned worker id.
func (l *Ledger) rejoin(ctx context.Context, reqs []domain.ServiceRequest) error {
	var needCustomers, needWorkers bool
	for _, r := range reqs {
		if r.Customer.Name == "" || r.Customer.City == "" || r.Customer.Phone == "" {
			needCustomers = true
		}
		if r.IsDirect() && r.Worker.IsZero() && r.Status != domain.StatusNew {
			needWorkers = true
		}
	}

	customers := map[string]domain.Customer{}
	if needCustomers {
		list, err := l.ListCustomers(ctx)
		if err != nil {
			return fmt.Errorf("join customers: %w", err)
		}
		for _, c := range list {
			customers[c.ID] = c
		}
	}
	workers := map[string]domain.Worker{}
	if needWorkers {
		list, err := l.ListWorkers(ctx)
		if err != nil {
			return fmt.Errorf("join workers: %w", err)
		}
		for _, w := range list {
			workers[w.ID] = w
		}
	}

	for i := range reqs {
		r := &reqs[i]
		if c, ok := customers[r.CustomerID]; ok {
			r.Customer.Name = pick(r.Customer.Name, c.Name)
			r.Customer.Phone = pick(r.Customer.Phone, c.Phone)
			r.Customer.City = pick(r.Customer.City, c.City)
			r.Customer.Address = pick(r.Customer.Address, c.Address)
			r.Customer.Pincode = pick(r.Customer.Pincode, c.Pincode)
		}
		if id, ok := r.Assignment.WorkerID(); ok && r.Worker.IsZero() && r.Status != domain.StatusNew {
			if w, found := workers[id]; found {
				r.Worker = domain.WorkerSnapshot{Name: w.Name, Phone: w.Phone, City: w.City}
			}
		}
	}
	return nil
}

func pick(current, fallback string) string {
	if current != "" {
		return current
	}
	return fallback
}

func (l *Ledger) GetRequest(ctx context.Context, id string) (domain.ServiceRequest, error) {
	found, err := l.listRequests(ctx, func(r domain.ServiceRequest) bool { return r.ID == id })
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	if len(found) == 0 {
		return domain.ServiceRequest{}, store.ErrNotFound
	}
	return found[0], nil
}

func (l *Ledger) ListOpenRequests(ctx context.Context, workerID string) ([]domain.ServiceRequest, error) {
	return l.listRequests(ctx, func(r domain.ServiceRequest) bool {
		return r.Status == domain.StatusNew &&
			(r.Assignment.IsUnassigned() || r.Assignment.IsAssignedTo(workerID))
	})
}

func (l *Ledger) ListCustomerRequests(ctx context.Context, customerID string) ([]domain.ServiceRequest, error) {
	return l.listRequests(ctx, func(r domain.ServiceRequest) bool { return r.CustomerID == customerID })
}

func (l *Ledger) InsertRequest(ctx context.Context, r domain.ServiceRequest) error {
	return l.insert(ctx, TabRequests, encodeRequest(r))
}

func (l *Ledger) SaveRequest(ctx context.Context, r domain.ServiceRequest) error {
	return l.upsert(ctx, TabRequests, r.ID, encodeRequest(r))
}

func (l *Ledger) AppendLog(ctx context.Context, entry domain.RequestLog) error {
	return l.insert(ctx, TabRequestLogs, encodeLog(entry))
}

func (l *Ledger) ListLogs(ctx context.Context, requestID string) ([]domain.RequestLog, error) {
	g, err := l.load(ctx, TabRequestLogs)
	if err != nil {
		return nil, err
	}
	var out []domain.RequestLog
	for _, row := range g.rows {
		if entry := decodeLog(g.cols, row); entry.RequestID == requestID {
			out = append(out, entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
