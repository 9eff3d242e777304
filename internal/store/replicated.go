package store

import (
	"context"
	"errors"
	"time"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
	"github.com/slangop28/local-electrician-sub001/platform/apperr"
	"github.com/slangop28/local-electrician-sub001/platform/config"
	"github.com/slangop28/local-electrician-sub001/platform/logger"
	"github.com/slangop28/local-electrician-sub001/platform/metrics"
)

const (
	defaultPrimaryTimeout = 5 * time.Second
	defaultMirrorTimeout  = 8 * time.Second
)

// Replicated writes to the authoritative store first and then best-effort to the
// mirror. Reads go to the authoritative store and fall back to the mirror on error
// or on an empty answer. Sentinel errors (ErrNotFound, ErrDuplicate,
// ErrConditionFailed) pass through unchanged; every other authoritative failure is
// returned as an apperr Upstream error.
type Replicated struct {
	primary        Authoritative
	mirror         Mirror
	primaryTimeout time.Duration
	mirrorTimeout  time.Duration
	log            *logger.Logger
}

// NewReplicated builds the facade. mirror may be nil when the legacy ledger is disabled.
func NewReplicated(primary Authoritative, mirror Mirror, cfg config.StoreConfig, log *logger.Logger) *Replicated {
	r := &Replicated{
		primary:        primary,
		mirror:         mirror,
		primaryTimeout: defaultPrimaryTimeout,
		mirrorTimeout:  defaultMirrorTimeout,
		log:            log,
	}
	if cfg != nil {
		if d := cfg.GetStoreTimeout(); d > 0 {
			r.primaryTimeout = d
		}
		if d := cfg.GetMirrorTimeout(); d > 0 {
			r.mirrorTimeout = d
		}
	}
	return r
}

// write runs the authoritative write and then the mirror write. Only the first can fail the call.
func (r *Replicated) write(ctx context.Context, op string, primary func(context.Context) error, mirror func(context.Context, Mirror) error) error {
	pctx, cancel := context.WithTimeout(ctx, r.primaryTimeout)
	err := primary(pctx)
	cancel()
	if err != nil {
		return r.primaryError(op, err)
	}
	r.mirrorWrite(ctx, op, mirror)
	return nil
}

func (r *Replicated) mirrorWrite(ctx context.Context, op string, fn func(context.Context, Mirror) error) {
	if r.mirror == nil || fn == nil {
		return
	}
	mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.mirrorTimeout)
	defer cancel()
	if err := fn(mctx, r.mirror); err != nil {
		metrics.MirrorWriteFailuresTotal.WithLabelValues(op).Inc()
		r.log.WithContext(ctx).MirrorFailure(op, err)
	}
}

func (r *Replicated) primaryError(op string, err error) error {
	if isSentinel(err) {
		return err
	}
	r.log.DatabaseError(op, err)
	return apperr.Upstream("authoritative store unavailable", err).WithOp(op)
}

func isSentinel(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) || errors.Is(err, ErrConditionFailed)
}

// read queries the authoritative store and falls back to the mirror when that
// fails or yields an empty answer. If both fail the authoritative error wins.
func read[T any](ctx context.Context, r *Replicated, op string,
	primary func(context.Context) (T, error),
	fallback func(context.Context, Mirror) (T, error),
	empty func(T) bool,
) (T, error) {
	return readWith(ctx, r, op, primary, fallback, empty, false)
}

// readByID is read for lookups by natural id. A row the mirror lacks while the
// authoritative store is unreachable is unknown, not absent, so the outage is
// reported instead of ErrNotFound.
func readByID[T any](ctx context.Context, r *Replicated, op string,
	primary func(context.Context) (T, error),
	fallback func(context.Context, Mirror) (T, error),
) (T, error) {
	return readWith(ctx, r, op, primary, fallback, never[T], true)
}

func readWith[T any](ctx context.Context, r *Replicated, op string,
	primary func(context.Context) (T, error),
	fallback func(context.Context, Mirror) (T, error),
	empty func(T) bool,
	missIsOutage bool,
) (T, error) {
	pctx, cancel := context.WithTimeout(ctx, r.primaryTimeout)
	value, err := primary(pctx)
	cancel()

	primaryFailed := err != nil && !errors.Is(err, ErrNotFound)
	if err == nil && !empty(value) {
		return value, nil
	}
	if r.mirror == nil {
		if primaryFailed {
			var zero T
			return zero, r.primaryError(op, err)
		}
		return value, err
	}

	reason := "empty"
	if primaryFailed {
		reason = err.Error()
	}
	r.log.WithContext(ctx).StoreFallback(op, reason)
	metrics.FallbackReadsTotal.WithLabelValues(op).Inc()

	mctx, mcancel := context.WithTimeout(ctx, r.mirrorTimeout)
	mirrored, merr := fallback(mctx, r.mirror)
	mcancel()

	switch {
	case merr == nil && !empty(mirrored):
		return mirrored, nil
	case merr == nil || errors.Is(merr, ErrNotFound):
		if primaryFailed && missIsOutage {
			var zero T
			return zero, r.primaryError(op, err)
		}
		if primaryFailed {
			return mirrored, merr
		}
		return value, err
	default:
		r.log.WithContext(ctx).MirrorFailure(op, merr)
		if primaryFailed {
			var zero T
			return zero, r.primaryError(op, errors.Join(err, merr))
		}
		return value, err
	}
}

func never[T any](T) bool { return false }

func none[T any](v []T) bool { return len(v) == 0 }

// GetCustomer reads a customer by id.
func (r *Replicated) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	return readByID(ctx, r, "customers.get",
		func(ctx context.Context) (domain.Customer, error) { return r.primary.GetCustomer(ctx, id) },
		func(ctx context.Context, m Mirror) (domain.Customer, error) { return m.GetCustomer(ctx, id) })
}

// FindCustomerByPhone matches the stored phone exactly.
func (r *Replicated) FindCustomerByPhone(ctx context.Context, phone string) (domain.Customer, error) {
	return read(ctx, r, "customers.by_phone",
		func(ctx context.Context) (domain.Customer, error) { return r.primary.FindCustomerByPhone(ctx, phone) },
		func(ctx context.Context, m Mirror) (domain.Customer, error) { return m.FindCustomerByPhone(ctx, phone) },
		never[domain.Customer])
}

// FindCustomerByEmail matches the stored email case-insensitively.
func (r *Replicated) FindCustomerByEmail(ctx context.Context, email string) (domain.Customer, error) {
	return read(ctx, r, "customers.by_email",
		func(ctx context.Context) (domain.Customer, error) { return r.primary.FindCustomerByEmail(ctx, email) },
		func(ctx context.Context, m Mirror) (domain.Customer, error) { return m.FindCustomerByEmail(ctx, email) },
		never[domain.Customer])
}

// CreateCustomer inserts a new customer. ErrDuplicate signals an id collision.
func (r *Replicated) CreateCustomer(ctx context.Context, c domain.Customer) error {
	return r.write(ctx, "customers.create",
		func(ctx context.Context) error { return r.primary.InsertCustomer(ctx, c) },
		func(ctx context.Context, m Mirror) error { return m.UpsertCustomer(ctx, c) })
}

// SaveCustomer upserts an existing customer by id.
func (r *Replicated) SaveCustomer(ctx context.Context, c domain.Customer) error {
	return r.write(ctx, "customers.save",
		func(ctx context.Context) error { return r.primary.UpsertCustomer(ctx, c) },
		func(ctx context.Context, m Mirror) error { return m.UpsertCustomer(ctx, c) })
}

// GetWorker reads a worker by id.
func (r *Replicated) GetWorker(ctx context.Context, id string) (domain.Worker, error) {
	return read(ctx, r, "workers.get",
		func(ctx context.Context) (domain.Worker, error) { return r.primary.GetWorker(ctx, id) },
		func(ctx context.Context, m Mirror) (domain.Worker, error) { return m.GetWorker(ctx, id) },
		never[domain.Worker])
}

// CreateRequest persists a new request together with its creation log.
func (r *Replicated) CreateRequest(ctx context.Context, req domain.ServiceRequest, entry domain.RequestLog) error {
	return r.write(ctx, "requests.create",
		func(ctx context.Context) error { return r.primary.InsertRequest(ctx, req, entry) },
		func(ctx context.Context, m Mirror) error {
			if err := m.InsertRequest(ctx, req); err != nil {
				return err
			}
			return m.AppendLog(ctx, entry)
		})
}

// ApplyTransition runs the conditional status change on the authoritative store
// and replays the result onto the mirror.
func (r *Replicated) ApplyTransition(ctx context.Context, t Transition) (domain.ServiceRequest, error) {
	var updated domain.ServiceRequest
	err := r.write(ctx, "requests.transition",
		func(ctx context.Context) error {
			var err error
			updated, err = r.primary.ApplyTransition(ctx, t)
			return err
		},
		func(ctx context.Context, m Mirror) error {
			if err := m.SaveRequest(ctx, updated); err != nil {
				return err
			}
			return m.AppendLog(ctx, t.Log)
		})
	return updated, err
}

// GetRequest reads a request by id.
func (r *Replicated) GetRequest(ctx context.Context, id string) (domain.ServiceRequest, error) {
	return readByID(ctx, r, "requests.get",
		func(ctx context.Context) (domain.ServiceRequest, error) { return r.primary.GetRequest(ctx, id) },
		func(ctx context.Context, m Mirror) (domain.ServiceRequest, error) { return m.GetRequest(ctx, id) })
}

// ListOpenRequests returns NEW requests claimable by workerID, newest first.
func (r *Replicated) ListOpenRequests(ctx context.Context, workerID string) ([]domain.ServiceRequest, error) {
	return read(ctx, r, "requests.open",
		func(ctx context.Context) ([]domain.ServiceRequest, error) { return r.primary.ListOpenRequests(ctx, workerID) },
		func(ctx context.Context, m Mirror) ([]domain.ServiceRequest, error) { return m.ListOpenRequests(ctx, workerID) },
		none[domain.ServiceRequest])
}

// ListCustomerRequests returns a customer's requests, newest first.
func (r *Replicated) ListCustomerRequests(ctx context.Context, customerID string) ([]domain.ServiceRequest, error) {
	return read(ctx, r, "requests.by_customer",
		func(ctx context.Context) ([]domain.ServiceRequest, error) {
			return r.primary.ListCustomerRequests(ctx, customerID)
		},
		func(ctx context.Context, m Mirror) ([]domain.ServiceRequest, error) {
			return m.ListCustomerRequests(ctx, customerID)
		},
		none[domain.ServiceRequest])
}

// ListLogs returns a request's audit trail, oldest first.
func (r *Replicated) ListLogs(ctx context.Context, requestID string) ([]domain.RequestLog, error) {
	return read(ctx, r, "requests.logs",
		func(ctx context.Context) ([]domain.RequestLog, error) { return r.primary.ListLogs(ctx, requestID) },
		func(ctx context.Context, m Mirror) ([]domain.RequestLog, error) { return m.ListLogs(ctx, requestID) },
		none[domain.RequestLog])
}
