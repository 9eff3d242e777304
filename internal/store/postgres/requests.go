package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
	"github.com/slangop28/local-electrician-sub001/internal/store"
)

const requestColumns = `request_id, customer_id, assigned_worker_id, service_type, urgency, status,
	preferred_date, preferred_slot, description,
	customer_name, customer_phone, customer_address, customer_city, customer_pincode,
	worker_name, worker_phone, worker_city, latitude, longitude,
	created_at, updated_at, accepted_at, completed_at, cancelled_at`

func scanRequest(row pgx.Row) (domain.ServiceRequest, error) {
	var (
		req      domain.ServiceRequest
		assigned *string
		status   string
	)
	err := row.Scan(
		&req.ID, &req.CustomerID, &assigned, &req.ServiceType, &req.Urgency, &status,
		&req.PreferredDate, &req.PreferredSlot, &req.Description,
		&req.Customer.Name, &req.Customer.Phone, &req.Customer.Address, &req.Customer.City, &req.Customer.Pincode,
		&req.Worker.Name, &req.Worker.Phone, &req.Worker.City, &req.Latitude, &req.Longitude,
		&req.CreatedAt, &req.UpdatedAt, &req.AcceptedAt, &req.CompletedAt, &req.CancelledAt,
	)
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	if assigned != nil {
		req.Assignment = domain.AssignedTo(*assigned)
	}
	req.Status = domain.RequestStatus(status)
	return req, nil
}

func collectRequests(rows pgx.Rows) ([]domain.ServiceRequest, error) {
	defer rows.Close()
	var out []domain.ServiceRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func assignedColumn(a domain.Assignment) *string {
	if id, ok := a.WorkerID(); ok {
		return &id
	}
	return nil
}

// InsertRequest writes the request row and its creation log in one transaction.
func (r *Repository) InsertRequest(ctx context.Context, req domain.ServiceRequest, entry domain.RequestLog) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return translate("begin insert request", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO service_requests (
			request_id, customer_id, assigned_worker_id, service_type, urgency, status,
			preferred_date, preferred_slot, description,
			customer_name, customer_phone, customer_address, customer_city, customer_pincode,
			latitude, longitude, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17)`,
		req.ID, req.CustomerID, assignedColumn(req.Assignment), req.ServiceType, req.Urgency, string(req.Status),
		req.PreferredDate, req.PreferredSlot, req.Description,
		req.Customer.Name, req.Customer.Phone, req.Customer.Address, req.Customer.City, req.Customer.Pincode,
		req.Latitude, req.Longitude, req.CreatedAt,
	)
	if err != nil {
		return translate("insert request", err)
	}
	if err = insertLog(ctx, tx, entry); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return translate("commit insert request", err)
	}
	return nil
}

func (r *Repository) GetRequest(ctx context.Context, id string) (domain.ServiceRequest, error) {
	req, err := scanRequest(r.pool.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM service_requests WHERE request_id = $1`, id))
	return req, translate("get request", err)
}

func (r *Repository) ListOpenRequests(ctx context.Context, workerID string) ([]domain.ServiceRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+requestColumns+`
		FROM service_requests
		WHERE status = 'NEW'
		  AND (assigned_worker_id IS NULL OR ($1 <> '' AND assigned_worker_id = $1))
		ORDER BY created_at DESC, request_id DESC`, workerID)
	if err != nil {
		return nil, translate("list open requests", err)
	}
	out, err := collectRequests(rows)
	return out, translate("scan open requests", err)
}

func (r *Repository) ListCustomerRequests(ctx context.Context, customerID string) ([]domain.ServiceRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+requestColumns+`
		FROM service_requests
		WHERE customer_id = $1
		ORDER BY created_at DESC, request_id DESC`, customerID)
	if err != nil {
		return nil, translate("list customer requests", err)
	}
	out, err := collectRequests(rows)
	return out, translate("scan customer requests", err)
}

// ApplyTransition performs the guarded status change as a single conditional
// UPDATE. Zero affected rows means another caller won or the guard never held;
// a follow-up existence check separates that from an unknown id.
func (r *Repository) ApplyTransition(ctx context.Context, t store.Transition) (_ domain.ServiceRequest, err error) {
	from := make([]string, len(t.From))
	for i, s := range t.From {
		from[i] = string(s)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.ServiceRequest{}, translate("begin transition", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// The guard lives in the WHERE clause. Under READ COMMITTED a second
	// concurrent UPDATE blocks on the row lock, then re-evaluates the WHERE
	// against the committed row; the status has moved on, so it matches zero
	// rows and falls through to the ErrConditionFailed branch below.
	updated, err := scanRequest(tx.QueryRow(ctx, `
		UPDATE service_requests SET
			status = $3,
			updated_at = $4,
			assigned_worker_id = CASE WHEN $5::boolean THEN $2 ELSE assigned_worker_id END,
			worker_name  = CASE WHEN $5::boolean THEN $6 ELSE worker_name END,
			worker_phone = CASE WHEN $5::boolean THEN $7 ELSE worker_phone END,
			worker_city  = CASE WHEN $5::boolean THEN $8 ELSE worker_city END,
			accepted_at  = CASE WHEN $3 = 'ACCEPTED' THEN $4 ELSE accepted_at END,
			completed_at = CASE WHEN $3 = 'SUCCESS' THEN $4 ELSE completed_at END,
			cancelled_at = CASE WHEN $3 = 'CANCELLED' THEN $4 ELSE cancelled_at END
		WHERE request_id = $1
		  AND status = ANY($9::text[])
		  AND (
			($5::boolean AND (assigned_worker_id IS NULL OR assigned_worker_id = $2))
			OR (NOT $5::boolean AND assigned_worker_id = $2)
		  )
		RETURNING `+requestColumns,
		t.RequestID, t.ActorID, string(t.To), t.At, t.Claim,
		t.Worker.Name, t.Worker.Phone, t.Worker.City, from,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if qerr := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM service_requests WHERE request_id = $1)`, t.RequestID).Scan(&exists); qerr != nil {
			return domain.ServiceRequest{}, translate("check request exists", qerr)
		}
		if !exists {
			return domain.ServiceRequest{}, store.ErrNotFound
		}
		return domain.ServiceRequest{}, store.ErrConditionFailed
	}
	if err != nil {
		return domain.ServiceRequest{}, translate("apply transition", err)
	}

	if err = insertLog(ctx, tx, t.Log); err != nil {
		return domain.ServiceRequest{}, err
	}
	if err = tx.Commit(ctx); err != nil {
		return domain.ServiceRequest{}, translate("commit transition", err)
	}
	return updated, nil
}

func (r *Repository) ListLogs(ctx context.Context, requestID string) ([]domain.RequestLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT log_id::text, request_id, status, description, created_at
		FROM request_logs
		WHERE request_id = $1
		ORDER BY created_at, log_id`, requestID)
	if err != nil {
		return nil, translate("list logs", err)
	}
	defer rows.Close()

	var out []domain.RequestLog
	for rows.Next() {
		var (
			l      domain.RequestLog
			status string
		)
		if err := rows.Scan(&l.ID, &l.RequestID, &status, &l.Description, &l.CreatedAt); err != nil {
			return nil, translate("scan log", err)
		}
		l.Status = domain.RequestStatus(status)
		out = append(out, l)
	}
	return out, translate("iterate logs", rows.Err())
}

func insertLog(ctx context.Context, tx pgx.Tx, entry domain.RequestLog) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO request_logs (log_id, request_id, status, description, created_at)
		VALUES ($1::uuid, $2, $3, $4, $5)`,
		entry.ID, entry.RequestID, string(entry.Status), entry.Description, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert request log: %w", err)
	}
	return nil
}
