package postgres

import (
	"context"
	"time"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
)

func (r *Repository) GetWorker(ctx context.Context, id string) (domain.Worker, error) {
	var (
		w      domain.Worker
		status string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT worker_id, name, phone, city, area, status, latitude, longitude, created_at, updated_at
		FROM workers WHERE worker_id = $1`, id).Scan(
		&w.ID, &w.Name, &w.Phone, &w.City, &w.Area, &status, &w.Latitude, &w.Longitude, &w.CreatedAt, &w.UpdatedAt,
	)
	w.Status = domain.ParseWorkerStatus(status)
	return w, translate("get worker", err)
}

func (r *Repository) UpsertWorker(ctx context.Context, w domain.Worker) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO workers (worker_id, name, phone, city, area, status, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, now()), now())
		ON CONFLICT (worker_id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			city = EXCLUDED.city,
			area = EXCLUDED.area,
			status = EXCLUDED.status,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = now()`,
		w.ID, w.Name, w.Phone, w.City, w.Area, string(w.Status), w.Latitude, w.Longitude, nullableTime(w.CreatedAt))
	return translate("upsert worker", err)
}

// UpsertVerifiedWorker refreshes the verified-workers projection used for matching.
func (r *Repository) UpsertVerifiedWorker(ctx context.Context, w domain.Worker) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO verified_workers (worker_id, name, phone, city, area, latitude, longitude, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (worker_id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			city = EXCLUDED.city,
			area = EXCLUDED.area,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			synced_at = now()`,
		w.ID, w.Name, w.Phone, w.City, w.Area, w.Latitude, w.Longitude)
	return translate("upsert verified worker", err)
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
