package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
)

const customerColumns = `customer_id, name, phone, email, city, pincode, address, created_at, updated_at`

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.City, &c.Pincode, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *Repository) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE customer_id = $1`, id))
	return c, translate("get customer", err)
}

func (r *Repository) FindCustomerByPhone(ctx context.Context, phone string) (domain.Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers
		WHERE phone = $1 AND phone <> ''
		ORDER BY created_at
		LIMIT 1`, phone))
	return c, translate("find customer by phone", err)
}

func (r *Repository) FindCustomerByEmail(ctx context.Context, email string) (domain.Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers
		WHERE lower(email) = lower($1) AND email <> ''
		ORDER BY created_at
		LIMIT 1`, email))
	return c, translate("find customer by email", err)
}

func (r *Repository) InsertCustomer(ctx context.Context, c domain.Customer) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO customers (customer_id, name, phone, email, city, pincode, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		c.ID, c.Name, c.Phone, c.Email, c.City, c.Pincode, c.Address, c.CreatedAt)
	return translate("insert customer", err)
}

// UpsertCustomer overwrites every mutable column keyed by customer_id.
func (r *Repository) UpsertCustomer(ctx context.Context, c domain.Customer) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO customers (customer_id, name, phone, email, city, pincode, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()), now())
		ON CONFLICT (customer_id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			city = EXCLUDED.city,
			pincode = EXCLUDED.pincode,
			address = EXCLUDED.address,
			updated_at = now()`,
		c.ID, c.Name, c.Phone, c.Email, c.City, c.Pincode, c.Address, nullableTime(c.CreatedAt))
	return translate("upsert customer", err)
}
