// Package domain holds the entities and rules shared by dispatch, lifecycle,
// matching and reconciliation. It has no storage or transport dependencies.
package domain

import "time"

// Customer is the person asking for work. Phone (either prefix form) or email identifies them.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	City      string
	Pincode   string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Merge applies the non-empty fields of update onto c. Omitted fields never clear a value.
func (c Customer) Merge(update CustomerProfile) Customer {
	c.Name = pick(update.Name, c.Name)
	c.Phone = pick(update.Phone, c.Phone)
	c.Email = pick(update.Email, c.Email)
	c.City = pick(update.City, c.City)
	c.Pincode = pick(update.Pincode, c.Pincode)
	c.Address = pick(update.Address, c.Address)
	return c
}

// CustomerProfile is the optional profile data supplied with a lookup.
type CustomerProfile struct {
	Name    string
	Phone   string
	Email   string
	City    string
	Pincode string
	Address string
}

// Worker is a field worker (electrician).
type Worker struct {
	ID        string
	Name      string
	Phone     string
	City      string
	Area      string
	Status    WorkerStatus
	Latitude  *float64
	Longitude *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsVerified reports whether the worker may be matched.
func (w Worker) IsVerified() bool {
	return w.Status == WorkerVerified
}

// CustomerSnapshot is the customer data denormalized onto a request at creation.
type CustomerSnapshot struct {
	Name    string
	Phone   string
	Address string
	City    string
	Pincode string
}

// WorkerSnapshot is the worker data denormalized onto a request when it is claimed.
type WorkerSnapshot struct {
	Name  string
	Phone string
	City  string
}

// IsZero reports whether nothing was denormalized.
func (w WorkerSnapshot) IsZero() bool {
	return w == WorkerSnapshot{}
}

// ServiceRequest is one unit of field-service work.
type ServiceRequest struct {
	ID            string
	CustomerID    string
	Assignment    Assignment
	ServiceType   string
	Urgency       string
	Status        RequestStatus
	PreferredDate string
	PreferredSlot string
	Description   string
	Customer      CustomerSnapshot
	Worker        WorkerSnapshot
	Latitude      *float64
	Longitude     *float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	AcceptedAt    *time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
}

// IsDirect reports whether the request targets a specific worker.
func (r ServiceRequest) IsDirect() bool {
	return !r.Assignment.IsUnassigned()
}

// RequestLog is an immutable audit entry written for every status change.
type RequestLog struct {
	ID          string
	RequestID   string
	Status      RequestStatus
	Description string
	CreatedAt   time.Time
}

func pick(candidate, current string) string {
	if candidate != "" {
		return candidate
	}
	return current
}
