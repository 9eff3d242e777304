package transport

import (
	"time"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
)

// ActiveRequestQuery binds GET /customers/active-request.
type ActiveRequestQuery struct {
	CustomerID string `form:"customerId" validate:"required"`
}

// HistoryQuery binds GET /customers/history.
type HistoryQuery struct {
	Phone string `form:"phone" validate:"omitempty,phone"`
	Email string `form:"email" validate:"omitempty,email"`
}

// RequestSummary is one entry of a customer's request list.
type RequestSummary struct {
	RequestID        string     `json:"requestId"`
	ServiceType      string     `json:"serviceType"`
	Urgency          string     `json:"urgency"`
	Status           string     `json:"status"`
	PreferredDate    string     `json:"preferredDate"`
	PreferredSlot    string     `json:"preferredSlot"`
	Description      string     `json:"issueDetail"`
	IsDirect         bool       `json:"isDirect"`
	ElectricianID    string     `json:"electricianId,omitempty"`
	ElectricianName  string     `json:"electricianName"`
	ElectricianPhone string     `json:"electricianPhone"`
	CreatedAt        time.Time  `json:"createdAt"`
	AcceptedAt       *time.Time `json:"acceptedAt,omitempty"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	CancelledAt      *time.Time `json:"cancelledAt,omitempty"`
}

// NewRequestSummary renders a request for the customer views.
func NewRequestSummary(r domain.ServiceRequest) RequestSummary {
	workerID, _ := r.Assignment.WorkerID()
	return RequestSummary{
		RequestID:        r.ID,
		ServiceType:      r.ServiceType,
		Urgency:          r.Urgency,
		Status:           string(r.Status),
		PreferredDate:    r.PreferredDate,
		PreferredSlot:    r.PreferredSlot,
		Description:      r.Description,
		IsDirect:         r.IsDirect(),
		ElectricianID:    workerID,
		ElectricianName:  r.Worker.Name,
		ElectricianPhone: r.Worker.Phone,
		CreatedAt:        r.CreatedAt,
		AcceptedAt:       r.AcceptedAt,
		CompletedAt:      r.CompletedAt,
		CancelledAt:      r.CancelledAt,
	}
}
