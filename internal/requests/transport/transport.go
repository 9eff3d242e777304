package transport

import (
	"time"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
)

// CreateRequest is the body of POST /requests and POST /requests/broadcast.
// workerId is required for direct creation and optional for broadcast; city is
// required for broadcast. Both are enforced by the service.
type CreateRequest struct {
	WorkerID      string   `json:"workerId" validate:"max=64"`
	ServiceType   string   `json:"serviceType" validate:"required,max=100"`
	Urgency       string   `json:"urgency" validate:"required,max=50"`
	PreferredDate string   `json:"preferredDate" validate:"max=50"`
	PreferredSlot string   `json:"preferredSlot" validate:"max=50"`
	IssueDetail   string   `json:"issueDetail" validate:"max=4000"`
	CustomerName  string   `json:"customerName" validate:"required,max=200"`
	CustomerPhone string   `json:"customerPhone" validate:"required,phone"`
	CustomerEmail string   `json:"customerEmail" validate:"omitempty,email"`
	Address       string   `json:"address" validate:"max=500"`
	City          string   `json:"city" validate:"max=100"`
	Pincode       string   `json:"pincode" validate:"max=20"`
	Lat           *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng           *float64 `json:"lng" validate:"omitempty,longitude"`
}

// TransitionRequest is the body of POST /requests/{id}/transition.
type TransitionRequest struct {
	RequestID  string `json:"requestId"`
	ActorID    string `json:"actorId" validate:"required,max=64"`
	Action     string `json:"action" validate:"required"`
	ActorName  string `json:"actorName" validate:"max=200"`
	ActorPhone string `json:"actorPhone" validate:"max=32"`
	ActorCity  string `json:"actorCity" validate:"max=100"`
}

// AvailableQuery binds GET /workers/{id}/available-requests.
type AvailableQuery struct {
	City     string `form:"city"`
	WorkerID string `form:"workerId"`
}

// RequestView is the JSON shape of a service request. It is identical whichever
// store answered.
type RequestView struct {
	RequestID        string     `json:"requestId"`
	CustomerID       string     `json:"customerId"`
	ElectricianID    string     `json:"electricianId,omitempty"`
	IsDirect         bool       `json:"isDirect"`
	ServiceType      string     `json:"serviceType"`
	Urgency          string     `json:"urgency"`
	Status           string     `json:"status"`
	PreferredDate    string     `json:"preferredDate"`
	PreferredSlot    string     `json:"preferredSlot"`
	IssueDetail      string     `json:"issueDetail"`
	CustomerName     string     `json:"customerName"`
	CustomerPhone    string     `json:"customerPhone"`
	CustomerAddress  string     `json:"customerAddress"`
	CustomerCity     string     `json:"customerCity"`
	CustomerPincode  string     `json:"customerPincode"`
	ElectricianName  string     `json:"electricianName,omitempty"`
	ElectricianPhone string     `json:"electricianPhone,omitempty"`
	ElectricianCity  string     `json:"electricianCity,omitempty"`
	Lat              *float64   `json:"lat,omitempty"`
	Lng              *float64   `json:"lng,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	AcceptedAt       *time.Time `json:"acceptedAt,omitempty"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	CancelledAt      *time.Time `json:"cancelledAt,omitempty"`
}

// NewRequestView renders a request.
func NewRequestView(r domain.ServiceRequest) RequestView {
	workerID, _ := r.Assignment.WorkerID()
	return RequestView{
		RequestID:        r.ID,
		CustomerID:       r.CustomerID,
		ElectricianID:    workerID,
		IsDirect:         r.IsDirect(),
		ServiceType:      r.ServiceType,
		Urgency:          r.Urgency,
		Status:           string(r.Status),
		PreferredDate:    r.PreferredDate,
		PreferredSlot:    r.PreferredSlot,
		IssueDetail:      r.Description,
		CustomerName:     r.Customer.Name,
		CustomerPhone:    r.Customer.Phone,
		CustomerAddress:  r.Customer.Address,
		CustomerCity:     r.Customer.City,
		CustomerPincode:  r.Customer.Pincode,
		ElectricianName:  r.Worker.Name,
		ElectricianPhone: r.Worker.Phone,
		ElectricianCity:  r.Worker.City,
		Lat:              r.Latitude,
		Lng:              r.Longitude,
		CreatedAt:        r.CreatedAt,
		AcceptedAt:       r.AcceptedAt,
		CompletedAt:      r.CompletedAt,
		CancelledAt:      r.CancelledAt,
	}
}

// CustomerView is the customer block of the detail view.
type CustomerView struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	City       string `json:"city"`
	Pincode    string `json:"pincode"`
	Address    string `json:"address"`
}

// WorkerView is the worker block of the detail view.
type WorkerView struct {
	ElectricianID string `json:"electricianId"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	City          string `json:"city"`
	Area          string `json:"area"`
	Status        string `json:"status"`
}

// LogView is one timeline entry.
type LogView struct {
	Status      string    `json:"status"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DetailResponse is the payload of GET /requests/{id}. Customer and worker are
// always present and null when no record is known.
type DetailResponse struct {
	Request  RequestView   `json:"request"`
	Customer *CustomerView `json:"customer"`
	Worker   *WorkerView   `json:"worker"`
	Timeline []LogView     `json:"timeline"`
}

// NewDetailResponse renders the detail view.
func NewDetailResponse(req domain.ServiceRequest, c *domain.Customer, w *domain.Worker, logs []domain.RequestLog) DetailResponse {
	resp := DetailResponse{Request: NewRequestView(req), Timeline: make([]LogView, 0, len(logs))}
	if c != nil {
		resp.Customer = &CustomerView{
			CustomerID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email,
			City: c.City, Pincode: c.Pincode, Address: c.Address,
		}
	}
	if w != nil {
		resp.Worker = &WorkerView{
			ElectricianID: w.ID, Name: w.Name, Phone: w.Phone,
			City: w.City, Area: w.Area, Status: string(w.Status),
		}
	}
	for _, l := range logs {
		resp.Timeline = append(resp.Timeline, LogView{
			Status: string(l.Status), Description: l.Description, CreatedAt: l.CreatedAt,
		})
	}
	return resp
}
