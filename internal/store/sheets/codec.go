package sheets

import (
	"strconv"
	"strings"
	"time"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
)

// Tab names of the legacy ledger.
const (
	TabUsers       = "Users"
	TabWorkers     = "Electricians"
	TabRequests    = "ServiceRequests"
	TabRequestLogs = "RequestLogs"
)

// unassignedSentinel is how the ledger marks a broadcast request. An empty cell means the same.
const unassignedSentinel = "BROADCAST"

var (
	UsersHeader = []string{
		"CustomerID", "Name", "Phone", "Email", "City", "Pincode", "Address", "CreatedAt", "UpdatedAt",
	}
	WorkersHeader = []string{
		"ElectricianID", "Name", "Phone", "City", "Area", "Status", "Latitude", "Longitude", "CreatedAt",
	}
	RequestsHeader = []string{
		"RequestID", "CustomerID", "ElectricianID", "ServiceType", "Urgency", "Status",
		"PreferredDate", "PreferredSlot", "Description",
		"CustomerName", "CustomerPhone", "CustomerAddress", "CustomerCity", "CustomerPincode",
		"ElectricianName", "ElectricianPhone", "ElectricianCity", "Latitude", "Longitude",
		"CreatedAt", "UpdatedAt", "AcceptedAt", "CompletedAt", "CancelledAt",
	}
	LogsHeader = []string{"LogID", "RequestID", "Status", "Description", "CreatedAt"}
)

var defaultHeaders = map[string][]string{
	TabUsers:       UsersHeader,
	TabWorkers:     WorkersHeader,
	TabRequests:    RequestsHeader,
	TabRequestLogs: LogsHeader,
}

// idColumn names the natural key column of each tab.
var idColumn = map[string]string{
	TabUsers:       "CustomerID",
	TabWorkers:     "ElectricianID",
	TabRequests:    "RequestID",
	TabRequestLogs: "LogID",
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func parseTime(raw string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseTimePtr(raw string) *time.Time {
	t := parseTime(raw)
	if t.IsZero() {
		return nil
	}
	return &t
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func parseFloat(raw string) *float64 {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

func decodeAssignment(raw string) domain.Assignment {
	if raw == "" || strings.EqualFold(raw, unassignedSentinel) {
		return domain.Unassigned()
	}
	return domain.AssignedTo(raw)
}

func encodeAssignment(a domain.Assignment) string {
	if id, ok := a.WorkerID(); ok {
		return id
	}
	return unassignedSentinel
}

func decodeCustomer(cols Columns, row []string) domain.Customer {
	return domain.Customer{
		ID:        cols.Get(row, "CustomerID"),
		Name:      cols.Get(row, "Name"),
		Phone:     cols.Get(row, "Phone"),
		Email:     cols.Get(row, "Email"),
		City:      cols.Get(row, "City"),
		Pincode:   cols.Get(row, "Pincode"),
		Address:   cols.Get(row, "Address"),
		CreatedAt: parseTime(cols.Get(row, "CreatedAt")),
		UpdatedAt: parseTime(cols.Get(row, "UpdatedAt")),
	}
}

func encodeCustomer(c domain.Customer) map[string]string {
	return map[string]string{
		"CustomerID": c.ID,
		"Name":       c.Name,
		"Phone":      c.Phone,
		"Email":      c.Email,
		"City":       c.City,
		"Pincode":    c.Pincode,
		"Address":    c.Address,
		"CreatedAt":  formatTime(c.CreatedAt),
		"UpdatedAt":  formatTime(c.UpdatedAt),
	}
}

func decodeWorker(cols Columns, row []string) domain.Worker {
	return domain.Worker{
		ID:        cols.Get(row, "ElectricianID"),
		Name:      cols.Get(row, "Name"),
		Phone:     cols.Get(row, "Phone"),
		City:      cols.Get(row, "City"),
		Area:      cols.Get(row, "Area"),
		Status:    domain.ParseWorkerStatus(cols.Get(row, "Status")),
		Latitude:  parseFloat(cols.Get(row, "Latitude")),
		Longitude: parseFloat(cols.Get(row, "Longitude")),
		CreatedAt: parseTime(cols.Get(row, "CreatedAt")),
	}
}

func encodeWorker(w domain.Worker) map[string]string {
	return map[string]string{
		"ElectricianID": w.ID,
		"Name":          w.Name,
		"Phone":         w.Phone,
		"City":          w.City,
		"Area":          w.Area,
		"Status":        string(w.Status),
		"Latitude":      formatFloat(w.Latitude),
		"Longitude":     formatFloat(w.Longitude),
		"CreatedAt":     formatTime(w.CreatedAt),
	}
}

// decodeRequest reports ok=false when the status cell is blank or not a known
// status. Such rows have no place in the lifecycle and must not be guessed at.
func decodeRequest(cols Columns, row []string) (domain.ServiceRequest, bool) {
	status, err := domain.ParseRequestStatus(cols.Get(row, "Status"))
	return domain.ServiceRequest{
		ID:            cols.Get(row, "RequestID"),
		CustomerID:    cols.Get(row, "CustomerID"),
		Assignment:    decodeAssignment(cols.Get(row, "ElectricianID")),
		ServiceType:   cols.Get(row, "ServiceType"),
		Urgency:       cols.Get(row, "Urgency"),
		Status:        status,
		PreferredDate: cols.Get(row, "PreferredDate"),
		PreferredSlot: cols.Get(row, "PreferredSlot"),
		Description:   cols.Get(row, "Description"),
		Customer: domain.CustomerSnapshot{
			Name:    cols.Get(row, "CustomerName"),
			Phone:   cols.Get(row, "CustomerPhone"),
			Address: cols.Get(row, "CustomerAddress"),
			City:    cols.Get(row, "CustomerCity"),
			Pincode: cols.Get(row, "CustomerPincode"),
		},
		Worker: domain.WorkerSnapshot{
			Name:  cols.Get(row, "ElectricianName"),
			Phone: cols.Get(row, "ElectricianPhone"),
			City:  cols.Get(row, "ElectricianCity"),
		},
		Latitude:    parseFloat(cols.Get(row, "Latitude")),
		Longitude:   parseFloat(cols.Get(row, "Longitude")),
		CreatedAt:   parseTime(cols.Get(row, "CreatedAt")),
		UpdatedAt:   parseTime(cols.Get(row, "UpdatedAt")),
		AcceptedAt:  parseTimePtr(cols.Get(row, "AcceptedAt")),
		CompletedAt: parseTimePtr(cols.Get(row, "CompletedAt")),
		CancelledAt: parseTimePtr(cols.Get(row, "CancelledAt")),
	}, err == nil
}

func encodeRequest(r domain.ServiceRequest) map[string]string {
	return map[string]string{
		"RequestID":        r.ID,
		"CustomerID":       r.CustomerID,
		"ElectricianID":    encodeAssignment(r.Assignment),
		"ServiceType":      r.ServiceType,
		"Urgency":          r.Urgency,
		"Status":           string(r.Status),
		"PreferredDate":    r.PreferredDate,
		"PreferredSlot":    r.PreferredSlot,
		"Description":      r.Description,
		"CustomerName":     r.Customer.Name,
		"CustomerPhone":    r.Customer.Phone,
		"CustomerAddress":  r.Customer.Address,
		"CustomerCity":     r.Customer.City,
		"CustomerPincode":  r.Customer.Pincode,
		"ElectricianName":  r.Worker.Name,
		"ElectricianPhone": r.Worker.Phone,
		"ElectricianCity":  r.Worker.City,
		"Latitude":         formatFloat(r.Latitude),
		"Longitude":        formatFloat(r.Longitude),
		"CreatedAt":        formatTime(r.CreatedAt),
		"UpdatedAt":        formatTime(r.UpdatedAt),
		"AcceptedAt":       formatTimePtr(r.AcceptedAt),
		"CompletedAt":      formatTimePtr(r.CompletedAt),
		"CancelledAt":      formatTimePtr(r.CancelledAt),
	}
}

func decodeLog(cols Columns, row []string) domain.RequestLog {
	return domain.RequestLog{
		ID:          cols.Get(row, "LogID"),
		RequestID:   cols.Get(row, "RequestID"),
		Status:      domain.RequestStatus(strings.ToUpper(cols.Get(row, "Status"))),
		Description: cols.Get(row, "Description"),
		CreatedAt:   parseTime(cols.Get(row, "CreatedAt")),
	}
}

func encodeLog(l domain.RequestLog) map[string]string {
	return map[string]string{
		"LogID":       l.ID,
		"RequestID":   l.RequestID,
		"Status":      string(l.Status),
		"Description": l.Description,
		"CreatedAt":   formatTime(l.CreatedAt),
	}
}
