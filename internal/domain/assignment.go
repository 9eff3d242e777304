package domain

import "strings"

// Assignment says who a service request is addressed to. The zero value is
// Unassigned, which makes the request broadcast-eligible.
type Assignment struct {
	workerID string
}

// Unassigned returns the broadcast assignment.
func Unassigned() Assignment {
	return Assignment{}
}

// AssignedTo returns an assignment targeting workerID. A blank id yields Unassigned.
func AssignedTo(workerID string) Assignment {
	return Assignment{workerID: strings.TrimSpace(workerID)}
}

// IsUnassigned reports whether the request is still open for broadcast claims.
func (a Assignment) IsUnassigned() bool {
	return a.workerID == ""
}

// WorkerID returns the target worker and whether there is one.
func (a Assignment) WorkerID() (string, bool) {
	return a.workerID, a.workerID != ""
}

// IsAssignedTo reports whether the request targets workerID specifically.
func (a Assignment) IsAssignedTo(workerID string) bool {
	return a.workerID != "" && a.workerID == strings.TrimSpace(workerID)
}

// ClaimableBy reports whether workerID may claim a request with this assignment.
func (a Assignment) ClaimableBy(workerID string) bool {
	return a.IsUnassigned() || a.IsAssignedTo(workerID)
}

// String renders the assignment for logs.
func (a Assignment) String() string {
	if a.IsUnassigned() {
		return "unassigned"
	}
	return "assigned:" + a.workerID
}
