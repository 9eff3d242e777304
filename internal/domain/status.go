package domain

import (
	"fmt"
	"strings"
)

// RequestStatus is the lifecycle state of a service request.
type RequestStatus string

const (
	StatusNew       RequestStatus = "NEW"
	StatusAccepted  RequestStatus = "ACCEPTED"
	StatusSuccess   RequestStatus = "SUCCESS"
	StatusCancelled RequestStatus = "CANCELLED"
	StatusPaid      RequestStatus = "PAID"
)

// transitions lists every allowed (from -> to) pair.
var transitions = map[RequestStatus][]RequestStatus{
	StatusNew:      {StatusAccepted, StatusCancelled},
	StatusAccepted: {StatusSuccess, StatusCancelled},
	StatusSuccess:  {StatusPaid},
}

// ParseRequestStatus accepts any casing of a known status.
func ParseRequestStatus(raw string) (RequestStatus, error) {
	s := RequestStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case StatusNew, StatusAccepted, StatusSuccess, StatusCancelled, StatusPaid:
		return s, nil
	}
	return "", fmt.Errorf("unknown request status %q", raw)
}

// CanTransition reports whether the lifecycle allows moving from -> to.
func CanTransition(from, to RequestStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition leaves s.
func (s RequestStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsActive reports whether a customer still has this request in flight.
func (s RequestStatus) IsActive() bool {
	return s == StatusNew || s == StatusAccepted
}

// WorkerStatus is the verification state of a field worker.
type WorkerStatus string

const (
	WorkerPending   WorkerStatus = "PENDING"
	WorkerVerified  WorkerStatus = "VERIFIED"
	WorkerRejected  WorkerStatus = "REJECTED"
	WorkerSuspended WorkerStatus = "SUSPENDED"
)

// ParseWorkerStatus accepts any casing; unknown or empty values become PENDING.
func ParseWorkerStatus(raw string) WorkerStatus {
	switch s := WorkerStatus(strings.ToUpper(strings.TrimSpace(raw))); s {
	case WorkerVerified, WorkerRejected, WorkerSuspended:
		return s
	default:
		return WorkerPending
	}
}
