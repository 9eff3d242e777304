package domain

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to RequestStatus }{
		{StatusNew, StatusAccepted},
		{StatusNew, StatusCancelled},
		{StatusAccepted, StatusSuccess},
		{StatusAccepted, StatusCancelled},
		{StatusSuccess, StatusPaid},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to RequestStatus }{
		{StatusNew, StatusSuccess},
		{StatusNew, StatusPaid},
		{StatusAccepted, StatusNew},
		{StatusCancelled, StatusAccepted},
		{StatusPaid, StatusNew},
		{StatusSuccess, StatusCancelled},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}

	if !StatusCancelled.IsTerminal() || !StatusPaid.IsTerminal() {
		t.Fatal("expected cancelled and paid to be terminal")
	}
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction(" Accept ")
	if err != nil || a != ActionAccept {
		t.Fatalf("expected accept, got %q %v", a, err)
	}
	if _, err := ParseAction("reopen"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestActionCheck(t *testing.T) {
	newBroadcast := ServiceRequest{Status: StatusNew}
	newDirect := ServiceRequest{Status: StatusNew, Assignment: AssignedTo("ELEC-1")}
	accepted := ServiceRequest{Status: StatusAccepted, Assignment: AssignedTo("ELEC-1")}

	tests := []struct {
		name   string
		action Action
		req    ServiceRequest
		actor  string
		want   error
	}{
		{"accept broadcast", ActionAccept, newBroadcast, "ELEC-9", nil},
		{"accept own direct", ActionAccept, newDirect, "ELEC-1", nil},
		{"accept foreign direct", ActionAccept, newDirect, "ELEC-2", ErrNotAssignee},
		{"accept already accepted", ActionAccept, accepted, "ELEC-2", ErrWrongState},
		{"complete by assignee", ActionComplete, accepted, "ELEC-1", nil},
		{"complete by stranger", ActionComplete, accepted, "ELEC-2", ErrNotAssignee},
		{"complete before accept", ActionComplete, newDirect, "ELEC-1", ErrWrongState},
		{"decline own direct", ActionDecline, newDirect, "ELEC-1", nil},
		{"decline broadcast", ActionDecline, newBroadcast, "ELEC-1", ErrUnclaimed},
		{"cancel accepted", ActionCancel, accepted, "ELEC-1", nil},
		{"cancel cancelled", ActionCancel, ServiceRequest{Status: StatusCancelled, Assignment: AssignedTo("ELEC-1")}, "ELEC-1", ErrWrongState},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.action.Check(tc.req, tc.actor)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAssignment(t *testing.T) {
	var zero Assignment
	if !zero.IsUnassigned() {
		t.Fatal("expected zero value to be unassigned")
	}
	if !AssignedTo("  ").IsUnassigned() {
		t.Fatal("expected blank worker id to be unassigned")
	}
	a := AssignedTo("ELEC-1")
	if id, ok := a.WorkerID(); !ok || id != "ELEC-1" {
		t.Fatalf("unexpected worker id %q", id)
	}
	if a.ClaimableBy("ELEC-2") {
		t.Fatal("direct assignment must not be claimable by another worker")
	}
}
