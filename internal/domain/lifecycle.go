package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Action is an external lifecycle command issued by a worker.
type Action string

const (
	ActionAccept   Action = "accept"
	ActionDecline  Action = "decline"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// ErrUnknownAction is returned by ParseAction.
var ErrUnknownAction = errors.New("unknown action")

// Guard failures. Services map them onto the error taxonomy.
var (
	ErrWrongState  = errors.New("request is not in a state that allows this action")
	ErrNotAssignee = errors.New("request is assigned to another worker")
	ErrUnclaimed   = errors.New("an unassigned request cannot be declined or cancelled by a worker")
)

// ParseAction accepts any casing of a known action.
func ParseAction(raw string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(raw)))
	switch a {
	case ActionAccept, ActionDecline, ActionComplete, ActionCancel:
		return a, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownAction, raw)
}

// Target returns the status the action moves a request into.
func (a Action) Target() RequestStatus {
	switch a {
	case ActionAccept:
		return StatusAccepted
	case ActionComplete:
		return StatusSuccess
	default:
		return StatusCancelled
	}
}

// Sources returns the states the action may be applied from.
func (a Action) Sources() []RequestStatus {
	switch a {
	case ActionAccept:
		return []RequestStatus{StatusNew}
	case ActionComplete:
		return []RequestStatus{StatusAccepted}
	default:
		return []RequestStatus{StatusNew, StatusAccepted}
	}
}

// Check evaluates the guard for actor applying a to req.
//
// accept checks state before assignment so a second claimant on an already
// accepted request sees ErrWrongState. complete, decline and cancel check the
// assignment first so a foreign worker always sees an authorization failure.
func (a Action) Check(req ServiceRequest, actorID string) error {
	if a == ActionAccept {
		if req.Status != StatusNew {
			return ErrWrongState
		}
		if !req.Assignment.ClaimableBy(actorID) {
			return ErrNotAssignee
		}
		return nil
	}

	if req.Assignment.IsUnassigned() {
		return ErrUnclaimed
	}
	if !req.Assignment.IsAssignedTo(actorID) {
		return ErrNotAssignee
	}
	for _, from := range a.Sources() {
		if req.Status == from && CanTransition(from, a.Target()) {
			return nil
		}
	}
	return ErrWrongState
}

// LogDescription is the audit text recorded for a successful action.
func (a Action) LogDescription(actorID string) string {
	switch a {
	case ActionAccept:
		return "accepted by " + actorID
	case ActionComplete:
		return "completed by " + actorID
	case ActionDecline:
		return "declined by " + actorID
	default:
		return "cancelled by " + actorID
	}
}
