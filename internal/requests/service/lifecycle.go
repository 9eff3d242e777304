package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
	"github.com/slangop28/local-electrician-sub001/internal/events"
	"github.com/slangop28/local-electrician-sub001/internal/store"
	"github.com/slangop28/local-electrician-sub001/platform/apperr"
	"github.com/slangop28/local-electrician-sub001/platform/sanitize"
)

// TransitionInput is a lifecycle command from a worker. The actor fields are
// denormalized onto the request on accept; missing ones come from the worker record.
type TransitionInput struct {
	RequestID  string
	ActorID    string
	Action     string
	ActorName  string
	ActorPhone string
	ActorCity  string
}

// Transition applies accept, decline, complete or cancel.
//
// The guard is evaluated once against the current row to produce a precise
// error, and then enforced again by the conditional write. When the write
// matches nothing another caller changed the row in between; the row is read
// again and the guard re-evaluated to classify the failure.
func (s *Service) Transition(ctx context.Context, in TransitionInput) (domain.ServiceRequest, error) {
	const op = "requests.Transition"

	action, err := domain.ParseAction(in.Action)
	if err != nil {
		return domain.ServiceRequest{}, apperr.Validation("invalid action").WithOp(op)
	}
	if in.RequestID == "" || in.ActorID == "" {
		return domain.ServiceRequest{}, apperr.Validation("requestId and actorId are required").WithOp(op)
	}

	current, err := s.loadRequest(ctx, in.RequestID, op)
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	if err := guardError(action.Check(current, in.ActorID), op); err != nil {
		return domain.ServiceRequest{}, err
	}

	now := s.now().UTC()
	t := store.Transition{
		RequestID: in.RequestID,
		ActorID:   in.ActorID,
		From:      action.Sources(),
		To:        action.Target(),
		Claim:     action == domain.ActionAccept,
		At:        now,
		Log: domain.RequestLog{
			ID:          uuid.NewString(),
			RequestID:   in.RequestID,
			Status:      action.Target(),
			Description: action.LogDescription(in.ActorID),
			CreatedAt:   now,
		},
	}
	if t.Claim {
		t.Worker = s.workerSnapshot(ctx, in)
	}

	updated, err := s.store.ApplyTransition(ctx, t)
	switch {
	case errors.Is(err, store.ErrConditionFailed):
		return domain.ServiceRequest{}, s.classifyLostRace(ctx, action, in, op)
	case errors.Is(err, store.ErrNotFound):
		return domain.ServiceRequest{}, apperr.NotFound("request not found").WithOp(op)
	case err != nil:
		return domain.ServiceRequest{}, err
	}

	s.log.WithContext(ctx).Info("service request transitioned",
		"request_id", updated.ID, "action", string(action), "actor_id", in.ActorID,
		"from", string(current.Status), "to", string(updated.Status))
	s.publish(ctx, events.RequestStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		RequestID:  updated.ID,
		ActorID:    in.ActorID,
		Action:     string(action),
		FromStatus: string(current.Status),
		ToStatus:   string(updated.Status),
	})
	return updated, nil
}

func (s *Service) loadRequest(ctx context.Context, id, op string) (domain.ServiceRequest, error) {
	req, err := s.store.GetRequest(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.ServiceRequest{}, apperr.NotFound("request not found").WithOp(op)
	}
	return req, err
}

func (s *Service) classifyLostRace(ctx context.Context, action domain.Action, in TransitionInput, op string) error {
	fresh, err := s.loadRequest(ctx, in.RequestID, op)
	if err != nil {
		return err
	}
	if gerr := guardError(action.Check(fresh, in.ActorID), op); gerr != nil {
		return gerr
	}
	return apperr.Conflict("request was modified concurrently").WithOp(op)
}

func guardError(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrWrongState):
		return apperr.Conflict("request is not in a valid state for this action").WithOp(op)
	case errors.Is(err, domain.ErrNotAssignee), errors.Is(err, domain.ErrUnclaimed):
		return apperr.Forbidden(err.Error()).WithOp(op)
	default:
		return apperr.Wrap(apperr.KindInternal, "guard evaluation failed", err).WithOp(op)
	}
}

// workerSnapshot prefers the caller-supplied actor fields and fills the rest from
// the worker record. An unknown worker is not an error.
func (s *Service) workerSnapshot(ctx context.Context, in TransitionInput) domain.WorkerSnapshot {
	snap := domain.WorkerSnapshot{
		Name:  sanitize.Line(in.ActorName),
		Phone: sanitize.Line(in.ActorPhone),
		City:  sanitize.Line(in.ActorCity),
	}
	if snap.Name != "" && snap.Phone != "" && snap.City != "" {
		return snap
	}

	w, err := s.store.GetWorker(ctx, in.ActorID)
	if err != nil {
		s.log.WithContext(ctx).Warn("worker lookup for accept failed", "worker_id", in.ActorID, "error", err)
		return snap
	}
	if snap.Name == "" {
		snap.Name = w.Name
	}
	if snap.Phone == "" {
		snap.Phone = w.Phone
	}
	if snap.City == "" {
		snap.City = w.City
	}
	return snap
}
