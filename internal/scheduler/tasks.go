package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskReconcileMirror = "reconcile.mirror"

type ReconcileMirrorPayload struct {
	Trigger string `json:"trigger"`
}

func NewReconcileMirrorTask(payload ReconcileMirrorPayload) (*asynq.Task, error) {
	if payload.Trigger == "" {
		payload.Trigger = "cron"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReconcileMirror, data), nil
}

func ParseReconcileMirrorPayload(task *asynq.Task) (ReconcileMirrorPayload, error) {
	var payload ReconcileMirrorPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ReconcileMirrorPayload{}, err
	}
	return payload, nil
}
