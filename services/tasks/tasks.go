package tasks

import (
	"encoding/json"

	"recruitd/models"

	"github.com/hibiken/asynq"
)

// Task type names consumed by the worker in cron/worker.go.
const (
	TypeAlertDispatch     = "alert:dispatch"
	TypeInterviewReminder = "reminder:interview"
)

// NewAlertTask wraps a lifecycle event for the alerting queue.
func NewAlertTask(event models.Event) (*asynq.Task, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAlertDispatch, b), nil
}

// NewInterviewReminderTask wraps a reminder delivery payload.
func NewInterviewReminderTask(payload models.ReminderPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeInterviewReminder, b), nil
}
