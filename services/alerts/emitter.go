package alerts

import (
	"context"
	"time"

	"recruitd/models"
	"recruitd/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// AsynqEmitter enqueues events onto the alert queue; the downstream alerting
// worker owns channel delivery.
type AsynqEmitter struct {
	Client *asynq.Client
	Logger *zap.Logger
}

// NewAsynqEmitter returns an emitter backed by the given asynq client.
func NewAsynqEmitter(client *asynq.Client, logger *zap.Logger) *AsynqEmitter {
	return &AsynqEmitter{Client: client, Logger: logger}
}

// Emit stamps the event with a ULID and timestamp and enqueues it.
func (e *AsynqEmitter) Emit(ctx context.Context, event models.Event) {
	if event.EventID == "" {
		event.EventID = ulid.Make().String()
	}
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now().UTC()
	}

	task, err := tasks.NewAlertTask(event)
	if err != nil {
		e.Logger.Error("failed to build alert task",
			zap.String("event_type", string(event.EventType)), zap.Error(err))
		return
	}
	if _, err := e.Client.EnqueueContext(ctx, task); err != nil {
		e.Logger.Error("failed to enqueue alert",
			zap.String("event_type", string(event.EventType)),
			zap.String("entity_id", event.EntityID), zap.Error(err))
		return
	}
	e.Logger.Debug("alert enqueued",
		zap.String("event_type", string(event.EventType)),
		zap.String("entity_id", event.EntityID))
}

// Remind enqueues an interview reminder for the worker to deliver.
func (e *AsynqEmitter) Remind(ctx context.Context, payload models.ReminderPayload) error {
	task, err := tasks.NewInterviewReminderTask(payload)
	if err != nil {
		return err
	}
	if _, err := e.Client.EnqueueContext(ctx, task); err != nil {
		return err
	}
	e.Logger.Debug("reminder enqueued", zap.String("schedule_id", payload.ScheduleID))
	return nil
}
