package alerts

import (
	"context"

	"recruitd/models"
)

// Emitter pushes lifecycle events to the alerting subsystem. Emission is
// fire-and-forget: failures are logged, never propagated to the caller.
type Emitter interface {
	Emit(ctx context.Context, event models.Event)
}

// ReminderQueue hands reminder deliveries to the worker. Unlike Emit, a
// failed enqueue is reported so the caller can leave the reminder unclaimed.
type ReminderQueue interface {
	Remind(ctx context.Context, payload models.ReminderPayload) error
}
