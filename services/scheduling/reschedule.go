package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	scheduleRepo "recruitd/database/repository/schedule"
	"recruitd/models"

	"go.uber.org/zap"
)

// Reschedule moves a booked slot. The new slot, the count bump, and the
// history entry commit as one update, so the history always accounts for
// every move.
func (s *DefaultSchedulingService) Reschedule(ctx context.Context, id string, in RescheduleInput) (*models.InterviewSchedule, error) {
	if in.Reason == "" {
		return nil, &ValidationError{Message: "reschedule reason is required"}
	}
	if err := validateSlot(in.NewDate, in.NewTime, ""); err != nil {
		return nil, err
	}

	schedule, err := s.getSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule.Status.Closed() {
		return nil, &InvalidStateError{ID: id, Status: schedule.Status}
	}

	patch := models.ReschedulePatch{
		NewDate: in.NewDate,
		NewTime: in.NewTime,
		Entry: models.RescheduleEntry{
			OldDate:       schedule.ScheduledDate,
			OldTime:       schedule.ScheduledTime,
			NewDate:       in.NewDate,
			NewTime:       in.NewTime,
			Reason:        in.Reason,
			RescheduledBy: in.RescheduledBy,
			RescheduledAt: time.Now().UTC(),
		},
	}

	updated, err := s.Repo.ApplyReschedule(ctx, id, patch)
	if errors.Is(err, scheduleRepo.ErrNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reschedule: %w", err)
	}

	s.Alerts.Emit(ctx, models.Event{
		EventType:  models.EventInterviewRescheduled,
		EntityType: "InterviewSchedule",
		EntityID:   id,
		UserID:     in.RescheduledBy,
		Payload: map[string]interface{}{
			"schedule_id": id,
			"old_date":    patch.Entry.OldDate,
			"old_time":    patch.Entry.OldTime,
			"new_date":    in.NewDate,
			"new_time":    in.NewTime,
			"reason":      in.Reason,
		},
	})

	s.Logger.Info("rescheduled interview",
		zap.String("schedule_id", id),
		zap.String("new_slot", in.NewDate+" "+in.NewTime),
		zap.Int("reschedule_count", updated.RescheduleCount))
	return updated, nil
}
