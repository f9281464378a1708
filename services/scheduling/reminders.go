package scheduling

import (
	"context"
	"time"

	"recruitd/models"

	"go.uber.org/zap"
)

// SendReminders finds interviews starting roughly hoursBefore from now and
// queues one reminder each. The claim is an atomic flag flip, so overlapping
// sweeps cannot double-send; a failed enqueue leaves the flag set and is
// logged rather than retried here.
func (s *DefaultSchedulingService) SendReminders(ctx context.Context, hoursBefore int, now time.Time) ([]string, error) {
	if hoursBefore <= 0 {
		return nil, &ValidationError{Message: "hours_before must be positive"}
	}

	candidates, err := s.Repo.ReminderCandidates(ctx)
	if err != nil {
		return nil, err
	}

	target := now.Add(time.Duration(hoursBefore) * time.Hour)
	windowStart := target.Add(-time.Hour)
	windowEnd := target.Add(time.Hour)

	var sent []string
	for i := range candidates {
		schedule := &candidates[i]
		startsAt, err := schedule.StartsAt()
		if err != nil {
			s.Logger.Warn("skipping schedule with unparseable slot",
				zap.String("schedule_id", schedule.ID), zap.Error(err))
			continue
		}
		if startsAt.Before(windowStart) || startsAt.After(windowEnd) {
			continue
		}

		claimed, err := s.Repo.ClaimReminder(ctx, schedule.ID, now)
		if err != nil {
			return sent, err
		}
		if !claimed {
			continue
		}

		payload := models.ReminderPayload{
			ScheduleID:       schedule.ID,
			CandidateID:      schedule.CandidateID,
			InterviewerEmail: schedule.InterviewerEmail,
			ScheduledDate:    schedule.ScheduledDate,
			ScheduledTime:    schedule.ScheduledTime,
			Timezone:         schedule.Timezone,
			InterviewType:    schedule.InterviewType,
		}
		if err := s.Reminders.Remind(ctx, payload); err != nil {
			s.Logger.Error("failed to enqueue reminder",
				zap.String("schedule_id", schedule.ID), zap.Error(err))
			continue
		}
		sent = append(sent, schedule.ID)
	}

	s.Logger.Info("reminder sweep complete",
		zap.Int("hours_before", hoursBefore),
		zap.Int("sent", len(sent)))
	return sent, nil
}
