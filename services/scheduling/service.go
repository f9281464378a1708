package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	scheduleRepo "recruitd/database/repository/schedule"
	"recruitd/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultTimezone        = "UTC"
	defaultDurationMinutes = 60
)

// getSchedule fetches and maps repository sentinels onto the service error
// taxonomy.
func (s *DefaultSchedulingService) getSchedule(ctx context.Context, id string) (*models.InterviewSchedule, error) {
	schedule, err := s.Repo.GetScheduleByID(ctx, id)
	if errors.Is(err, scheduleRepo.ErrNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule %s: %w", id, err)
	}
	return schedule, nil
}

func validateSlot(date, timeOfDay, tz string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return &ValidationError{Message: fmt.Sprintf("scheduled_date %q is not YYYY-MM-DD", date)}
	}
	if _, err := time.Parse("15:04", timeOfDay); err != nil {
		return &ValidationError{Message: fmt.Sprintf("scheduled_time %q is not HH:MM", timeOfDay)}
	}
	if tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return &ValidationError{Message: fmt.Sprintf("unknown timezone %q", tz)}
		}
	}
	return nil
}

// Schedule books a new interview slot in the scheduled state with both
// parties pending confirmation.
func (s *DefaultSchedulingService) Schedule(ctx context.Context, in ScheduleInput) (*models.InterviewSchedule, error) {
	if in.CandidateID == "" || in.RequirementID == "" {
		return nil, &ValidationError{Message: "candidate_id and requirement_id are required"}
	}
	if in.InterviewType == "" {
		return nil, &ValidationError{Message: "interview_type is required"}
	}
	if in.InterviewerName == "" || in.InterviewerEmail == "" {
		return nil, &ValidationError{Message: "interviewer_name and interviewer_email are required"}
	}
	if err := validateSlot(in.ScheduledDate, in.ScheduledTime, in.Timezone); err != nil {
		return nil, err
	}

	tz := in.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	duration := in.DurationMinutes
	if duration <= 0 {
		duration = defaultDurationMinutes
	}

	schedule := &models.InterviewSchedule{
		ID:                     uuid.New().String(),
		InterviewID:            in.InterviewID,
		CandidateID:            in.CandidateID,
		RequirementID:          in.RequirementID,
		InterviewType:          in.InterviewType,
		ScheduledDate:          in.ScheduledDate,
		ScheduledTime:          in.ScheduledTime,
		Timezone:               tz,
		DurationMinutes:        duration,
		InterviewerName:        in.InterviewerName,
		InterviewerEmail:       in.InterviewerEmail,
		AdditionalParticipants: in.AdditionalParticipants,
		MeetingLink:            in.MeetingLink,
		MeetingID:              in.MeetingID,
		Location:               in.Location,
		Status:                 models.ScheduleScheduled,
		ConfirmationStatus: map[string]string{
			"candidate":   models.ConfirmationPending,
			"interviewer": models.ConfirmationPending,
		},
		Notes:       in.Notes,
		ScheduledBy: in.ScheduledBy,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Repo.CreateSchedule(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	s.Alerts.Emit(ctx, models.Event{
		EventType:  models.EventInterviewScheduled,
		EntityType: "InterviewSchedule",
		EntityID:   schedule.ID,
		UserID:     in.ScheduledBy,
		Payload: map[string]interface{}{
			"schedule_id":    schedule.ID,
			"candidate_id":   schedule.CandidateID,
			"scheduled_date": schedule.ScheduledDate,
			"scheduled_time": schedule.ScheduledTime,
			"interview_type": schedule.InterviewType,
		},
	})

	s.Logger.Info("scheduled interview",
		zap.String("schedule_id", schedule.ID),
		zap.String("candidate_id", schedule.CandidateID),
		zap.String("slot", schedule.ScheduledDate+" "+schedule.ScheduledTime))
	return schedule, nil
}

// Get returns a schedule by id.
func (s *DefaultSchedulingService) Get(ctx context.Context, id string) (*models.InterviewSchedule, error) {
	return s.getSchedule(ctx, id)
}

// List returns a filtered page of schedules plus the total count.
func (s *DefaultSchedulingService) List(ctx context.Context, q ListQuery) ([]models.InterviewSchedule, int64, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Skip < 0 {
		q.Skip = 0
	}
	return s.Repo.ListSchedules(ctx, scheduleRepo.ScheduleFilter{
		CandidateID:   q.CandidateID,
		RequirementID: q.RequirementID,
		Status:        q.Status,
		Skip:          q.Skip,
		Limit:         q.Limit,
	})
}

// Cancel closes a slot with a mandatory reason.
func (s *DefaultSchedulingService) Cancel(ctx context.Context, id, reason string) (*models.InterviewSchedule, error) {
	if reason == "" {
		return nil, &ValidationError{Message: "cancellation reason is required"}
	}

	schedule, err := s.getSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule.Status.Closed() {
		return nil, &InvalidStateError{ID: id, Status: schedule.Status}
	}

	updated, err := s.Repo.CancelSchedule(ctx, id, reason)
	if errors.Is(err, scheduleRepo.ErrNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to cancel schedule: %w", err)
	}

	s.Alerts.Emit(ctx, models.Event{
		EventType:  models.EventInterviewCancelled,
		EntityType: "InterviewSchedule",
		EntityID:   id,
		Payload: map[string]interface{}{
			"schedule_id": id,
			"reason":      reason,
		},
	})

	s.Logger.Info("cancelled interview",
		zap.String("schedule_id", id),
		zap.String("reason", reason))
	return updated, nil
}

// Confirm records one party's confirmation. Once every party has confirmed
// the slot moves to the confirmed state.
func (s *DefaultSchedulingService) Confirm(ctx context.Context, id, party string) (*models.InterviewSchedule, error) {
	if party != "candidate" && party != "interviewer" {
		return nil, &ValidationError{Message: "party must be candidate or interviewer"}
	}

	schedule, err := s.getSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule.Status.Closed() {
		return nil, &InvalidStateError{ID: id, Status: schedule.Status}
	}

	updated, err := s.Repo.SetConfirmation(ctx, id, party, models.ConfirmationConfirmed)
	if errors.Is(err, scheduleRepo.ErrNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record confirmation: %w", err)
	}

	allConfirmed := true
	for _, state := range updated.ConfirmationStatus {
		if state != models.ConfirmationConfirmed {
			allConfirmed = false
			break
		}
	}
	if allConfirmed && updated.Status != models.ScheduleConfirmed {
		updated, err = s.Repo.SetStatus(ctx, id, models.ScheduleConfirmed)
		if err != nil {
			return nil, fmt.Errorf("failed to confirm schedule: %w", err)
		}
	}

	s.Logger.Info("recorded interview confirmation",
		zap.String("schedule_id", id),
		zap.String("party", party),
		zap.Bool("all_confirmed", allConfirmed))
	return updated, nil
}

// MarkOutcome records the terminal outcome of a held (or missed) interview.
func (s *DefaultSchedulingService) MarkOutcome(ctx context.Context, id string, status models.ScheduleStatus) (*models.InterviewSchedule, error) {
	if status != models.ScheduleCompleted && status != models.ScheduleNoShow {
		return nil, &ValidationError{Message: "outcome must be completed or no_show"}
	}

	schedule, err := s.getSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule.Status.Closed() {
		return nil, &InvalidStateError{ID: id, Status: schedule.Status}
	}

	updated, err := s.Repo.SetStatus(ctx, id, status)
	if errors.Is(err, scheduleRepo.ErrNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set outcome: %w", err)
	}

	s.Logger.Info("recorded interview outcome",
		zap.String("schedule_id", id),
		zap.String("status", string(status)))
	return updated, nil
}
