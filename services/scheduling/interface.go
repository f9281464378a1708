package scheduling

import (
	"context"
	"time"

	scheduleRepo "recruitd/database/repository/schedule"
	"recruitd/models"
	"recruitd/services/alerts"

	"go.uber.org/zap"
)

// ScheduleInput carries everything needed to book an interview slot.
type ScheduleInput struct {
	InterviewID   string `json:"interview_id,omitempty"`
	CandidateID   string `json:"candidate_id"`
	RequirementID string `json:"requirement_id"`

	InterviewType   string `json:"interview_type"`
	ScheduledDate   string `json:"scheduled_date"`
	ScheduledTime   string `json:"scheduled_time"`
	Timezone        string `json:"timezone,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`

	InterviewerName        string               `json:"interviewer_name"`
	InterviewerEmail       string               `json:"interviewer_email"`
	AdditionalParticipants []models.Participant `json:"additional_participants,omitempty"`

	MeetingLink string `json:"meeting_link,omitempty"`
	MeetingID   string `json:"meeting_id,omitempty"`
	Location    string `json:"location,omitempty"`
	Notes       string `json:"notes,omitempty"`
	ScheduledBy string `json:"scheduled_by,omitempty"`
}

// RescheduleInput moves a booked slot to a new date/time.
type RescheduleInput struct {
	NewDate       string `json:"new_date"`
	NewTime       string `json:"new_time"`
	Reason        string `json:"reason"`
	RescheduledBy string `json:"rescheduled_by,omitempty"`
}

// AvailabilityQuery asks whether the named participants are free for a slot.
type AvailabilityQuery struct {
	ScheduledDate   string   `json:"scheduled_date"`
	ScheduledTime   string   `json:"scheduled_time"`
	Timezone        string   `json:"timezone,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	Participants    []string `json:"participants"`
}

// ListQuery filters and pages a schedule listing.
type ListQuery struct {
	CandidateID   string
	RequirementID string
	Status        models.ScheduleStatus
	Skip          int64
	Limit         int64
}

// Service is the interview scheduling coordinator: it owns the
// InterviewSchedule aggregate and is the only writer of it.
type Service interface {
	Schedule(ctx context.Context, in ScheduleInput) (*models.InterviewSchedule, error)
	Get(ctx context.Context, id string) (*models.InterviewSchedule, error)
	List(ctx context.Context, q ListQuery) ([]models.InterviewSchedule, int64, error)

	Reschedule(ctx context.Context, id string, in RescheduleInput) (*models.InterviewSchedule, error)
	Cancel(ctx context.Context, id, reason string) (*models.InterviewSchedule, error)
	Confirm(ctx context.Context, id, party string) (*models.InterviewSchedule, error)
	MarkOutcome(ctx context.Context, id string, status models.ScheduleStatus) (*models.InterviewSchedule, error)

	CheckAvailability(ctx context.Context, q AvailabilityQuery) (*AvailabilityResult, error)
	SendReminders(ctx context.Context, hoursBefore int, now time.Time) ([]string, error)

	Analytics(ctx context.Context) (*ScheduleAnalytics, error)
}

// DefaultSchedulingService implements Service.
type DefaultSchedulingService struct {
	Repo      scheduleRepo.ScheduleRepository
	Alerts    alerts.Emitter
	Reminders alerts.ReminderQueue
	Logger    *zap.Logger
}
