package scheduleRepo

import (
	"context"
	"errors"
	"time"

	"recruitd/models"
)

// ErrNotFound is returned when a schedule id matches nothing.
var ErrNotFound = errors.New("interview schedule not found")

// ScheduleFilter narrows a schedule listing.
type ScheduleFilter struct {
	CandidateID   string
	RequirementID string
	Status        models.ScheduleStatus
	Skip          int64
	Limit         int64
}

// ScheduleRepository defines the data access methods used by the schedule
// store. Reschedules are applied as a single atomic document update so
// reschedule_count and the history array cannot drift.
type ScheduleRepository interface {
	CreateSchedule(ctx context.Context, schedule *models.InterviewSchedule) error
	GetScheduleByID(ctx context.Context, id string) (*models.InterviewSchedule, error)
	ListSchedules(ctx context.Context, filter ScheduleFilter) ([]models.InterviewSchedule, int64, error)
	AllSchedules(ctx context.Context) ([]models.InterviewSchedule, error)

	ApplyReschedule(ctx context.Context, id string, patch models.ReschedulePatch) (*models.InterviewSchedule, error)
	CancelSchedule(ctx context.Context, id, reason string) (*models.InterviewSchedule, error)
	SetConfirmation(ctx context.Context, id, party, state string) (*models.InterviewSchedule, error)
	SetStatus(ctx context.Context, id string, status models.ScheduleStatus) (*models.InterviewSchedule, error)

	// ReminderCandidates returns schedules with no reminder sent and not
	// cancelled; the service applies the time-window check.
	ReminderCandidates(ctx context.Context) ([]models.InterviewSchedule, error)
	// ClaimReminder marks the reminder sent if and only if it was unsent,
	// reporting whether this call won the claim.
	ClaimReminder(ctx context.Context, id string, at time.Time) (bool, error)
}
