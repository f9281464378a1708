package models

import "time"

// ScheduleStatus is the state of a booked interview slot.
type ScheduleStatus string

const (
	ScheduleScheduled   ScheduleStatus = "scheduled"
	ScheduleConfirmed   ScheduleStatus = "confirmed"
	ScheduleRescheduled ScheduleStatus = "rescheduled"
	ScheduleCancelled   ScheduleStatus = "cancelled"
	ScheduleCompleted   ScheduleStatus = "completed"
	ScheduleNoShow      ScheduleStatus = "no_show"
)

// Closed reports whether the slot can no longer be moved or confirmed.
func (s ScheduleStatus) Closed() bool {
	return s == ScheduleCancelled || s == ScheduleCompleted || s == ScheduleNoShow
}

// Confirmation states within the per-party confirmation map.
const (
	ConfirmationPending   = "pending"
	ConfirmationConfirmed = "confirmed"
	ConfirmationDeclined  = "declined"
)

// Participant is an extra attendee on an interview.
type Participant struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Role  string `bson:"role,omitempty" json:"role,omitempty"`
}

// RescheduleEntry is one date/time change in the append-only history.
type RescheduleEntry struct {
	OldDate       string    `bson:"old_date" json:"old_date"`
	OldTime       string    `bson:"old_time" json:"old_time"`
	NewDate       string    `bson:"new_date" json:"new_date"`
	NewTime       string    `bson:"new_time" json:"new_time"`
	Reason        string    `bson:"reason" json:"reason"`
	RescheduledBy string    `bson:"rescheduled_by" json:"rescheduled_by"`
	RescheduledAt time.Time `bson:"rescheduled_at" json:"rescheduled_at"`
}

// InterviewSchedule is one booked interview slot. RescheduleHistory is
// append-only; ReschedCount always equals its length.
type InterviewSchedule struct {
	ID            string `bson:"id" json:"id"`
	InterviewID   string `bson:"interview_id,omitempty" json:"interview_id,omitempty"`
	CandidateID   string `bson:"candidate_id" json:"candidate_id"`
	RequirementID string `bson:"requirement_id" json:"requirement_id"`

	// Slot details. Date is "YYYY-MM-DD", Time is "HH:MM" local to Timezone.
	InterviewType   string `bson:"interview_type" json:"interview_type"`
	ScheduledDate   string `bson:"scheduled_date" json:"scheduled_date"`
	ScheduledTime   string `bson:"scheduled_time" json:"scheduled_time"`
	Timezone        string `bson:"timezone" json:"timezone"`
	DurationMinutes int    `bson:"duration_minutes" json:"duration_minutes"`

	// Participants.
	InterviewerName        string        `bson:"interviewer_name" json:"interviewer_name"`
	InterviewerEmail       string        `bson:"interviewer_email" json:"interviewer_email"`
	AdditionalParticipants []Participant `bson:"additional_participants,omitempty" json:"additional_participants,omitempty"`

	// Meeting details.
	MeetingLink string `bson:"meeting_link,omitempty" json:"meeting_link,omitempty"`
	MeetingID   string `bson:"meeting_id,omitempty" json:"meeting_id,omitempty"`
	Location    string `bson:"location,omitempty" json:"location,omitempty"`

	Status             ScheduleStatus    `bson:"status" json:"status"`
	ConfirmationStatus map[string]string `bson:"confirmation_status" json:"confirmation_status"`

	RescheduleCount   int               `bson:"reschedule_count" json:"reschedule_count"`
	RescheduleHistory []RescheduleEntry `bson:"reschedule_history,omitempty" json:"reschedule_history,omitempty"`

	ReminderSent   bool       `bson:"reminder_sent" json:"reminder_sent"`
	ReminderSentAt *time.Time `bson:"reminder_sent_at,omitempty" json:"reminder_sent_at,omitempty"`

	CancellationReason string    `bson:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`
	Notes              string    `bson:"notes,omitempty" json:"notes,omitempty"`
	ScheduledBy        string    `bson:"scheduled_by,omitempty" json:"scheduled_by,omitempty"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
}

// StartsAt resolves the slot's wall-clock moment in its timezone. Falls back
// to UTC when the zone name is unknown.
func (s *InterviewSchedule) StartsAt() (time.Time, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return time.ParseInLocation("2006-01-02 15:04", s.ScheduledDate+" "+s.ScheduledTime, loc)
}

// ReschedulePatch is the allow-listed update applied on a reschedule: the new
// slot plus the history entry to append.
type ReschedulePatch struct {
	NewDate string
	NewTime string
	Entry   RescheduleEntry
}
