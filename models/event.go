package models

import "time"

// EventType names a lifecycle event pushed to the alerting subsystem.
type EventType string

const (
	EventRateNegotiationStarted EventType = "rate.negotiation_started"
	EventRateCounterOffered     EventType = "rate.counter_offered"
	EventRateAgreed             EventType = "rate.agreed"
	EventInterviewScheduled     EventType = "interview.scheduled"
	EventInterviewRescheduled   EventType = "interview.rescheduled"
	EventInterviewCancelled     EventType = "interview.cancelled"
)

// Event is the envelope handed to the alert sink. Delivery (email/SMS/Slack)
// happens downstream; this service only enqueues.
type Event struct {
	EventID    string                 `json:"event_id"`
	EventType  EventType              `json:"event_type"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	UserID     string                 `json:"user_id,omitempty"`
	EmittedAt  time.Time              `json:"emitted_at"`
}

// ReminderPayload is the delivery task body for an interview reminder.
type ReminderPayload struct {
	ScheduleID       string `json:"schedule_id"`
	CandidateID      string `json:"candidate_id"`
	InterviewerEmail string `json:"interviewer_email"`
	ScheduledDate    string `json:"scheduled_date"`
	ScheduledTime    string `json:"scheduled_time"`
	Timezone         string `json:"timezone"`
	InterviewType    string `json:"interview_type"`
}
