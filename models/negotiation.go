package models

import "time"

// NegotiationStatus is the lifecycle state of a rate negotiation.
type NegotiationStatus string

const (
	NegotiationInitiated  NegotiationStatus = "initiated"
	NegotiationInProgress NegotiationStatus = "in_progress"
	NegotiationAgreed     NegotiationStatus = "agreed"
	NegotiationFailed     NegotiationStatus = "failed"
	NegotiationCancelled  NegotiationStatus = "cancelled"
)

// Terminal reports whether the negotiation accepts no further rounds or counters.
func (s NegotiationStatus) Terminal() bool {
	return s == NegotiationAgreed || s == NegotiationFailed || s == NegotiationCancelled
}

// RateType is the unit a rate is quoted in.
type RateType string

const (
	RateHourly  RateType = "hourly"
	RateAnnual  RateType = "annual"
	RateMonthly RateType = "monthly"
)

// Valid reports whether the rate type is one of the known units.
func (t RateType) Valid() bool {
	return t == RateHourly || t == RateAnnual || t == RateMonthly
}

// RateNegotiation is the bargaining aggregate created for one submission.
// Version is bumped on every mutation; repositories compare it before writing
// so concurrent round mutations cannot interleave.
type RateNegotiation struct {
	ID            string `bson:"id" json:"id"`
	SubmissionID  string `bson:"submission_id" json:"submission_id"`
	CandidateID   string `bson:"candidate_id" json:"candidate_id"`
	RequirementID string `bson:"requirement_id" json:"requirement_id"`
	CustomerID    string `bson:"customer_id" json:"customer_id"`

	// Rate tracking.
	CandidateDesiredRate *float64 `bson:"candidate_desired_rate,omitempty" json:"candidate_desired_rate,omitempty"`
	CustomerMaxRate      *float64 `bson:"customer_max_rate,omitempty" json:"customer_max_rate,omitempty"`
	InitialProposedRate  float64  `bson:"initial_proposed_rate" json:"initial_proposed_rate"`
	CurrentProposedRate  float64  `bson:"current_proposed_rate" json:"current_proposed_rate"`
	AgreedRate           *float64 `bson:"agreed_rate,omitempty" json:"agreed_rate,omitempty"`
	RateType             RateType `bson:"rate_type" json:"rate_type"`

	// Margin tracking.
	BillRate               *float64 `bson:"bill_rate,omitempty" json:"bill_rate,omitempty"`
	PayRate                *float64 `bson:"pay_rate,omitempty" json:"pay_rate,omitempty"`
	Margin                 *float64 `bson:"margin,omitempty" json:"margin,omitempty"`
	MarginPercentage       *float64 `bson:"margin_percentage,omitempty" json:"margin_percentage,omitempty"`
	TargetMarginPercentage float64  `bson:"target_margin_percentage" json:"target_margin_percentage"`

	// Lifecycle.
	Status       NegotiationStatus `bson:"status" json:"status"`
	TotalRounds  int               `bson:"total_rounds" json:"total_rounds"`
	MaxRounds    int               `bson:"max_rounds" json:"max_rounds"`
	StartedAt    time.Time         `bson:"started_at" json:"started_at"`
	ClosedAt     *time.Time        `bson:"closed_at,omitempty" json:"closed_at,omitempty"`
	ClosedReason string            `bson:"closed_reason,omitempty" json:"closed_reason,omitempty"`
	NegotiatedBy string            `bson:"negotiated_by,omitempty" json:"negotiated_by,omitempty"`

	Version int `bson:"version" json:"-"`
}

// RoundCommit is the allow-listed set of negotiation fields a round append may
// touch. Applied in the same transaction as the round insert.
type RoundCommit struct {
	TotalRounds         int
	CurrentProposedRate float64
	Status              NegotiationStatus
}

// CounterCommit is the allow-listed update applied when the latest round
// receives a counter offer.
type CounterCommit struct {
	CounterRate         float64
	CounterNotes        string
	RespondedAt         time.Time
	CurrentProposedRate float64
	Status              NegotiationStatus
}

// NegotiationClose is the allow-listed update applied when a negotiation is
// finalized or terminated.
type NegotiationClose struct {
	Status           NegotiationStatus
	AgreedRate       *float64
	RateType         RateType
	Margin           *float64
	MarginPercentage *float64
	ClosedAt         time.Time
	ClosedReason     string
}
