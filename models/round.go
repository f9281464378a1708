package models

import "time"

// RoundStatus is the state of a single negotiation round.
type RoundStatus string

const (
	RoundProposed  RoundStatus = "proposed"
	RoundCountered RoundStatus = "countered"
	RoundAccepted  RoundStatus = "accepted"
	RoundRejected  RoundStatus = "rejected"
)

// ProposedBy identifies which party put a rate on the table.
type ProposedBy string

const (
	ProposedByRecruiter ProposedBy = "recruiter"
	ProposedByCandidate ProposedBy = "candidate"
	ProposedByCustomer  ProposedBy = "customer"
	ProposedByAI        ProposedBy = "ai"
)

// Valid reports whether the proposer is a known party.
func (p ProposedBy) Valid() bool {
	switch p {
	case ProposedByRecruiter, ProposedByCandidate, ProposedByCustomer, ProposedByAI:
		return true
	}
	return false
}

// NegotiationRound is one proposal/counter exchange. Round numbers are 1-based
// and gapless within a negotiation; only the latest round may be countered.
type NegotiationRound struct {
	ID            string      `bson:"id" json:"id"`
	NegotiationID string      `bson:"negotiation_id" json:"negotiation_id"`
	RoundNumber   int         `bson:"round_number" json:"round_number"`
	ProposedBy    ProposedBy  `bson:"proposed_by" json:"proposed_by"`
	ProposedRate  float64     `bson:"proposed_rate" json:"proposed_rate"`
	RateType      RateType    `bson:"rate_type" json:"rate_type"`
	Notes         string      `bson:"notes,omitempty" json:"notes,omitempty"`
	CounterRate   *float64    `bson:"counter_rate,omitempty" json:"counter_rate,omitempty"`
	CounterNotes  string      `bson:"counter_notes,omitempty" json:"counter_notes,omitempty"`
	Status        RoundStatus `bson:"status" json:"status"`
	ProposedAt    time.Time   `bson:"proposed_at" json:"proposed_at"`
	RespondedAt   *time.Time  `bson:"responded_at,omitempty" json:"responded_at,omitempty"`
}
