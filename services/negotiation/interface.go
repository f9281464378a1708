package negotiation

import (
	"context"

	directoryRepo "recruitd/database/repository/directory"
	negotiationRepo "recruitd/database/repository/negotiation"
	"recruitd/models"
	"recruitd/services/alerts"

	"go.uber.org/zap"
)

// InitiateInput carries everything needed to open a negotiation for a
// submission.
type InitiateInput struct {
	SubmissionID           string          `json:"submission_id"`
	InitialOffer           float64         `json:"initial_offer"`
	RateType               models.RateType `json:"rate_type"`
	CandidateDesiredRate   *float64        `json:"candidate_desired_rate,omitempty"`
	CustomerMaxRate        *float64        `json:"customer_max_rate,omitempty"`
	BillRate               *float64        `json:"bill_rate,omitempty"`
	PayRate                *float64        `json:"pay_rate,omitempty"`
	TargetMarginPercentage float64         `json:"target_margin_percentage,omitempty"`
	MaxRounds              int             `json:"max_rounds,omitempty"`
	NegotiatedBy           string          `json:"negotiated_by,omitempty"`
}

// RoundInput is one party's proposal.
type RoundInput struct {
	ProposedBy   models.ProposedBy `json:"proposed_by"`
	ProposedRate float64           `json:"proposed_rate"`
	RateType     models.RateType   `json:"rate_type"`
	Notes        string            `json:"notes,omitempty"`
}

// CounterInput is a counter offer against the latest round.
type CounterInput struct {
	CounterRate  float64 `json:"counter_rate"`
	CounterNotes string  `json:"counter_notes,omitempty"`
}

// ListQuery filters and pages a negotiation listing.
type ListQuery struct {
	SubmissionID string
	CandidateID  string
	Status       models.NegotiationStatus
	Skip         int64
	Limit        int64
}

// Service is the negotiation coordinator: it owns the RateNegotiation
// aggregate and its round ledger, and is the only writer of either.
type Service interface {
	Initiate(ctx context.Context, in InitiateInput) (*models.RateNegotiation, error)
	Get(ctx context.Context, id string) (*models.RateNegotiation, error)
	List(ctx context.Context, q ListQuery) ([]models.RateNegotiation, int64, error)

	AddRound(ctx context.Context, negotiationID string, in RoundInput) (*models.NegotiationRound, error)
	Rounds(ctx context.Context, negotiationID string) ([]models.NegotiationRound, error)
	SubmitCounter(ctx context.Context, negotiationID string, in CounterInput) (*models.NegotiationRound, error)

	EvaluateMargin(ctx context.Context, negotiationID string, proposedRate float64) (*MarginEvaluation, error)
	SuggestRate(ctx context.Context, negotiationID string) (*RateSuggestion, error)
	AutoNegotiate(ctx context.Context, negotiationID string, strategy Strategy) (*AutoNegotiation, error)

	Finalize(ctx context.Context, negotiationID string, agreedRate float64, rateType models.RateType) (*models.RateNegotiation, error)
	Terminate(ctx context.Context, negotiationID string, status models.NegotiationStatus, reason string) (*models.RateNegotiation, error)

	Analytics(ctx context.Context) (*NegotiationAnalytics, error)
}

// Defaults are applied when an initiate request leaves them unset.
type Defaults struct {
	MaxRounds              int
	TargetMarginPercentage float64
}

// DefaultNegotiationService implements Service.
type DefaultNegotiationService struct {
	Repo      negotiationRepo.NegotiationRepository
	Directory directoryRepo.DirectoryRepository
	Alerts    alerts.Emitter
	Logger    *zap.Logger
	Defaults  Defaults
}
