package negotiationRepo

import (
	"context"
	"errors"

	"recruitd/models"
)

// Sentinel errors surfaced by the repository. Services translate these into
// their own error taxonomy.
var (
	ErrNotFound        = errors.New("negotiation not found")
	ErrRoundNotFound   = errors.New("negotiation round not found")
	ErrVersionConflict = errors.New("negotiation version conflict")
)

// NegotiationFilter narrows a negotiation listing.
type NegotiationFilter struct {
	SubmissionID string
	CandidateID  string
	Status       models.NegotiationStatus
	Skip         int64
	Limit        int64
}

// NegotiationRepository defines the data access methods used by the
// negotiation coordinator. Round mutations are transactional: the round write
// and the negotiation update either both land or neither does, and the
// negotiation update is guarded by expectedVersion.
type NegotiationRepository interface {
	CreateNegotiation(ctx context.Context, negotiation *models.RateNegotiation) error
	GetNegotiationByID(ctx context.Context, id string) (*models.RateNegotiation, error)
	ListNegotiations(ctx context.Context, filter NegotiationFilter) ([]models.RateNegotiation, int64, error)
	AllNegotiations(ctx context.Context) ([]models.RateNegotiation, error)

	AppendRound(ctx context.Context, negotiationID string, expectedVersion int, round *models.NegotiationRound, commit models.RoundCommit) error
	ApplyCounter(ctx context.Context, negotiationID string, expectedVersion int, roundID string, commit models.CounterCommit) error
	CloseNegotiation(ctx context.Context, negotiationID string, expectedVersion int, close models.NegotiationClose) error

	LatestRound(ctx context.Context, negotiationID string) (*models.NegotiationRound, error)
	ListRounds(ctx context.Context, negotiationID string) ([]models.NegotiationRound, error)
}
