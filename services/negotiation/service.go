package negotiation

import (
	"context"
	"errors"
	"fmt"
	"time"

	directoryRepo "recruitd/database/repository/directory"
	negotiationRepo "recruitd/database/repository/negotiation"
	"recruitd/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// getNegotiation fetches and maps repository sentinels onto the service error
// taxonomy.
func (s *DefaultNegotiationService) getNegotiation(ctx context.Context, id string) (*models.RateNegotiation, error) {
	negotiation, err := s.Repo.GetNegotiationByID(ctx, id)
	if errors.Is(err, negotiationRepo.ErrNotFound) {
		return nil, &NotFoundError{Entity: "negotiation", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load negotiation %s: %w", id, err)
	}
	return negotiation, nil
}

// Initiate resolves the submission and opens a negotiation in the initiated
// state with zero rounds.
func (s *DefaultNegotiationService) Initiate(ctx context.Context, in InitiateInput) (*models.RateNegotiation, error) {
	if in.SubmissionID == "" {
		return nil, &ValidationError{Message: "submission_id is required"}
	}
	if in.InitialOffer <= 0 {
		return nil, &ValidationError{Message: "initial_offer must be positive"}
	}
	if !in.RateType.Valid() {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown rate_type %q", in.RateType)}
	}

	submission, err := s.Directory.GetSubmissionByID(ctx, in.SubmissionID)
	if errors.Is(err, directoryRepo.ErrSubmissionNotFound) {
		return nil, &NotFoundError{Entity: "submission", ID: in.SubmissionID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve submission %s: %w", in.SubmissionID, err)
	}

	maxRounds := in.MaxRounds
	if maxRounds <= 0 {
		maxRounds = s.Defaults.MaxRounds
	}
	targetMargin := in.TargetMarginPercentage
	if targetMargin <= 0 {
		targetMargin = s.Defaults.TargetMarginPercentage
	}

	negotiation := &models.RateNegotiation{
		ID:                     uuid.New().String(),
		SubmissionID:           submission.ID,
		CandidateID:            submission.CandidateID,
		RequirementID:          submission.RequirementID,
		CustomerID:             submission.CustomerID,
		CandidateDesiredRate:   in.CandidateDesiredRate,
		CustomerMaxRate:        in.CustomerMaxRate,
		InitialProposedRate:    in.InitialOffer,
		CurrentProposedRate:    in.InitialOffer,
		RateType:               in.RateType,
		BillRate:               in.BillRate,
		PayRate:                in.PayRate,
		TargetMarginPercentage: targetMargin,
		Status:                 models.NegotiationInitiated,
		TotalRounds:            0,
		MaxRounds:              maxRounds,
		StartedAt:              time.Now().UTC(),
		NegotiatedBy:           in.NegotiatedBy,
		Version:                0,
	}

	if err := s.Repo.CreateNegotiation(ctx, negotiation); err != nil {
		return nil, fmt.Errorf("failed to create negotiation: %w", err)
	}

	s.Alerts.Emit(ctx, models.Event{
		EventType:  models.EventRateNegotiationStarted,
		EntityType: "RateNegotiation",
		EntityID:   negotiation.ID,
		UserID:     in.NegotiatedBy,
		Payload: map[string]interface{}{
			"negotiation_id": negotiation.ID,
			"submission_id":  submission.ID,
			"initial_offer":  in.InitialOffer,
			"rate_type":      in.RateType,
		},
	})

	s.Logger.Info("initiated rate negotiation",
		zap.String("negotiation_id", negotiation.ID),
		zap.String("submission_id", submission.ID))
	return negotiation, nil
}

// Get returns a negotiation by id.
func (s *DefaultNegotiationService) Get(ctx context.Context, id string) (*models.RateNegotiation, error) {
	return s.getNegotiation(ctx, id)
}

// List returns a filtered page of negotiations plus the total count.
func (s *DefaultNegotiationService) List(ctx context.Context, q ListQuery) ([]models.RateNegotiation, int64, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Skip < 0 {
		q.Skip = 0
	}
	return s.Repo.ListNegotiations(ctx, negotiationRepo.NegotiationFilter{
		SubmissionID: q.SubmissionID,
		CandidateID:  q.CandidateID,
		Status:       q.Status,
		Skip:         q.Skip,
		Limit:        q.Limit,
	})
}

// EvaluateMargin evaluates a proposed rate against the negotiation's margin
// target. Read-only.
func (s *DefaultNegotiationService) EvaluateMargin(ctx context.Context, negotiationID string, proposedRate float64) (*MarginEvaluation, error) {
	if proposedRate <= 0 {
		return nil, &ValidationError{Message: "proposed_rate must be positive"}
	}
	negotiation, err := s.getNegotiation(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	eval := EvaluateMargin(negotiation.BillRate, proposedRate, negotiation.TargetMarginPercentage)
	return &eval, nil
}

// AutoNegotiate computes an advisory response to the rate currently on the
// table using the named strategy. Read-only.
func (s *DefaultNegotiationService) AutoNegotiate(ctx context.Context, negotiationID string, strategy Strategy) (*AutoNegotiation, error) {
	if strategy == "" {
		strategy = StrategyBalanced
	}
	if !strategy.Valid() {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown strategy %q", strategy)}
	}

	negotiation, err := s.getNegotiation(ctx, negotiationID)
	if err != nil {
		return nil, err
	}

	latest, err := s.Repo.LatestRound(ctx, negotiationID)
	if errors.Is(err, negotiationRepo.ErrRoundNotFound) {
		return nil, &NotFoundError{Entity: "negotiation round for", ID: negotiationID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest round: %w", err)
	}

	base := negotiation.CurrentProposedRate
	if latest.CounterRate != nil {
		base = *latest.CounterRate
	}

	result := applyStrategy(strategy, base, negotiation.InitialProposedRate,
		negotiation.CandidateDesiredRate, negotiation.CustomerMaxRate)

	return &AutoNegotiation{
		SuggestedResponseRate: result.rate,
		RateType:              negotiation.RateType,
		Strategy:              strategy,
		Tone:                  result.tone,
		ConfidenceScore:       result.confidence,
		Reasoning:             fmt.Sprintf("Response calculated using %s strategy", strategy),
		Recommendation:        fmt.Sprintf("Propose rate of %.2f %s", result.rate, negotiation.RateType),
		NextAction:            "Submit counter offer or finalize agreement",
	}, nil
}

// Finalize closes the negotiation as agreed. Calling it on an already closed
// negotiation fails rather than overwriting the agreed rate.
func (s *DefaultNegotiationService) Finalize(ctx context.Context, negotiationID string, agreedRate float64, rateType models.RateType) (*models.RateNegotiation, error) {
	if agreedRate <= 0 {
		return nil, &ValidationError{Message: "agreed_rate must be positive"}
	}
	if !rateType.Valid() {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown rate_type %q", rateType)}
	}

	negotiation, err := s.getNegotiation(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	if negotiation.Status.Terminal() {
		return nil, &InvalidStateError{ID: negotiationID, Status: negotiation.Status}
	}

	eval := EvaluateMargin(negotiation.BillRate, agreedRate, negotiation.TargetMarginPercentage)
	now := time.Now().UTC()
	commit := models.NegotiationClose{
		Status:           models.NegotiationAgreed,
		AgreedRate:       &agreedRate,
		RateType:         rateType,
		Margin:           &eval.MarginAmount,
		MarginPercentage: &eval.MarginPercentage,
		ClosedAt:         now,
		ClosedReason:     "Rate agreed",
	}
	if err := s.Repo.CloseNegotiation(ctx, negotiationID, negotiation.Version, commit); err != nil {
		return nil, s.mapMutationErr(negotiationID, err)
	}

	negotiation.Status = commit.Status
	negotiation.AgreedRate = commit.AgreedRate
	negotiation.RateType = rateType
	negotiation.Margin = commit.Margin
	negotiation.MarginPercentage = commit.MarginPercentage
	negotiation.ClosedAt = &now
	negotiation.ClosedReason = commit.ClosedReason
	negotiation.Version++

	s.Alerts.Emit(ctx, models.Event{
		EventType:  models.EventRateAgreed,
		EntityType: "RateNegotiation",
		EntityID:   negotiation.ID,
		Payload: map[string]interface{}{
			"negotiation_id":    negotiation.ID,
			"agreed_rate":       agreedRate,
			"rate_type":         rateType,
			"margin_percentage": eval.MarginPercentage,
		},
	})

	s.Logger.Info("finalized rate negotiation",
		zap.String("negotiation_id", negotiationID),
		zap.Float64("agreed_rate", agreedRate))
	return negotiation, nil
}

// Terminate closes the negotiation as failed or cancelled with a reason.
func (s *DefaultNegotiationService) Terminate(ctx context.Context, negotiationID string, status models.NegotiationStatus, reason string) (*models.RateNegotiation, error) {
	if status != models.NegotiationFailed && status != models.NegotiationCancelled {
		return nil, &ValidationError{Message: "termination status must be failed or cancelled"}
	}
	if reason == "" {
		return nil, &ValidationError{Message: "termination reason is required"}
	}

	negotiation, err := s.getNegotiation(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	if negotiation.Status.Terminal() {
		return nil, &InvalidStateError{ID: negotiationID, Status: negotiation.Status}
	}

	now := time.Now().UTC()
	commit := models.NegotiationClose{Status: status, ClosedAt: now, ClosedReason: reason}
	if err := s.Repo.CloseNegotiation(ctx, negotiationID, negotiation.Version, commit); err != nil {
		return nil, s.mapMutationErr(negotiationID, err)
	}

	negotiation.Status = status
	negotiation.ClosedAt = &now
	negotiation.ClosedReason = reason
	negotiation.Version++

	s.Logger.Info("terminated rate negotiation",
		zap.String("negotiation_id", negotiationID),
		zap.String("status", string(status)),
		zap.String("reason", reason))
	return negotiation, nil
}

// mapMutationErr translates repository sentinels from guarded writes.
func (s *DefaultNegotiationService) mapMutationErr(negotiationID string, err error) error {
	switch {
	case errors.Is(err, negotiationRepo.ErrNotFound):
		return &NotFoundError{Entity: "negotiation", ID: negotiationID}
	case errors.Is(err, negotiationRepo.ErrRoundNotFound):
		return &NotFoundError{Entity: "negotiation round for", ID: negotiationID}
	case errors.Is(err, negotiationRepo.ErrVersionConflict):
		return &ConflictError{ID: negotiationID}
	default:
		return fmt.Errorf("negotiation mutation failed: %w", err)
	}
}
