package negotiation

import (
	"context"
	"errors"
	"fmt"
	"time"

	negotiationRepo "recruitd/database/repository/negotiation"
	"recruitd/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddRound records a new proposal. The round insert and the aggregate update
// (total_rounds, current rate, status) commit together; a stale version means
// another round landed first and the caller must retry.
func (s *DefaultNegotiationService) AddRound(ctx context.Context, negotiationID string, in RoundInput) (*models.NegotiationRound, error) {
	if in.ProposedRate <= 0 {
		return nil, &ValidationError{Message: "proposed_rate must be positive"}
	}
	if !in.ProposedBy.Valid() {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown proposed_by %q", in.ProposedBy)}
	}
	if !in.RateType.Valid() {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown rate_type %q", in.RateType)}
	}

	negotiation, err := s.getNegotiation(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	if negotiation.Status.Terminal() {
		return nil, &InvalidStateError{ID: negotiationID, Status: negotiation.Status}
	}
	if negotiation.TotalRounds >= negotiation.MaxRounds {
		return nil, &RoundLimitError{ID: negotiationID, MaxRounds: negotiation.MaxRounds}
	}

	round := &models.NegotiationRound{
		ID:            uuid.New().String(),
		NegotiationID: negotiationID,
		RoundNumber:   negotiation.TotalRounds + 1,
		ProposedBy:    in.ProposedBy,
		ProposedRate:  in.ProposedRate,
		RateType:      in.RateType,
		Notes:         in.Notes,
		Status:        models.RoundProposed,
		ProposedAt:    time.Now().UTC(),
	}
	commit := models.RoundCommit{
		TotalRounds:         round.RoundNumber,
		CurrentProposedRate: in.ProposedRate,
		Status:              models.NegotiationInProgress,
	}
	if err := s.Repo.AppendRound(ctx, negotiationID, negotiation.Version, round, commit); err != nil {
		return nil, s.mapMutationErr(negotiationID, err)
	}

	s.Logger.Info("recorded negotiation round",
		zap.String("negotiation_id", negotiationID),
		zap.Int("round_number", round.RoundNumber),
		zap.Float64("proposed_rate", in.ProposedRate))
	return round, nil
}

// Rounds lists a negotiation's rounds in order.
func (s *DefaultNegotiationService) Rounds(ctx context.Context, negotiationID string) ([]models.NegotiationRound, error) {
	if _, err := s.getNegotiation(ctx, negotiationID); err != nil {
		return nil, err
	}
	rounds, err := s.Repo.ListRounds(ctx, negotiationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	return rounds, nil
}

// SubmitCounter records a counter offer against the latest round.
func (s *DefaultNegotiationService) SubmitCounter(ctx context.Context, negotiationID string, in CounterInput) (*models.NegotiationRound, error) {
	if in.CounterRate <= 0 {
		return nil, &ValidationError{Message: "counter_rate must be positive"}
	}

	negotiation, err := s.getNegotiation(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	if negotiation.Status.Terminal() {
		return nil, &InvalidStateError{ID: negotiationID, Status: negotiation.Status}
	}

	latest, err := s.Repo.LatestRound(ctx, negotiationID)
	if errors.Is(err, negotiationRepo.ErrRoundNotFound) {
		return nil, &NotFoundError{Entity: "negotiation round for", ID: negotiationID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest round: %w", err)
	}

	now := time.Now().UTC()
	commit := models.CounterCommit{
		CounterRate:         in.CounterRate,
		CounterNotes:        in.CounterNotes,
		RespondedAt:         now,
		CurrentProposedRate: in.CounterRate,
		Status:              models.NegotiationInProgress,
	}
	if err := s.Repo.ApplyCounter(ctx, negotiationID, negotiation.Version, latest.ID, commit); err != nil {
		return nil, s.mapMutationErr(negotiationID, err)
	}

	latest.CounterRate = &commit.CounterRate
	latest.CounterNotes = in.CounterNotes
	latest.Status = models.RoundCountered
	latest.RespondedAt = &now

	s.Alerts.Emit(ctx, models.Event{
		EventType:  models.EventRateCounterOffered,
		EntityType: "RateNegotiation",
		EntityID:   negotiationID,
		Payload: map[string]interface{}{
			"negotiation_id": negotiationID,
			"round_number":   latest.RoundNumber,
			"counter_rate":   in.CounterRate,
		},
	})

	s.Logger.Info("recorded counter offer",
		zap.String("negotiation_id", negotiationID),
		zap.Int("round_number", latest.RoundNumber),
		zap.Float64("counter_rate", in.CounterRate))
	return latest, nil
}
