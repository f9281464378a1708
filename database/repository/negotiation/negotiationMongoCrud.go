package negotiationRepo

import (
	"context"
	"errors"
	"fmt"

	"recruitd/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateNegotiation inserts a new negotiation document.
func (repo *MongoNegotiationRepo) CreateNegotiation(ctx context.Context, negotiation *models.RateNegotiation) error {
	ctx, cancel := opTimeout(ctx)
	defer cancel()

	if _, err := repo.negColl.InsertOne(ctx, negotiation); err != nil {
		return fmt.Errorf("error creating negotiation: %w", err)
	}
	return nil
}

// casUpdate applies a guarded negotiation update: the filter matches on id and
// version, the update bumps the version. Distinguishes a missing document from
// a stale version after the fact.
func (repo *MongoNegotiationRepo) casUpdate(ctx context.Context, negotiationID string, expectedVersion int, set bson.M) error {
	filter := bson.M{"id": negotiationID, "version": expectedVersion}
	update := bson.M{"$set": set, "$inc": bson.M{"version": 1}}

	res, err := repo.negColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating negotiation %s: %w", negotiationID, err)
	}
	if res.MatchedCount == 0 {
		err := repo.negColl.FindOne(ctx, bson.M{"id": negotiationID}).Err()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("error checking negotiation %s: %w", negotiationID, err)
		}
		return ErrVersionConflict
	}
	return nil
}

// AppendRound inserts a round and applies the negotiation commit in one
// transaction, guarded by expectedVersion.
func (repo *MongoNegotiationRepo) AppendRound(ctx context.Context, negotiationID string, expectedVersion int, round *models.NegotiationRound, commit models.RoundCommit) error {
	ctx, cancel := opTimeout(ctx)
	defer cancel()

	return repo.withTransaction(ctx, func(sc mongo.SessionContext) error {
		set := bson.M{
			"total_rounds":          commit.TotalRounds,
			"current_proposed_rate": commit.CurrentProposedRate,
			"status":                commit.Status,
		}
		if err := repo.casUpdate(sc, negotiationID, expectedVersion, set); err != nil {
			return err
		}
		if _, err := repo.roundColl.InsertOne(sc, round); err != nil {
			return fmt.Errorf("insert round failed: %w", err)
		}
		return nil
	})
}

// ApplyCounter records a counter offer on a round and applies the negotiation
// commit in one transaction, guarded by expectedVersion.
func (repo *MongoNegotiationRepo) ApplyCounter(ctx context.Context, negotiationID string, expectedVersion int, roundID string, commit models.CounterCommit) error {
	ctx, cancel := opTimeout(ctx)
	defer cancel()

	return repo.withTransaction(ctx, func(sc mongo.SessionContext) error {
		set := bson.M{
			"current_proposed_rate": commit.CurrentProposedRate,
			"status":                commit.Status,
		}
		if err := repo.casUpdate(sc, negotiationID, expectedVersion, set); err != nil {
			return err
		}

		roundUpdate := bson.M{"$set": bson.M{
			"counter_rate":  commit.CounterRate,
			"counter_notes": commit.CounterNotes,
			"status":        models.RoundCountered,
			"responded_at":  commit.RespondedAt,
		}}
		res, err := repo.roundColl.UpdateOne(sc, bson.M{"id": roundID}, roundUpdate)
		if err != nil {
			return fmt.Errorf("counter update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrRoundNotFound
		}
		return nil
	})
}

// CloseNegotiation applies a finalize/terminate commit, guarded by
// expectedVersion. Single document, so no transaction is needed.
func (repo *MongoNegotiationRepo) CloseNegotiation(ctx context.Context, negotiationID string, expectedVersion int, close models.NegotiationClose) error {
	ctx, cancel := opTimeout(ctx)
	defer cancel()

	set := bson.M{
		"status":        close.Status,
		"closed_at":     close.ClosedAt,
		"closed_reason": close.ClosedReason,
	}
	if close.AgreedRate != nil {
		set["agreed_rate"] = *close.AgreedRate
	}
	if close.RateType != "" {
		set["rate_type"] = close.RateType
	}
	if close.Margin != nil {
		set["margin"] = *close.Margin
	}
	if close.MarginPercentage != nil {
		set["margin_percentage"] = *close.MarginPercentage
	}
	return repo.casUpdate(ctx, negotiationID, expectedVersion, set)
}
