package negotiationRepo

import (
	"context"
	"errors"
	"fmt"

	"recruitd/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetNegotiationByID retrieves a negotiation by its ID.
func (repo *MongoNegotiationRepo) GetNegotiationByID(ctx context.Context, id string) (*models.RateNegotiation, error) {
	ctx, cancel := opTimeout(ctx)
	defer cancel()

	var negotiation models.RateNegotiation
	err := repo.negColl.FindOne(ctx, bson.M{"id": id}).Decode(&negotiation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting negotiation %s: %w", id, err)
	}
	return &negotiation, nil
}

// ListNegotiations returns a filtered page of negotiations, newest first,
// along with the total count for the filter.
func (repo *MongoNegotiationRepo) ListNegotiations(ctx context.Context, filter NegotiationFilter) ([]models.RateNegotiation, int64, error) {
	ctx, cancel := opTimeout(ctx)
	defer cancel()

	query := bson.M{}
	if filter.SubmissionID != "" {
		query["submission_id"] = filter.SubmissionID
	}
	if filter.CandidateID != "" {
		query["candidate_id"] = filter.CandidateID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := repo.negColl.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting negotiations: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetSkip(filter.Skip).
		SetLimit(filter.Limit)
	cursor, err := repo.negColl.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing negotiations: %w", err)
	}
	defer cursor.Close(ctx)

	var negotiations []models.RateNegotiation
	if err := cursor.All(ctx, &negotiations); err != nil {
		return nil, 0, fmt.Errorf("error decoding negotiations: %w", err)
	}
	return negotiations, total, nil
}

// AllNegotiations returns every negotiation, for analytics aggregation.
func (repo *MongoNegotiationRepo) AllNegotiations(ctx context.Context) ([]models.RateNegotiation, error) {
	ctx, cancel := opTimeout(ctx)
	defer cancel()

	cursor, err := repo.negColl.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error loading negotiations: %w", err)
	}
	defer cursor.Close(ctx)

	var negotiations []models.RateNegotiation
	if err := cursor.All(ctx, &negotiations); err != nil {
		return nil, fmt.Errorf("error decoding negotiations: %w", err)
	}
	return negotiations, nil
}

// LatestRound returns the highest-numbered round of a negotiation.
func (repo *MongoNegotiationRepo) LatestRound(ctx context.Context, negotiationID string) (*models.NegotiationRound, error) {
	ctx, cancel := opTimeout(ctx)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "round_number", Value: -1}})
	var round models.NegotiationRound
	err := repo.roundColl.FindOne(ctx, bson.M{"negotiation_id": negotiationID}, opts).Decode(&round)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrRoundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting latest round for negotiation %s: %w", negotiationID, err)
	}
	return &round, nil
}

// ListRounds returns all rounds of a negotiation in round order.
func (repo *MongoNegotiationRepo) ListRounds(ctx context.Context, negotiationID string) ([]models.NegotiationRound, error) {
	ctx, cancel := opTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "round_number", Value: 1}})
	cursor, err := repo.roundColl.Find(ctx, bson.M{"negotiation_id": negotiationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing rounds for negotiation %s: %w", negotiationID, err)
	}
	defer cursor.Close(ctx)

	var rounds []models.NegotiationRound
	if err := cursor.All(ctx, &rounds); err != nil {
		return nil, fmt.Errorf("error decoding rounds: %w", err)
	}
	return rounds, nil
}
