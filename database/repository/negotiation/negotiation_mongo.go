package negotiationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoNegotiationRepo implements NegotiationRepository over MongoDB.
type MongoNegotiationRepo struct {
	negColl   *mongo.Collection
	roundColl *mongo.Collection
}

// NewMongoNegotiationRepo returns a repository bound to the rate_negotiations
// and negotiation_rounds collections.
func NewMongoNegotiationRepo(db *mongo.Database) *MongoNegotiationRepo {
	return &MongoNegotiationRepo{
		negColl:   db.Collection("rate_negotiations"),
		roundColl: db.Collection("negotiation_rounds"),
	}
}

// EnsureIndexes creates the indexes the coordinator queries depend on.
func (repo *MongoNegotiationRepo) EnsureIndexes(ctx context.Context) error {
	negIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "submission_id", Value: 1}, {Key: "candidate_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "started_at", Value: -1}}},
	}
	if _, err := repo.negColl.Indexes().CreateMany(ctx, negIndexes); err != nil {
		return fmt.Errorf("failed to create negotiation indexes: %w", err)
	}

	roundIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "negotiation_id", Value: 1}, {Key: "round_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := repo.roundColl.Indexes().CreateMany(ctx, roundIndexes); err != nil {
		return fmt.Errorf("failed to create round indexes: %w", err)
	}
	return nil
}

// withTransaction runs fn inside a mongo session transaction.
func (repo *MongoNegotiationRepo) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := repo.negColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

func opTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 5*time.Second)
}
