package directoryRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recruitd/models"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDirectoryRepo reads submissions and candidates from MongoDB with a
// redis read-through cache; directory rows change rarely and are read on every
// initiate and suggest-rate call.
type MongoDirectoryRepo struct {
	submissionColl *mongo.Collection
	candidateColl  *mongo.Collection
	cache          *redis.Client
	ttl            time.Duration
}

// NewMongoDirectoryRepo returns a directory repository. cache may be nil to
// disable caching.
func NewMongoDirectoryRepo(db *mongo.Database, cache *redis.Client, ttl time.Duration) *MongoDirectoryRepo {
	return &MongoDirectoryRepo{
		submissionColl: db.Collection("submissions"),
		candidateColl:  db.Collection("candidates"),
		cache:          cache,
		ttl:            ttl,
	}
}

func (repo *MongoDirectoryRepo) cached(ctx context.Context, key string, out interface{}) bool {
	if repo.cache == nil {
		return false
	}
	data, err := repo.cache.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(data), out) == nil
}

func (repo *MongoDirectoryRepo) store(ctx context.Context, key string, val interface{}) {
	if repo.cache == nil {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	// Cache write failures are non-fatal; the next read falls through to mongo.
	_ = repo.cache.Set(ctx, key, data, repo.ttl).Err()
}

// GetSubmissionByID resolves a submission to its candidate, requirement and
// customer ids.
func (repo *MongoDirectoryRepo) GetSubmissionByID(ctx context.Context, id string) (*models.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	key := "directory:submission:" + id
	var cachedSubmission models.Submission
	if repo.cached(ctx, key, &cachedSubmission) {
		return &cachedSubmission, nil
	}

	var submission models.Submission
	err := repo.submissionColl.FindOne(ctx, bson.M{"id": id}).Decode(&submission)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting submission %s: %w", id, err)
	}

	repo.store(ctx, key, submission)
	return &submission, nil
}

// GetCandidateByID fetches the candidate fields rate suggestion needs.
func (repo *MongoDirectoryRepo) GetCandidateByID(ctx context.Context, id string) (*models.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	key := "directory:candidate:" + id
	var cachedCandidate models.Candidate
	if repo.cached(ctx, key, &cachedCandidate) {
		return &cachedCandidate, nil
	}

	var candidate models.Candidate
	err := repo.candidateColl.FindOne(ctx, bson.M{"id": id}).Decode(&candidate)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting candidate %s: %w", id, err)
	}

	repo.store(ctx, key, candidate)
	return &candidate, nil
}
