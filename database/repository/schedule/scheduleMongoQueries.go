package scheduleRepo

import (
	"context"
	"errors"
	"fmt"

	"recruitd/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetScheduleByID retrieves an interview schedule by its ID.
func (repo *MongoScheduleRepo) GetScheduleByID(ctx context.Context, id string) (*models.InterviewSchedule, error) {
	ctx, cancel := opTimeout(ctx)
	defer cancel()

	var schedule models.InterviewSchedule
	err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&schedule)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting interview schedule %s: %w", id, err)
	}
	return &schedule, nil
}

// ListSchedules returns a filtered page of schedules, most recent date first,
// along with the total count for the filter.
func (repo *MongoScheduleRepo) ListSchedules(ctx context.Context, filter ScheduleFilter) ([]models.InterviewSchedule, int64, error) {
	ctx, cancel := opTimeout(ctx)
	defer cancel()

	query := bson.M{}
	if filter.CandidateID != "" {
		query["candidate_id"] = filter.CandidateID
	}
	if filter.RequirementID != "" {
		query["requirement_id"] = filter.RequirementID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := repo.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting interview schedules: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "scheduled_date", Value: -1}}).
		SetSkip(filter.Skip).
		SetLimit(filter.Limit)
	cursor, err := repo.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing interview schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []models.InterviewSchedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, 0, fmt.Errorf("error decoding interview schedules: %w", err)
	}
	return schedules, total, nil
}

// AllSchedules returns every schedule, for analytics aggregation.
func (repo *MongoScheduleRepo) AllSchedules(ctx context.Context) ([]models.InterviewSchedule, error) {
	ctx, cancel := opTimeout(ctx)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error loading interview schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []models.InterviewSchedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("error decoding interview schedules: %w", err)
	}
	return schedules, nil
}

// ReminderCandidates returns schedules that have not been reminded and are not
// cancelled.
func (repo *MongoScheduleRepo) ReminderCandidates(ctx context.Context) ([]models.InterviewSchedule, error) {
	ctx, cancel := opTimeout(ctx)
	defer cancel()

	query := bson.M{
		"reminder_sent": false,
		"status":        bson.M{"$ne": models.ScheduleCancelled},
	}
	cursor, err := repo.coll.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error loading reminder candidates: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []models.InterviewSchedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("error decoding reminder candidates: %w", err)
	}
	return schedules, nil
}
