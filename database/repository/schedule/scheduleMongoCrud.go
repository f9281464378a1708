package scheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recruitd/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateSchedule inserts a new interview schedule document.
func (repo *MongoScheduleRepo) CreateSchedule(ctx context.Context, schedule *models.InterviewSchedule) error {
	ctx, cancel := opTimeout(ctx)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, schedule); err != nil {
		return fmt.Errorf("error creating interview schedule: %w", err)
	}
	return nil
}

// findOneAndUpdate applies an update and returns the document after it.
func (repo *MongoScheduleRepo) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*models.InterviewSchedule, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var schedule models.InterviewSchedule
	err := repo.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&schedule)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error updating interview schedule %s: %w", id, err)
	}
	return &schedule, nil
}

// ApplyReschedule moves the slot and appends the history entry in one atomic
// update, so reschedule_count always equals the history length.
func (repo *MongoScheduleRepo) ApplyReschedule(ctx context.Context, id string, patch models.ReschedulePatch) (*models.InterviewSchedule, error) {
	ctx, cancel := opTimeout(ctx)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"scheduled_date": patch.NewDate,
			"scheduled_time": patch.NewTime,
			"status":         models.ScheduleRescheduled,
		},
		"$inc":  bson.M{"reschedule_count": 1},
		"$push": bson.M{"reschedule_history": patch.Entry},
	}
	return repo.findOneAndUpdate(ctx, id, update)
}

// CancelSchedule marks the schedule cancelled with the given reason.
func (repo *MongoScheduleRepo) CancelSchedule(ctx context.Context, id, reason string) (*models.InterviewSchedule, error) {
	ctx, cancel := opTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":              models.ScheduleCancelled,
		"cancellation_reason": reason,
	}}
	return repo.findOneAndUpdate(ctx, id, update)
}

// SetConfirmation records one party's confirmation state.
func (repo *MongoScheduleRepo) SetConfirmation(ctx context.Context, id, party, state string) (*models.InterviewSchedule, error) {
	ctx, cancel := opTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"confirmation_status." + party: state}}
	return repo.findOneAndUpdate(ctx, id, update)
}

// SetStatus moves the schedule to the given status.
func (repo *MongoScheduleRepo) SetStatus(ctx context.Context, id string, status models.ScheduleStatus) (*models.InterviewSchedule, error) {
	ctx, cancel := opTimeout(ctx)
	defer cancel()

	return repo.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{"status": status}})
}

// ClaimReminder flips reminder_sent only when it is still false; the filter
// makes the reminder batch idempotent under re-runs.
func (repo *MongoScheduleRepo) ClaimReminder(ctx context.Context, id string, at time.Time) (bool, error) {
	ctx, cancel := opTimeout(ctx)
	defer cancel()

	filter := bson.M{"id": id, "reminder_sent": false}
	update := bson.M{"$set": bson.M{"reminder_sent": true, "reminder_sent_at": at}}
	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error claiming reminder for schedule %s: %w", id, err)
	}
	return res.ModifiedCount > 0, nil
}
