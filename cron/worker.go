package cron

import (
	"context"
	"encoding/json"

	"glowbook/config"
	"glowbook/models"
	"glowbook/services/notification"
	"glowbook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitReminderWorker runs the async reminder worker in the background. The
// worker pushes upcoming-appointment events through the dispatcher; delivery
// stays best-effort, so a missed push is logged and the task still succeeds.
func InitReminderWorker(dispatcher notification.Dispatcher, logger *zap.Logger) *asynq.Server {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
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
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(dispatcher, logger))

	go func() {
		logger.Info("reminder worker starting")
		if err := srv.Run(mux); err != nil {
			logger.Error("reminder worker stopped", zap.Error(err))
		}
	}()

	return srv
}

func handleReminderTask(dispatcher notification.Dispatcher, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload models.ReminderPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Warn("malformed reminder payload, dropping", zap.Error(err))
			return nil
		}

		dispatcher.Notify(payload.RecipientID, models.EventUpcomingBooking, models.BookingEvent{
			Message: payload.Message,
		})
		return nil
	}
}
