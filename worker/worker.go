package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bascore/appointment-app/models"
	"github.com/bascore/appointment-app/redis"
	"github.com/bascore/appointment-app/services"
	"github.com/bascore/appointment-app/store"
)

// Start runs the Asynq worker in non-blocking mode and returns a stop
// function so the caller can coordinate shutdown. In-flight tasks get the
// shutdown timeout to finish; anything still queued is advisory and safe to
// drop, as committed lifecycle state never depends on it.
func Start(redisAddr string, st store.Store, appointments *services.AppointmentService) (stop func(), err error) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency:     5,
			ShutdownTimeout: 30 * time.Second,
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskDeliverNotification, handleDeliverNotification(st))
	mux.HandleFunc(TaskCancelSweep, handleCancelSweep(appointments))

	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start worker: %w", err)
	}
	return func() { srv.Shutdown() }, nil
}

// handleDeliverNotification persists the notification row and fans it out
// on the recipient's redis channel. The fan-out is best-effort; only the
// row write is retried.
func handleDeliverNotification(st store.Store) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload notificationPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}

		recipient, err := st.Users().GetByID(ctx, payload.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Printf("worker: notification recipient %d not found", payload.UserID)
				return fmt.Errorf("recipient not found: %w", asynq.SkipRetry)
			}
			return err
		}

		notification := models.Notification{
			Type:    models.NotificationAppointment,
			UserID:  recipient.ID,
			Message: payload.Message,
		}
		if err := st.Notifications().Create(ctx, &notification); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}

		event, err := json.Marshal(notification)
		if err == nil {
			err = redis.PublishNotification(ctx, recipient.Username, event)
		}
		if err != nil {
			log.Printf("worker: fan out notification %d to %s: %v", notification.ID, recipient.Username, err)
		}
		return nil
	}
}

// handleCancelSweep runs the deferred disable-user cascade. CancelAll
// already isolates per-appointment failures, so anything surfacing here is
// a sweep-level failure (e.g. the user row vanished).
func handleCancelSweep(appointments *services.AppointmentService) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload cancelSweepPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}

		log.Printf("worker: running cancel sweep for %s", payload.Username)
		if err := appointments.CancelAll(ctx, payload.Username); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return fmt.Errorf("sweep user not found: %w", asynq.SkipRetry)
			}
			return err
		}
		return nil
	}
}
