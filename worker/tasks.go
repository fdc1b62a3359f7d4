package worker

import (
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TaskDeliverNotification = "notification:deliver"
	TaskCancelSweep         = "user:cancel_sweep"
)

type notificationPayload struct {
	UserID  uint   `json:"user_id"`
	Message string `json:"message"`
}

type cancelSweepPayload struct {
	Username string `json:"username"`
}

// Package-level Asynq client (singleton)
var client *asynq.Client

// InitClient initializes the global Asynq client for task enqueueing. Must
// be called before constructing a Dispatcher.
func InitClient(redisAddr string) {
	client = asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
}

// CloseClient closes the Asynq client connection gracefully.
func CloseClient() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// Dispatcher implements services.Dispatcher on top of Asynq. Every method
// is fire-and-forget: enqueue failures are logged and discarded, because
// side effects must never fail the already-committed lifecycle operation.
type Dispatcher struct{}

func (Dispatcher) Notify(userID uint, message string) {
	payload, err := json.Marshal(notificationPayload{UserID: userID, Message: message})
	if err != nil {
		log.Printf("worker: marshal notification payload: %v", err)
		return
	}
	task := asynq.NewTask(
		TaskDeliverNotification,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	)
	if _, err := client.Enqueue(task); err != nil {
		log.Printf("worker: enqueue notification for user %d: %v", userID, err)
	}
}

func (Dispatcher) CancelSweep(username string) {
	payload, err := json.Marshal(cancelSweepPayload{Username: username})
	if err != nil {
		log.Printf("worker: marshal sweep payload: %v", err)
		return
	}
	// No task-level retries: the sweep already isolates and logs per-item
	// failures, and a retry would re-cancel what it can anyway.
	task := asynq.NewTask(
		TaskCancelSweep,
		payload,
		asynq.MaxRetry(0),
		asynq.Timeout(5*time.Minute),
	)
	if _, err := client.Enqueue(task); err != nil {
		log.Printf("worker: enqueue cancel sweep for %s: %v", username, err)
	}
}
