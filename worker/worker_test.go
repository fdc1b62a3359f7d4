package worker

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

func TestHandlersSkipRetryOnMalformedPayload(t *testing.T) {
	// A payload that cannot be decoded will never decode on retry either;
	// both handlers must drop the task instead of requeueing it.
	ctx := context.Background()

	t.Run("notification delivery", func(t *testing.T) {
		h := handleDeliverNotification(nil)
		err := h(ctx, asynq.NewTask(TaskDeliverNotification, []byte("{not json")))
		require.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("cancel sweep", func(t *testing.T) {
		h := handleCancelSweep(nil)
		err := h(ctx, asynq.NewTask(TaskCancelSweep, []byte("{not json")))
		require.ErrorIs(t, err, asynq.SkipRetry)
	})
}
