package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

func InitRedis(addr string) error {
	Client = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	// Test connection
	if _, err := Client.Ping(Ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

// PublishNotification fans a freshly created notification out on the
// recipient's channel so connected clients can refresh without polling.
// Best-effort: the notification row is already committed by the time this
// runs.
func PublishNotification(ctx context.Context, username string, payload []byte) error {
	if Client == nil {
		return nil
	}
	return Client.Publish(ctx, "notifications:"+username, payload).Err()
}
