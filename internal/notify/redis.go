package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type redisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier creates a Pub/Sub backed notifier
func NewRedisNotifier(client *redis.Client) Notifier {
	return &redisNotifier{client: client}
}

func channel(roomCode string) string {
	return fmt.Sprintf("room:%s:events", roomCode)
}

func (n *redisNotifier) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, channel(ev.RoomCode), data).Err()
}

func (n *redisNotifier) Subscribe(ctx context.Context, roomCode string) (<-chan Event, func()) {
	sub := n.client.Subscribe(ctx, channel(roomCode))
	out := make(chan Event, 64)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logrus.WithError(err).Warn("notify: dropping malformed event")
				continue
			}
			select {
			case out <- ev:
			default:
				// Slow consumer; dropping is fine, the poller catches up
			}
		}
	}()

	cancel := func() { _ = sub.Close() }
	return out, cancel
}
