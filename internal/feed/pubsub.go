package feed

import (
	"context"
	"encoding/json"

	"safecity/backend/internal/logger"
	"safecity/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// StartPubSubListener relays reports announced on redis into the broadcast channel.
func (m *ManagerService) StartPubSubListener(ctx context.Context, pubsub *redis.PubSub) {
	m.Relayed = true
	go func() {
		defer pubsub.Close()
		m.relay(ctx, pubsub.Channel())
	}()
}

// relay returns when ctx is done or ch is closed, even if nobody drains BroadcastCh.
func (m *ManagerService) relay(ctx context.Context, ch <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			ev, err := decodeCreated(msg.Payload)
			if err != nil {
				logger.Error("Error unmarshalling Redis message: %v", err)
				continue
			}
			select {
			case m.BroadcastCh <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

func decodeCreated(payload string) (models.FeedEvent, error) {
	var report models.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return models.FeedEvent{}, err
	}
	return models.FeedEvent{Type: models.FeedReportCreated, Report: &report}, nil
}
