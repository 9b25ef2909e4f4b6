package websocket

import (
	"encoding/json"

	"go.uber.org/zap"

	"meetsync/domain/events"
)

// Broadcaster adapts the hub to the event publisher port. Services call
// Publish synchronously after each store write; the broadcaster hands the
// notification to the hub and returns without waiting for delivery.
type Broadcaster struct {
	hub    *Hub
	logger *zap.Logger
}

// NewBroadcaster creates a broadcaster bound to the hub
func NewBroadcaster(hub *Hub, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{hub: hub, logger: logger}
}

// Publish serializes the notification into the wire envelope and queues it
// for fan-out. A payload that fails to serialize is logged and dropped;
// the mutation it describes has already committed.
func (b *Broadcaster) Publish(notification events.ChangeNotification) {
	data, err := json.Marshal(notification.Payload)
	if err != nil {
		b.logger.Error("failed to marshal notification payload",
			zap.String("type", string(notification.Type)),
			zap.Error(err),
		)
		return
	}

	b.hub.Broadcast(&Frame{
		Type:      string(notification.Type),
		Data:      data,
		Timestamp: notification.Timestamp.Unix(),
	})
}
