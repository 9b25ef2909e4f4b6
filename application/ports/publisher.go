package ports

import (
	"meetsync/domain/events"
)

// EventPublisher fans a change notification out to every connected session.
// Publication is fire-and-forget: delivery failures are handled per session
// and never surface to the mutating caller.
type EventPublisher interface {
	Publish(notification events.ChangeNotification)
}

// NoopPublisher discards notifications. Used by the relational persistence
// variant when running without the realtime layer, and by tests.
type NoopPublisher struct{}

func (NoopPublisher) Publish(events.ChangeNotification) {}
