// Package events defines the change notifications emitted after every
// successful mutation and fanned out to all connected sessions.
package events

import (
	"time"

	"meetsync/domain/core/entities"
)

// Type is the wire name of a notification
type Type string

const (
	MeetingCreated Type = "meeting:created"
	MeetingUpdated Type = "meeting:updated"
	MeetingDeleted Type = "meeting:deleted"

	TaskCreated Type = "task:created"
	TaskUpdated Type = "task:updated"
	TaskDeleted Type = "task:deleted"

	// PresenceUpdate carries the full current session list
	PresenceUpdate Type = "users:update"
)

// ChangeNotification describes one committed mutation. Created and updated
// notifications carry the full entity snapshot; deleted notifications carry
// only the identity.
type ChangeNotification struct {
	Type      Type        `json:"type"`
	Payload   interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewMeetingCreated builds the notification for a created meeting
func NewMeetingCreated(meeting entities.Meeting, at time.Time) ChangeNotification {
	return ChangeNotification{Type: MeetingCreated, Payload: meeting, Timestamp: at}
}

// NewMeetingUpdated builds the notification for an updated meeting
func NewMeetingUpdated(meeting entities.Meeting, at time.Time) ChangeNotification {
	return ChangeNotification{Type: MeetingUpdated, Payload: meeting, Timestamp: at}
}

// NewMeetingDeleted builds the notification for a deleted meeting
func NewMeetingDeleted(id int64, at time.Time) ChangeNotification {
	return ChangeNotification{Type: MeetingDeleted, Payload: id, Timestamp: at}
}

// NewTaskCreated builds the notification for a created task
func NewTaskCreated(task entities.Task, at time.Time) ChangeNotification {
	return ChangeNotification{Type: TaskCreated, Payload: task, Timestamp: at}
}

// NewTaskUpdated builds the notification for an updated task
func NewTaskUpdated(task entities.Task, at time.Time) ChangeNotification {
	return ChangeNotification{Type: TaskUpdated, Payload: task, Timestamp: at}
}

// NewTaskDeleted builds the notification for a deleted task
func NewTaskDeleted(id int64, at time.Time) ChangeNotification {
	return ChangeNotification{Type: TaskDeleted, Payload: id, Timestamp: at}
}
