package entities

import (
	"time"

	pkgerrors "meetsync/pkg/errors"
)

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// IsValid reports whether the status is one of the known lifecycle states
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// TaskPriority is an optional importance marker
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// IsValid reports whether the priority is one of the known values
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is an action item, optionally attached to a meeting. The meeting
// reference is advisory: deleting the meeting does not cascade.
type Task struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority,omitempty"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	MeetingID   *int64       `json:"meetingId,omitempty"`
	AssignedTo  *int64       `json:"assignedTo,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// NewTask creates a task with defaults applied. Identity is assigned later
// by the store.
func NewTask(title string, now time.Time) (Task, error) {
	if title == "" {
		return Task{}, pkgerrors.NewValidationError("title is required")
	}

	return Task{
		Title:     title,
		Status:    TaskStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Clone returns a deep copy so store snapshots cannot be mutated externally
func (t Task) Clone() Task {
	out := t
	if t.DueDate != nil {
		due := *t.DueDate
		out.DueDate = &due
	}
	if t.MeetingID != nil {
		id := *t.MeetingID
		out.MeetingID = &id
	}
	if t.AssignedTo != nil {
		id := *t.AssignedTo
		out.AssignedTo = &id
	}
	return out
}

// TaskPatch is a partial update; nil fields are left untouched
type TaskPatch struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	DueDate     *time.Time    `json:"dueDate,omitempty"`
	MeetingID   *int64        `json:"meetingId,omitempty"`
	AssignedTo  *int64        `json:"assignedTo,omitempty"`
}

// Apply merges the patch onto the task, last writer wins per field
func (p TaskPatch) Apply(t *Task) error {
	if p.Title != nil {
		if *p.Title == "" {
			return pkgerrors.NewValidationError("title cannot be empty")
		}
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		if !p.Status.IsValid() {
			return pkgerrors.NewInvalidStatusError(string(*p.Status))
		}
		t.Status = *p.Status
	}
	if p.Priority != nil {
		if !p.Priority.IsValid() {
			return pkgerrors.NewValidationError("priority must be one of: low, medium, high")
		}
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	if p.MeetingID != nil {
		id := *p.MeetingID
		t.MeetingID = &id
	}
	if p.AssignedTo != nil {
		id := *p.AssignedTo
		t.AssignedTo = &id
	}
	return nil
}
