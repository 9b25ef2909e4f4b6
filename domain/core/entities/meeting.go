package entities

import (
	"time"

	pkgerrors "meetsync/pkg/errors"
)

// MeetingStatus represents the lifecycle state of a meeting
type MeetingStatus string

const (
	MeetingStatusScheduled  MeetingStatus = "scheduled"
	MeetingStatusInProgress MeetingStatus = "in-progress"
	MeetingStatusCompleted  MeetingStatus = "completed"
	MeetingStatusCancelled  MeetingStatus = "cancelled"
)

// IsValid reports whether the status is one of the known lifecycle states
func (s MeetingStatus) IsValid() bool {
	switch s {
	case MeetingStatusScheduled, MeetingStatusInProgress, MeetingStatusCompleted, MeetingStatusCancelled:
		return true
	}
	return false
}

// Meeting is a scheduled gathering shared between principals.
// Identity is assigned by the store and immutable afterwards.
type Meeting struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	StartTime    time.Time     `json:"startTime"`
	EndTime      *time.Time    `json:"endTime,omitempty"`
	Location     string        `json:"location,omitempty"`
	MeetingLink  string        `json:"meetingLink,omitempty"`
	Status       MeetingStatus `json:"status"`
	Participants []int64       `json:"participants"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// NewMeeting creates a meeting with defaults applied. Identity is assigned
// later by the store.
func NewMeeting(title string, startTime time.Time, now time.Time) (Meeting, error) {
	if title == "" {
		return Meeting{}, pkgerrors.NewValidationError("title is required")
	}
	if startTime.IsZero() {
		return Meeting{}, pkgerrors.NewValidationError("start time is required")
	}

	return Meeting{
		Title:        title,
		StartTime:    startTime,
		Status:       MeetingStatusScheduled,
		Participants: []int64{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Clone returns a deep copy so store snapshots cannot be mutated externally
func (m Meeting) Clone() Meeting {
	out := m
	if m.EndTime != nil {
		end := *m.EndTime
		out.EndTime = &end
	}
	out.Participants = make([]int64, len(m.Participants))
	copy(out.Participants, m.Participants)
	return out
}

// HasParticipant reports whether the principal is already a participant
func (m Meeting) HasParticipant(userID int64) bool {
	for _, p := range m.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// AddParticipant appends the principal if absent. It reports whether the
// participant set changed, keeping the operation idempotent.
func (m *Meeting) AddParticipant(userID int64) bool {
	if m.HasParticipant(userID) {
		return false
	}
	m.Participants = append(m.Participants, userID)
	return true
}

// MeetingPatch is a partial update; nil fields are left untouched
type MeetingPatch struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	StartTime   *time.Time     `json:"startTime,omitempty"`
	EndTime     *time.Time     `json:"endTime,omitempty"`
	Location    *string        `json:"location,omitempty"`
	MeetingLink *string        `json:"meetingLink,omitempty"`
	Status      *MeetingStatus `json:"status,omitempty"`
}

// Apply merges the patch onto the meeting, last writer wins per field
func (p MeetingPatch) Apply(m *Meeting) error {
	if p.Title != nil {
		if *p.Title == "" {
			return pkgerrors.NewValidationError("title cannot be empty")
		}
		m.Title = *p.Title
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.StartTime != nil {
		m.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		end := *p.EndTime
		m.EndTime = &end
	}
	if p.Location != nil {
		m.Location = *p.Location
	}
	if p.MeetingLink != nil {
		m.MeetingLink = *p.MeetingLink
	}
	if p.Status != nil {
		if !p.Status.IsValid() {
			return pkgerrors.NewInvalidStatusError(string(*p.Status))
		}
		m.Status = *p.Status
	}
	return nil
}
