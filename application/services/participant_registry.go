package services

import (
	"context"
	"errors"

	"github.com/samber/lo"

	"meetsync/application/ports"
	"meetsync/domain/core/entities"
	pkgerrors "meetsync/pkg/errors"
)

// ParticipantRegistry manages meeting membership. Adds are idempotent: the
// membership check and the write run inside the store's atomic update, so
// a repeated add never produces a duplicate entry.
type ParticipantRegistry struct {
	meetings ports.MeetingRepository
	users    ports.UserRepository
}

// NewParticipantRegistry creates a participant registry
func NewParticipantRegistry(meetings ports.MeetingRepository, users ports.UserRepository) *ParticipantRegistry {
	return &ParticipantRegistry{meetings: meetings, users: users}
}

// AddParticipant inserts the principal into the meeting's participant set
// if absent. It returns the meeting snapshot and whether the set changed.
func (r *ParticipantRegistry) AddParticipant(ctx context.Context, meetingID, userID int64) (entities.Meeting, bool, error) {
	changed := false
	meeting, err := r.meetings.Update(ctx, meetingID, func(m *entities.Meeting) error {
		changed = m.AddParticipant(userID)
		return nil
	})
	if errors.Is(err, ports.ErrNotFound) {
		return entities.Meeting{}, false, pkgerrors.NewNotFoundError("meeting")
	}
	if err != nil {
		return entities.Meeting{}, false, err
	}
	return meeting, changed, nil
}

// ListParticipants resolves the meeting's participant identifiers against
// the identity records. Identifiers without a matching record are skipped;
// the reference is advisory, not enforced.
func (r *ParticipantRegistry) ListParticipants(ctx context.Context, meetingID int64) ([]entities.User, error) {
	meeting, err := r.meetings.GetByID(ctx, meetingID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, pkgerrors.NewNotFoundError("meeting")
	}
	if err != nil {
		return nil, err
	}

	participants := lo.FilterMap(meeting.Participants, func(id int64, _ int) (entities.User, bool) {
		user, err := r.users.GetByID(ctx, id)
		return user, err == nil
	})
	return participants, nil
}
