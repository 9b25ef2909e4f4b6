package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"meetsync/application/ports"
	"meetsync/domain/core/entities"
	"meetsync/domain/events"
	pkgerrors "meetsync/pkg/errors"
	"meetsync/pkg/observability"
)

// MeetingService is the mutation surface for meetings. Every successful
// mutation that observably changes a stored record publishes exactly one
// change notification, after the store write and before returning.
type MeetingService struct {
	meetings  ports.MeetingRepository
	registry  *ParticipantRegistry
	publisher ports.EventPublisher
	metrics   *observability.Collector
	logger    *zap.Logger
	now       func() time.Time
}

// NewMeetingService creates a meeting service
func NewMeetingService(
	meetings ports.MeetingRepository,
	registry *ParticipantRegistry,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *MeetingService {
	return &MeetingService{
		meetings:  meetings,
		registry:  registry,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateMeetingInput holds the fields accepted at creation
type CreateMeetingInput struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     *time.Time
	Location    string
	MeetingLink string
}

// CreateMeeting validates required fields, assigns identity via the store,
// and emits a created notification
func (s *MeetingService) CreateMeeting(ctx context.Context, input CreateMeetingInput) (entities.Meeting, error) {
	meeting, err := entities.NewMeeting(input.Title, input.StartTime, s.now())
	if err != nil {
		return entities.Meeting{}, err
	}
	meeting.Description = input.Description
	meeting.Location = input.Location
	meeting.MeetingLink = input.MeetingLink
	if input.EndTime != nil {
		end := *input.EndTime
		meeting.EndTime = &end
	}

	created, err := s.meetings.Create(ctx, meeting)
	if err != nil {
		return entities.Meeting{}, pkgerrors.NewInternalError("failed to store meeting", err)
	}

	s.logger.Info("meeting created",
		zap.Int64("meetingID", created.ID),
		zap.String("title", created.Title),
	)
	s.metrics.MutationsTotal.WithLabelValues("meeting", "create").Inc()
	s.publisher.Publish(events.NewMeetingCreated(created, s.now()))
	return created, nil
}

// GetMeeting returns one meeting
func (s *MeetingService) GetMeeting(ctx context.Context, id int64) (entities.Meeting, error) {
	meeting, err := s.meetings.GetByID(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return entities.Meeting{}, pkgerrors.NewNotFoundError("meeting")
	}
	return meeting, err
}

// ListMeetings returns all meetings
func (s *MeetingService) ListMeetings(ctx context.Context) ([]entities.Meeting, error) {
	return s.meetings.List(ctx)
}

// ListMeetingsForUser returns the meetings the principal participates in
func (s *MeetingService) ListMeetingsForUser(ctx context.Context, userID int64) ([]entities.Meeting, error) {
	return s.meetings.ListByParticipant(ctx, userID)
}

// UpdateMeeting merges the patch onto the stored record, last writer wins
// per field, and emits an updated notification
func (s *MeetingService) UpdateMeeting(ctx context.Context, id int64, patch entities.MeetingPatch) (entities.Meeting, error) {
	updated, err := s.meetings.Update(ctx, id, patch.Apply)
	if errors.Is(err, ports.ErrNotFound) {
		return entities.Meeting{}, pkgerrors.NewNotFoundError("meeting")
	}
	if err != nil {
		return entities.Meeting{}, err
	}

	s.metrics.MutationsTotal.WithLabelValues("meeting", "update").Inc()
	s.publisher.Publish(events.NewMeetingUpdated(updated, s.now()))
	return updated, nil
}

// DeleteMeeting removes the record and emits a deleted notification
// carrying only the identity. Tasks referencing the meeting are left in
// place; the reference is advisory.
func (s *MeetingService) DeleteMeeting(ctx context.Context, id int64) error {
	_, err := s.meetings.Delete(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return pkgerrors.NewNotFoundError("meeting")
	}
	if err != nil {
		return err
	}

	s.logger.Info("meeting deleted", zap.Int64("meetingID", id))
	s.metrics.MutationsTotal.WithLabelValues("meeting", "delete").Inc()
	s.publisher.Publish(events.NewMeetingDeleted(id, s.now()))
	return nil
}

// AddParticipant adds the principal to the meeting. The updated
// notification is emitted only when the participant set actually changed,
// so an idempotent no-op causes no fan-out.
func (s *MeetingService) AddParticipant(ctx context.Context, meetingID, userID int64) (entities.Meeting, error) {
	meeting, changed, err := s.registry.AddParticipant(ctx, meetingID, userID)
	if err != nil {
		return entities.Meeting{}, err
	}

	if changed {
		s.metrics.MutationsTotal.WithLabelValues("meeting", "add_participant").Inc()
		s.publisher.Publish(events.NewMeetingUpdated(meeting, s.now()))
	}
	return meeting, nil
}

// ListParticipants resolves the meeting's participants to identity records
func (s *MeetingService) ListParticipants(ctx context.Context, meetingID int64) ([]entities.User, error) {
	return s.registry.ListParticipants(ctx, meetingID)
}
