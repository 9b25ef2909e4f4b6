package ports

import (
	"context"
	"errors"

	"meetsync/domain/core/entities"
)

// Store-level errors. Services translate these into the client-facing
// error taxonomy.
var (
	// ErrNotFound signals an operation targeting a nonexistent identity
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateIdentity signals an insert under an already-used identity.
	// Must not occur under correct allocator use.
	ErrDuplicateIdentity = errors.New("duplicate identity")

	// ErrEmailTaken signals a registration under an already-registered email
	ErrEmailTaken = errors.New("email already registered")
)

// MeetingRepository defines the read/write contract for meetings.
// Update applies its closure atomically with respect to other store
// operations, so composite check-then-act sequences never span a gap.
type MeetingRepository interface {
	Create(ctx context.Context, meeting entities.Meeting) (entities.Meeting, error)
	GetByID(ctx context.Context, id int64) (entities.Meeting, error)
	Update(ctx context.Context, id int64, apply func(*entities.Meeting) error) (entities.Meeting, error)
	Delete(ctx context.Context, id int64) (entities.Meeting, error)
	List(ctx context.Context) ([]entities.Meeting, error)
	ListByParticipant(ctx context.Context, userID int64) ([]entities.Meeting, error)
}

// TaskRepository defines the read/write contract for tasks
type TaskRepository interface {
	Create(ctx context.Context, task entities.Task) (entities.Task, error)
	GetByID(ctx context.Context, id int64) (entities.Task, error)
	Update(ctx context.Context, id int64, apply func(*entities.Task) error) (entities.Task, error)
	Delete(ctx context.Context, id int64) (entities.Task, error)
	List(ctx context.Context) ([]entities.Task, error)
	ListByMeeting(ctx context.Context, meetingID int64) ([]entities.Task, error)
	ListByAssignee(ctx context.Context, userID int64) ([]entities.Task, error)
}

// UserRepository defines the read/write contract for principals.
// Create is an atomic insert-if-absent keyed by email: two concurrent
// registrations for the same address yield exactly one record, the loser
// gets ErrEmailTaken.
type UserRepository interface {
	Create(ctx context.Context, user entities.User) (entities.User, error)
	GetByID(ctx context.Context, id int64) (entities.User, error)
	GetByEmail(ctx context.Context, email string) (entities.User, error)
}
