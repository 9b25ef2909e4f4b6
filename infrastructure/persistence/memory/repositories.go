package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"meetsync/application/ports"
	"meetsync/domain/core/entities"
)

// Store owns every in-memory collection. A single instance is constructed
// at process start and handed to the repositories by reference; nothing in
// this package is a package-level singleton.
type Store struct {
	meetings *Collection[entities.Meeting]
	tasks    *Collection[entities.Task]
	users    *Collection[entities.User]

	// emailIndex guards the users-by-email uniqueness constraint. Held
	// together with the collection's own lock ordering: index first.
	emailMu    sync.Mutex
	emailIndex map[string]int64

	now func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		meetings:   NewCollection[entities.Meeting](),
		tasks:      NewCollection[entities.Task](),
		users:      NewCollection[entities.User](),
		emailIndex: make(map[string]int64),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Meetings returns the meeting repository view of the store
func (s *Store) Meetings() ports.MeetingRepository { return &meetingRepository{store: s} }

// Tasks returns the task repository view of the store
func (s *Store) Tasks() ports.TaskRepository { return &taskRepository{store: s} }

// Users returns the user repository view of the store
func (s *Store) Users() ports.UserRepository { return &userRepository{store: s} }

type meetingRepository struct {
	store *Store
}

func (r *meetingRepository) Create(_ context.Context, meeting entities.Meeting) (entities.Meeting, error) {
	meeting.ID = r.store.meetings.Allocate()
	if err := r.store.meetings.Insert(meeting.ID, meeting); err != nil {
		return entities.Meeting{}, err
	}
	return meeting, nil
}

func (r *meetingRepository) GetByID(_ context.Context, id int64) (entities.Meeting, error) {
	return r.store.meetings.Get(id)
}

func (r *meetingRepository) Update(_ context.Context, id int64, apply func(*entities.Meeting) error) (entities.Meeting, error) {
	now := r.store.now()
	return r.store.meetings.Mutate(id, func(m *entities.Meeting) error {
		if err := apply(m); err != nil {
			return err
		}
		m.UpdatedAt = now
		return nil
	})
}

func (r *meetingRepository) Delete(_ context.Context, id int64) (entities.Meeting, error) {
	return r.store.meetings.Remove(id)
}

func (r *meetingRepository) List(_ context.Context) ([]entities.Meeting, error) {
	meetings := r.store.meetings.List()
	sortMeetings(meetings)
	return meetings, nil
}

func (r *meetingRepository) ListByParticipant(_ context.Context, userID int64) ([]entities.Meeting, error) {
	meetings := r.store.meetings.ListWhere(func(m entities.Meeting) bool {
		return m.HasParticipant(userID)
	})
	sortMeetings(meetings)
	return meetings, nil
}

func sortMeetings(meetings []entities.Meeting) {
	sort.Slice(meetings, func(i, j int) bool { return meetings[i].ID < meetings[j].ID })
}

type taskRepository struct {
	store *Store
}

func (r *taskRepository) Create(_ context.Context, task entities.Task) (entities.Task, error) {
	task.ID = r.store.tasks.Allocate()
	if err := r.store.tasks.Insert(task.ID, task); err != nil {
		return entities.Task{}, err
	}
	return task, nil
}

func (r *taskRepository) GetByID(_ context.Context, id int64) (entities.Task, error) {
	return r.store.tasks.Get(id)
}

func (r *taskRepository) Update(_ context.Context, id int64, apply func(*entities.Task) error) (entities.Task, error) {
	now := r.store.now()
	return r.store.tasks.Mutate(id, func(t *entities.Task) error {
		if err := apply(t); err != nil {
			return err
		}
		t.UpdatedAt = now
		return nil
	})
}

func (r *taskRepository) Delete(_ context.Context, id int64) (entities.Task, error) {
	return r.store.tasks.Remove(id)
}

func (r *taskRepository) List(_ context.Context) ([]entities.Task, error) {
	tasks := r.store.tasks.List()
	sortTasks(tasks)
	return tasks, nil
}

func (r *taskRepository) ListByMeeting(_ context.Context, meetingID int64) ([]entities.Task, error) {
	tasks := r.store.tasks.ListWhere(func(t entities.Task) bool {
		return t.MeetingID != nil && *t.MeetingID == meetingID
	})
	sortTasks(tasks)
	return tasks, nil
}

func (r *taskRepository) ListByAssignee(_ context.Context, userID int64) ([]entities.Task, error) {
	tasks := r.store.tasks.ListWhere(func(t entities.Task) bool {
		return t.AssignedTo != nil && *t.AssignedTo == userID
	})
	sortTasks(tasks)
	return tasks, nil
}

func sortTasks(tasks []entities.Task) {
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
}

type userRepository struct {
	store *Store
}

// Create inserts the user if the email is unclaimed. The claim and the
// insert happen under one lock, so two concurrent registrations for the
// same address cannot both succeed.
func (r *userRepository) Create(_ context.Context, user entities.User) (entities.User, error) {
	email := normalizeEmail(user.Email)

	r.store.emailMu.Lock()
	defer r.store.emailMu.Unlock()

	if _, taken := r.store.emailIndex[email]; taken {
		return entities.User{}, ports.ErrEmailTaken
	}

	user.ID = r.store.users.Allocate()
	if err := r.store.users.Insert(user.ID, user); err != nil {
		return entities.User{}, err
	}
	r.store.emailIndex[email] = user.ID
	return user, nil
}

func (r *userRepository) GetByID(_ context.Context, id int64) (entities.User, error) {
	return r.store.users.Get(id)
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (entities.User, error) {
	r.store.emailMu.Lock()
	id, ok := r.store.emailIndex[normalizeEmail(email)]
	r.store.emailMu.Unlock()
	if !ok {
		return entities.User{}, ports.ErrNotFound
	}
	return r.store.users.Get(id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
