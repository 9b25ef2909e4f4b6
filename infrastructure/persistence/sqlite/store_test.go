package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetsync/application/ports"
	"meetsync/domain/core/entities"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testMeeting(t *testing.T, title string) entities.Meeting {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	meeting, err := entities.NewMeeting(title, now.Add(time.Hour), now)
	require.NoError(t, err)
	return meeting
}

func TestSQLiteMeetingRepository(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := store.Meetings()

	t.Run("create and read back", func(t *testing.T) {
		end := time.Now().UTC().Add(2 * time.Hour).Truncate(time.Millisecond)
		meeting := testMeeting(t, "Persisted")
		meeting.Description = "desc"
		meeting.Location = "room 4"
		meeting.EndTime = &end

		created, err := repo.Create(ctx, meeting)
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Persisted", got.Title)
		assert.Equal(t, "desc", got.Description)
		assert.Equal(t, "room 4", got.Location)
		require.NotNil(t, got.EndTime)
		assert.True(t, end.Equal(*got.EndTime))
		assert.Equal(t, entities.MeetingStatusScheduled, got.Status)
		assert.Empty(t, got.Participants)
	})

	t.Run("update applies inside a transaction", func(t *testing.T) {
		created, err := repo.Create(ctx, testMeeting(t, "Before"))
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, func(m *entities.Meeting) error {
			m.Title = "After"
			m.AddParticipant(7)
			m.AddParticipant(9)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "After", updated.Title)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{7, 9}, got.Participants)
	})

	t.Run("failing update leaves the row unchanged", func(t *testing.T) {
		created, err := repo.Create(ctx, testMeeting(t, "Stable"))
		require.NoError(t, err)

		_, err = repo.Update(ctx, created.ID, func(m *entities.Meeting) error {
			m.Title = "partial"
			return assert.AnError
		})
		require.Error(t, err)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Stable", got.Title)
	})

	t.Run("identity is never reused after delete", func(t *testing.T) {
		created, err := repo.Create(ctx, testMeeting(t, "Doomed"))
		require.NoError(t, err)

		_, err = repo.Delete(ctx, created.ID)
		require.NoError(t, err)

		next, err := repo.Create(ctx, testMeeting(t, "Successor"))
		require.NoError(t, err)
		assert.Greater(t, next.ID, created.ID)
	})

	t.Run("missing rows map to not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, ports.ErrNotFound)

		_, err = repo.Delete(ctx, 9999)
		assert.ErrorIs(t, err, ports.ErrNotFound)

		_, err = repo.Update(ctx, 9999, func(*entities.Meeting) error { return nil })
		assert.ErrorIs(t, err, ports.ErrNotFound)
	})

	t.Run("list by participant", func(t *testing.T) {
		created, err := repo.Create(ctx, testMeeting(t, "Joined"))
		require.NoError(t, err)
		_, err = repo.Update(ctx, created.ID, func(m *entities.Meeting) error {
			m.AddParticipant(55)
			return nil
		})
		require.NoError(t, err)

		mine, err := repo.ListByParticipant(ctx, 55)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, created.ID, mine[0].ID)
	})
}

func TestSQLiteTaskRepository(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := store.Tasks()
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("create and read back nullable fields", func(t *testing.T) {
		due := now.Add(48 * time.Hour)
		meetingID := int64(3)
		assignee := int64(8)

		task, err := entities.NewTask("Full task", now)
		require.NoError(t, err)
		task.Priority = entities.TaskPriorityHigh
		task.DueDate = &due
		task.MeetingID = &meetingID
		task.AssignedTo = &assignee

		created, err := repo.Create(ctx, task)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.TaskPriorityHigh, got.Priority)
		require.NotNil(t, got.DueDate)
		assert.True(t, due.Equal(*got.DueDate))
		require.NotNil(t, got.MeetingID)
		assert.Equal(t, meetingID, *got.MeetingID)
		require.NotNil(t, got.AssignedTo)
		assert.Equal(t, assignee, *got.AssignedTo)
	})

	t.Run("bare task round-trips nils", func(t *testing.T) {
		task, err := entities.NewTask("Bare", now)
		require.NoError(t, err)

		created, err := repo.Create(ctx, task)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, got.DueDate)
		assert.Nil(t, got.MeetingID)
		assert.Nil(t, got.AssignedTo)
		assert.Empty(t, got.Priority)
	})

	t.Run("filters", func(t *testing.T) {
		byMeeting, err := repo.ListByMeeting(ctx, 3)
		require.NoError(t, err)
		assert.Len(t, byMeeting, 1)

		byAssignee, err := repo.ListByAssignee(ctx, 8)
		require.NoError(t, err)
		assert.Len(t, byAssignee, 1)

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestSQLiteUserRepository(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := store.Users()
	now := time.Now().UTC().Truncate(time.Millisecond)

	user, err := entities.NewUser("Ada", "ada@example.com", "hash", now)
	require.NoError(t, err)

	created, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	t.Run("duplicate email maps to the taken sentinel", func(t *testing.T) {
		dup, err := entities.NewUser("Imposter", "ada@example.com", "hash2", now)
		require.NoError(t, err)

		_, err = repo.Create(ctx, dup)
		assert.ErrorIs(t, err, ports.ErrEmailTaken)
	})

	t.Run("lookup by email", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "hash", got.PasswordHash)

		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ports.ErrNotFound)
	})
}
