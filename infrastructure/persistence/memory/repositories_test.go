package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetsync/application/ports"
	"meetsync/domain/core/entities"
)

func newTestMeeting(t *testing.T, title string) entities.Meeting {
	t.Helper()
	now := time.Now().UTC()
	meeting, err := entities.NewMeeting(title, now.Add(time.Hour), now)
	require.NoError(t, err)
	return meeting
}

func TestMeetingRepository(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := store.Meetings()

	t.Run("create assigns sequential identity", func(t *testing.T) {
		first, err := repo.Create(ctx, newTestMeeting(t, "first"))
		require.NoError(t, err)
		second, err := repo.Create(ctx, newTestMeeting(t, "second"))
		require.NoError(t, err)

		assert.Equal(t, int64(1), first.ID)
		assert.Equal(t, int64(2), second.ID)
	})

	t.Run("update stamps UpdatedAt", func(t *testing.T) {
		created, err := repo.Create(ctx, newTestMeeting(t, "to update"))
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, func(m *entities.Meeting) error {
			m.Title = "updated"
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "updated", updated.Title)
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
	})

	t.Run("delete frees the record but not the identity", func(t *testing.T) {
		created, err := repo.Create(ctx, newTestMeeting(t, "to delete"))
		require.NoError(t, err)

		_, err = repo.Delete(ctx, created.ID)
		require.NoError(t, err)

		_, err = repo.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, ports.ErrNotFound)

		next, err := repo.Create(ctx, newTestMeeting(t, "after delete"))
		require.NoError(t, err)
		assert.Greater(t, next.ID, created.ID)
	})

	t.Run("list is ordered by identity", func(t *testing.T) {
		meetings, err := repo.List(ctx)
		require.NoError(t, err)
		for i := 1; i < len(meetings); i++ {
			assert.Less(t, meetings[i-1].ID, meetings[i].ID)
		}
	})

	t.Run("list by participant", func(t *testing.T) {
		created, err := repo.Create(ctx, newTestMeeting(t, "with participant"))
		require.NoError(t, err)
		_, err = repo.Update(ctx, created.ID, func(m *entities.Meeting) error {
			m.AddParticipant(77)
			return nil
		})
		require.NoError(t, err)

		mine, err := repo.ListByParticipant(ctx, 77)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, created.ID, mine[0].ID)

		none, err := repo.ListByParticipant(ctx, 78)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestTaskRepositoryFilters(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := store.Tasks()
	now := time.Now().UTC()

	meetingID := int64(5)
	assignee := int64(9)

	attached, err := entities.NewTask("attached", now)
	require.NoError(t, err)
	attached.MeetingID = &meetingID
	attached, err = repo.Create(ctx, attached)
	require.NoError(t, err)

	assigned, err := entities.NewTask("assigned", now)
	require.NoError(t, err)
	assigned.AssignedTo = &assignee
	_, err = repo.Create(ctx, assigned)
	require.NoError(t, err)

	loose, err := entities.NewTask("loose", now)
	require.NoError(t, err)
	_, err = repo.Create(ctx, loose)
	require.NoError(t, err)

	byMeeting, err := repo.ListByMeeting(ctx, meetingID)
	require.NoError(t, err)
	require.Len(t, byMeeting, 1)
	assert.Equal(t, attached.ID, byMeeting[0].ID)

	byAssignee, err := repo.ListByAssignee(ctx, assignee)
	require.NoError(t, err)
	require.Len(t, byAssignee, 1)
	assert.Equal(t, "assigned", byAssignee[0].Title)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func newTestUser(t *testing.T, email string) entities.User {
	t.Helper()
	user, err := entities.NewUser("Someone", email, "hash", time.Now().UTC())
	require.NoError(t, err)
	return user
}

func TestUserRepositoryEmailUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := store.Users()

	first, err := repo.Create(ctx, newTestUser(t, "a@example.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newTestUser(t, "a@example.com"))
	assert.ErrorIs(t, err, ports.ErrEmailTaken)

	// Lookup is case-insensitive
	_, err = repo.Create(ctx, newTestUser(t, "A@Example.COM"))
	assert.ErrorIs(t, err, ports.ErrEmailTaken)

	found, err := repo.GetByEmail(ctx, "A@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestUserRepositoryConcurrentRegistration(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := store.Users()

	const attempts = 32
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, newTestUser(t, "race@example.com"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case err == ports.ErrEmailTaken:
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Exactly one registration wins; everyone else sees the conflict
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicted)
}

func TestUserRepositorySequentialIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := store.Users()

	for i := 1; i <= 3; i++ {
		user, err := repo.Create(ctx, newTestUser(t, fmt.Sprintf("u%d@example.com", i)))
		require.NoError(t, err)
		assert.Equal(t, int64(i), user.ID)
	}
}
