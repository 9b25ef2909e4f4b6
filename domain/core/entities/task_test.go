package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	now := time.Now().UTC()

	t.Run("applies defaults", func(t *testing.T) {
		task, err := NewTask("Write minutes", now)
		require.NoError(t, err)

		assert.Equal(t, TaskStatusPending, task.Status)
		assert.Empty(t, task.Priority)
		assert.Nil(t, task.MeetingID)
		assert.Zero(t, task.ID)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := NewTask("", now)
		assert.Error(t, err)
	})
}

func TestTaskClone(t *testing.T) {
	now := time.Now().UTC()
	meetingID := int64(3)
	task, err := NewTask("Follow up", now)
	require.NoError(t, err)
	task.MeetingID = &meetingID

	clone := task.Clone()
	*clone.MeetingID = 99

	assert.Equal(t, int64(3), *task.MeetingID)
}

func TestTaskPatchApply(t *testing.T) {
	now := time.Now().UTC()
	task, err := NewTask("Prepare agenda", now)
	require.NoError(t, err)
	task.Description = "original"

	t.Run("merges only set fields", func(t *testing.T) {
		status := TaskStatusInProgress
		priority := TaskPriorityHigh
		patch := TaskPatch{Status: &status, Priority: &priority}

		tk := task.Clone()
		require.NoError(t, patch.Apply(&tk))

		assert.Equal(t, TaskStatusInProgress, tk.Status)
		assert.Equal(t, TaskPriorityHigh, tk.Priority)
		assert.Equal(t, "Prepare agenda", tk.Title)
		assert.Equal(t, "original", tk.Description)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		status := TaskStatus("done")
		tk := task.Clone()
		assert.Error(t, TaskPatch{Status: &status}.Apply(&tk))
	})

	t.Run("rejects unknown priority", func(t *testing.T) {
		priority := TaskPriority("urgent")
		tk := task.Clone()
		assert.Error(t, TaskPatch{Priority: &priority}.Apply(&tk))
	})
}

func TestTaskStatusIsValid(t *testing.T) {
	for _, s := range []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled} {
		assert.True(t, s.IsValid(), string(s))
	}
	assert.False(t, TaskStatus("done").IsValid())
}

func TestTaskPriorityIsValid(t *testing.T) {
	for _, p := range []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh} {
		assert.True(t, p.IsValid(), string(p))
	}
	assert.False(t, TaskPriority("urgent").IsValid())
}
