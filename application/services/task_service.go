package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"meetsync/application/ports"
	"meetsync/domain/core/entities"
	"meetsync/domain/events"
	pkgerrors "meetsync/pkg/errors"
	"meetsync/pkg/observability"
)

// TaskService is the mutation surface for tasks
type TaskService struct {
	tasks     ports.TaskRepository
	meetings  ports.MeetingRepository
	publisher ports.EventPublisher
	metrics   *observability.Collector
	logger    *zap.Logger
	now       func() time.Time
}

// NewTaskService creates a task service
func NewTaskService(
	tasks ports.TaskRepository,
	meetings ports.MeetingRepository,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		tasks:     tasks,
		meetings:  meetings,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateTaskInput holds the fields accepted at creation
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    entities.TaskPriority
	DueDate     *time.Time
	MeetingID   *int64
	AssignedTo  *int64
}

// CreateTask validates required fields, assigns identity via the store,
// and emits a created notification
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (entities.Task, error) {
	task, err := entities.NewTask(input.Title, s.now())
	if err != nil {
		return entities.Task{}, err
	}
	task.Description = input.Description
	if input.Priority != "" {
		if !input.Priority.IsValid() {
			return entities.Task{}, pkgerrors.NewValidationError("priority must be one of: low, medium, high")
		}
		task.Priority = input.Priority
	}
	if input.DueDate != nil {
		due := *input.DueDate
		task.DueDate = &due
	}
	if input.MeetingID != nil {
		// Advisory existence check only. It is not transactional with the
		// insert, and a later meeting delete leaves the reference dangling.
		if err := s.checkMeetingExists(ctx, *input.MeetingID); err != nil {
			return entities.Task{}, err
		}
		id := *input.MeetingID
		task.MeetingID = &id
	}
	if input.AssignedTo != nil {
		id := *input.AssignedTo
		task.AssignedTo = &id
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		return entities.Task{}, pkgerrors.NewInternalError("failed to store task", err)
	}

	s.logger.Info("task created",
		zap.Int64("taskID", created.ID),
		zap.String("title", created.Title),
	)
	s.metrics.MutationsTotal.WithLabelValues("task", "create").Inc()
	s.publisher.Publish(events.NewTaskCreated(created, s.now()))
	return created, nil
}

// GetTask returns one task
func (s *TaskService) GetTask(ctx context.Context, id int64) (entities.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return entities.Task{}, pkgerrors.NewNotFoundError("task")
	}
	return task, err
}

// ListTasks returns all tasks
func (s *TaskService) ListTasks(ctx context.Context) ([]entities.Task, error) {
	return s.tasks.List(ctx)
}

// ListTasksForMeeting returns the tasks attached to a meeting
func (s *TaskService) ListTasksForMeeting(ctx context.Context, meetingID int64) ([]entities.Task, error) {
	return s.tasks.ListByMeeting(ctx, meetingID)
}

// ListTasksForAssignee returns the tasks assigned to a principal
func (s *TaskService) ListTasksForAssignee(ctx context.Context, userID int64) ([]entities.Task, error) {
	return s.tasks.ListByAssignee(ctx, userID)
}

// UpdateTask merges the patch onto the stored record, last writer wins per
// field, and emits an updated notification
func (s *TaskService) UpdateTask(ctx context.Context, id int64, patch entities.TaskPatch) (entities.Task, error) {
	if patch.MeetingID != nil {
		if err := s.checkMeetingExists(ctx, *patch.MeetingID); err != nil {
			return entities.Task{}, err
		}
	}

	updated, err := s.tasks.Update(ctx, id, patch.Apply)
	if errors.Is(err, ports.ErrNotFound) {
		return entities.Task{}, pkgerrors.NewNotFoundError("task")
	}
	if err != nil {
		return entities.Task{}, err
	}

	s.metrics.MutationsTotal.WithLabelValues("task", "update").Inc()
	s.publisher.Publish(events.NewTaskUpdated(updated, s.now()))
	return updated, nil
}

// SetTaskStatus is the restricted single-field update. The status value is
// checked against the enum before the store is touched, so a rejected
// status leaves the record unchanged.
func (s *TaskService) SetTaskStatus(ctx context.Context, id int64, status entities.TaskStatus) (entities.Task, error) {
	if !status.IsValid() {
		return entities.Task{}, pkgerrors.NewInvalidStatusError(string(status))
	}

	updated, err := s.tasks.Update(ctx, id, func(t *entities.Task) error {
		t.Status = status
		return nil
	})
	if errors.Is(err, ports.ErrNotFound) {
		return entities.Task{}, pkgerrors.NewNotFoundError("task")
	}
	if err != nil {
		return entities.Task{}, err
	}

	s.metrics.MutationsTotal.WithLabelValues("task", "set_status").Inc()
	s.publisher.Publish(events.NewTaskUpdated(updated, s.now()))
	return updated, nil
}

// DeleteTask removes the record and emits a deleted notification carrying
// only the identity
func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	_, err := s.tasks.Delete(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return pkgerrors.NewNotFoundError("task")
	}
	if err != nil {
		return err
	}

	s.logger.Info("task deleted", zap.Int64("taskID", id))
	s.metrics.MutationsTotal.WithLabelValues("task", "delete").Inc()
	s.publisher.Publish(events.NewTaskDeleted(id, s.now()))
	return nil
}

func (s *TaskService) checkMeetingExists(ctx context.Context, meetingID int64) error {
	_, err := s.meetings.GetByID(ctx, meetingID)
	if errors.Is(err, ports.ErrNotFound) {
		return pkgerrors.NewValidationError(fmt.Sprintf("meeting %d does not exist", meetingID))
	}
	return err
}
