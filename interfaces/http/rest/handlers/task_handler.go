package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"meetsync/application/services"
	"meetsync/domain/core/entities"
	"meetsync/pkg/auth"
	"meetsync/pkg/common"
	pkgerrors "meetsync/pkg/errors"
)

// TaskHandler serves the task CRUD and status endpoints
type TaskHandler struct {
	tasks  *services.TaskService
	logger *zap.Logger
}

// NewTaskHandler creates a task handler
func NewTaskHandler(tasks *services.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

type createTaskRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	MeetingID   *int64     `json:"meetingId"`
	AssignedTo  *int64     `json:"assignedTo"`
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    entities.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
		MeetingID:   req.MeetingID,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, task)
}

// List handles GET /api/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.ListTasks(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, tasks)
}

// ListMine handles GET /api/tasks/my-tasks
func (h *TaskHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	tasks, err := h.tasks.ListTasksForAssignee(r.Context(), user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, tasks)
}

// ListForMeeting handles GET /api/tasks/meeting/{meetingId}
func (h *TaskHandler) ListForMeeting(w http.ResponseWriter, r *http.Request) {
	meetingID, err := pathID(r, "meetingId")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	tasks, err := h.tasks.ListTasksForMeeting(r.Context(), meetingID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, tasks)
}

// Get handles GET /api/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	task, err := h.tasks.GetTask(r.Context(), id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, task)
}

// Update handles PUT /api/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var patch entities.TaskPatch
	if err := decodeJSON(r, &patch); err != nil {
		common.RespondAppError(w, err)
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), id, patch)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, task)
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SetStatus handles PATCH /api/tasks/{id}/status
func (h *TaskHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req setStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	task, err := h.tasks.SetTaskStatus(r.Context(), id, entities.TaskStatus(req.Status))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), id); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "task deleted")
}
