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

// MeetingHandler serves the meeting CRUD and participant endpoints
type MeetingHandler struct {
	meetings *services.MeetingService
	logger   *zap.Logger
}

// NewMeetingHandler creates a meeting handler
func NewMeetingHandler(meetings *services.MeetingService, logger *zap.Logger) *MeetingHandler {
	return &MeetingHandler{meetings: meetings, logger: logger}
}

type createMeetingRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"startTime" validate:"required"`
	EndTime     *time.Time `json:"endTime"`
	Location    string     `json:"location"`
	MeetingLink string     `json:"meetingLink"`
}

// Create handles POST /api/meetings
func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMeetingRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	meeting, err := h.meetings.CreateMeeting(r.Context(), services.CreateMeetingInput{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		MeetingLink: req.MeetingLink,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, meeting)
}

// List handles GET /api/meetings
func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.meetings.ListMeetings(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, meetings)
}

// ListMine handles GET /api/meetings/my-meetings
func (h *MeetingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	meetings, err := h.meetings.ListMeetingsForUser(r.Context(), user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, meetings)
}

// Get handles GET /api/meetings/{id}
func (h *MeetingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	meeting, err := h.meetings.GetMeeting(r.Context(), id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, meeting)
}

// Update handles PUT /api/meetings/{id}
func (h *MeetingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var patch entities.MeetingPatch
	if err := decodeJSON(r, &patch); err != nil {
		common.RespondAppError(w, err)
		return
	}

	meeting, err := h.meetings.UpdateMeeting(r.Context(), id, patch)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, meeting)
}

// Delete handles DELETE /api/meetings/{id}
func (h *MeetingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if err := h.meetings.DeleteMeeting(r.Context(), id); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "meeting deleted")
}

type addParticipantRequest struct {
	UserID *int64 `json:"userId"`
}

// AddParticipant handles POST /api/meetings/{id}/participants. The body
// may name a principal; without one the caller adds themselves.
func (h *MeetingHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	userID := user.UserID
	var req addParticipantRequest
	if decodeErr := decodeJSON(r, &req); decodeErr == nil && req.UserID != nil {
		userID = *req.UserID
	}

	meeting, err := h.meetings.AddParticipant(r.Context(), id, userID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, meeting)
}

// ListParticipants handles GET /api/meetings/{id}/participants
func (h *MeetingHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	participants, err := h.meetings.ListParticipants(r.Context(), id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, participants)
}
