package common

import (
	"encoding/json"
	"net/http"

	pkgerrors "meetsync/pkg/errors"
)

// ErrorResponse is the body returned for every failed request
type ErrorResponse struct {
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// MessageResponse is the body returned for successful requests with no record
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// RespondMessage sends a plain confirmation message
func RespondMessage(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, MessageResponse{Message: message})
}

// RespondError sends an error response with the given status and message
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Message: message})
}

// RespondAppError maps an application error onto the wire
func RespondAppError(w http.ResponseWriter, err error) {
	if appErr, ok := pkgerrors.AsAppError(err); ok {
		RespondJSON(w, appErr.HTTPStatus, ErrorResponse{
			Message: appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		})
		return
	}
	RespondError(w, http.StatusInternalServerError, "internal server error")
}
