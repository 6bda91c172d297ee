package http

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/Podhive/MVP/pkg/errors"
)

type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// No recovery possible after WriteHeader; caller logs the failure.
	return json.NewEncoder(w).Encode(data)
}

// WriteError maps an error onto the wire. Non-AppError values are reported
// as a generic 500 so internals never leak.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)

	resp := ErrorResponse{
		Error:   appErr.Message,
		Details: appErr.Details,
	}
	if appErr.Code == apperrors.CodeInternal {
		resp = ErrorResponse{Error: "Internal server error"}
	}

	return WriteJSON(w, appErr.StatusCode(), resp)
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, data)
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, data)
}

func WriteMessage(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, MessageResponse{Message: message})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
