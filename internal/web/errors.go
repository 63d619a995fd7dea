package web

// errors.go provides unified error response handling for the web layer.
//
// Every handler error flows through respondError: the technical error is
// logged server-side with the request ID, mapped via core.MapError to a
// user-facing message with a stable support code, and rendered as JSON for
// API clients or plain HTML for everything else.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/facwise/facalloc/internal/core"
	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Error, Action)
// fields.
type ErrorResponse struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
	Code   string `json:"code"`
}

// respondError logs the technical error and writes the mapped user message.
// The HTTP status is derived from the error type via statusForError.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := statusForError(err)
	userMsg := core.MapError(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, statusCode)
	} else {
		respondErrorHTML(w, userMsg, statusCode)
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:  msg.Message,
		Action: msg.Action,
		Code:   msg.Code,
	})
}

// respondErrorHTML writes a plain HTML error response.
func respondErrorHTML(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	http.Error(w, msg.Message+" ("+msg.Code+")", statusCode)
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}

	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}

// statusForError picks the HTTP status code for a pipeline error.
func statusForError(err error) int {
	var colErr *core.ColumnNotFoundError
	var prefErr *core.NoPreferenceColumnsError
	var rowErr *core.RowCountMismatchError
	var allocErr *core.MissingAllocationColumnError

	switch {
	case errors.As(err, &colErr), errors.As(err, &prefErr), errors.As(err, &rowErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &allocErr):
		return http.StatusInternalServerError
	case errors.Is(err, core.ErrTooManyRuns):
		return http.StatusTooManyRequests
	case errors.Is(err, core.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrEmptyTable):
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}
