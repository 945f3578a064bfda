package web

// errors.go provides unified error response handling for the web layer.
//
// Every handler error goes through respondError, which:
//  1. Maps the error to a user message via core.MapError
//  2. Logs the technical error with the request ID
//  3. Renders the message as an HTMX fragment, JSON or plain text

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/stacktable/internal/core"
	"github.com/JonMunkholm/stacktable/internal/web/templates"
	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusForError picks the HTTP status for a service error.
func statusForError(err error) int {
	var validationErr *core.ValidationError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, core.ErrInputTooLarge), errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validationErr),
		errors.Is(err, core.ErrInvalidRequest),
		errors.Is(err, core.ErrUnsupportedFormat),
		errors.Is(err, core.ErrInvalidColumn),
		errors.Is(err, core.ErrInvalidPadWidth):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrConversionNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyConversions):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError handles error responses with user-friendly messages.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	if statusCode == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}

	if isHTMX(r) {
		renderErrorPartial(w, r, userMsg, statusCode)
	} else if wantsJSON(r) {
		respondErrorJSON(w, err, statusCode)
	} else {
		respondErrorText(w, err, statusCode)
	}
}

// respondErrorJSON writes a JSON error response. Error carries the full
// display line, the other fields its parts.
func respondErrorJSON(w http.ResponseWriter, err error, statusCode int) {
	msg := core.MapError(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   core.FormatUserError(err),
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorText writes a plain text error response.
func respondErrorText(w http.ResponseWriter, err error, statusCode int) {
	http.Error(w, core.FormatUserError(err), statusCode)
}

// renderErrorPartial renders an HTMX-compatible error fragment.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		slog.Error("render error partial", "error", err)
	}
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers JSON response.
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
