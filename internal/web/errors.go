package web

// errors.go provides unified error response handling for the web layer.
//
// A handler that fails calls respondError. The error is mapped through
// core.MapError to a user message and code, logged with the request id,
// and written as JSON for API routes or as an HTML page otherwise. The
// status code comes from the sentinel the error wraps.

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/tabular/internal/core"
	"github.com/JonMunkholm/tabular/internal/logging"
	"github.com/JonMunkholm/tabular/internal/table"
	"github.com/JonMunkholm/tabular/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// errBadRequest marks malformed requests rejected before reaching a table.
var errBadRequest = errors.New("invalid request")

var statusBySentinel = []struct {
	err    error
	status int
}{
	{core.ErrTableNotFound, http.StatusNotFound},
	{table.ErrRowNotFound, http.StatusNotFound},
	{table.ErrColumnNotFound, http.StatusNotFound},
	{core.ErrStoreFull, http.StatusInsufficientStorage},
	{table.ErrTooLarge, http.StatusRequestEntityTooLarge},
	{core.ErrTooManyFetches, http.StatusServiceUnavailable},
	{core.ErrResponseTooLarge, http.StatusBadGateway},
	{core.ErrAddressDenied, http.StatusForbidden},
	{table.ErrFetch, http.StatusBadGateway},
	{table.ErrParse, http.StatusUnprocessableEntity},
	{table.ErrUnrecognizedInput, http.StatusBadRequest},
	{table.ErrHeaderMismatch, http.StatusBadRequest},
	{table.ErrDuplicateColumn, http.StatusConflict},
	{table.ErrRowKeyColumn, http.StatusBadRequest},
	{table.ErrInvalidRef, http.StatusBadRequest},
	{table.ErrPayloadShape, http.StatusBadRequest},
	{table.ErrZipArity, http.StatusBadRequest},
	{errBadRequest, http.StatusBadRequest},
	{context.DeadlineExceeded, http.StatusGatewayTimeout},
}

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return http.StatusRequestEntityTooLarge
	}
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}

// respondError logs err server-side and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, status)
		return
	}
	respondErrorHTML(w, r, userMsg, status)
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML writes an HTML error page.
func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	templates.ErrorPage(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
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

// writeJSON encodes v as JSON with the given status.
// Encoding errors are only logged since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
