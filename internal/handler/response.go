package handler

// Every API error has the same JSON shape:
//
//	{"error": "not_found", "message": "user not found with id user_1"}
//
// Validation errors add "field". A few endpoints keep a legacy body shape that
// the web client already parses (feedback, admin login); they build it from
// errorStatus so the status mapping stays in one place.

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/skillverse/internal/apperror"
)

// maxJSONBody caps request bodies decoded by decodeJSON.
const maxJSONBody = 1 << 20

// ErrorResponse is the standard error format returned by API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// writeJSON sends data with the given status. Headers must be set before the
// status line goes out, so the order here matters.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// errorStatus maps a domain error to an HTTP status and machine code.
// Anything that is not an *apperror.AppError is an internal error.
func errorStatus(err error) (status int, code, message, field string) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, "internal_error", "An internal error occurred", ""
	}

	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_error", appErr.Message, appErr.Field
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", appErr.Message, ""
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden, "forbidden", appErr.Message, ""
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "not_found", appErr.Message, ""
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict, "conflict", appErr.Message, ""
	case errors.Is(err, apperror.ErrUpstream):
		return http.StatusBadGateway, "upstream_error", appErr.Message, ""
	case errors.Is(err, apperror.ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable", appErr.Message, ""
	default:
		return http.StatusInternalServerError, "internal_error", "An internal error occurred", ""
	}
}

// writeError sends err in the standard shape. Server-side failures are
// logged with their full chain; the client only sees the safe message.
func writeError(w http.ResponseWriter, logger *slog.Logger, r *http.Request, err error) {
	status, code, message, field := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	}
	writeJSON(w, status, ErrorResponse{Error: code, Message: message, Field: field})
}

// decodeJSON reads a single JSON object into dst. An empty body is accepted
// when allowEmpty is set, leaving dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) && allowEmpty:
		return nil
	default:
		return apperror.ValidationFailed("", "request body must be a valid JSON object")
	}
}
