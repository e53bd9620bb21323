package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/skillverse/internal/apperror"
	"github.com/sakif/skillverse/internal/repository"
	"github.com/sakif/skillverse/internal/service"
)

type FeedbackHandler struct {
	feedback *service.FeedbackService
	logger   *slog.Logger
}

func NewFeedbackHandler(feedback *service.FeedbackService, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback, logger: logger}
}

// feedbackResponse is the body the feedback form expects: success plus, on
// failure, the standard error fields.
type feedbackResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

// HandleSubmit stores one feedback entry.
//
// HTTP: POST /api/submit-feedback
func (h *FeedbackHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var in service.NewFeedback
	if err := decodeJSON(w, r, &in, false); err != nil {
		h.fail(w, r, err)
		return
	}

	if _, err := h.feedback.Submit(r.Context(), in); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feedbackResponse{Success: true})
}

func (h *FeedbackHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message, field := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("storing feedback failed", slog.String("error", err.Error()))
	}
	writeJSON(w, status, feedbackResponse{Error: code, Message: message, Field: field})
}

// HandleList pages through feedback, optionally for one course.
//
// HTTP: GET /api/admin/feedback?courseId=&limit=&offset=
func (h *FeedbackHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.FeedbackFilter{CourseID: q.Get("courseId")}

	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, h.logger, r, apperror.ValidationFailed("limit", "limit must be a number"))
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, h.logger, r, apperror.ValidationFailed("offset", "offset must be a number"))
		return
	}

	rows, err := h.feedback.List(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
