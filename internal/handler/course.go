package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/skillverse/internal/auth"
	"github.com/sakif/skillverse/internal/service"
)

type CourseHandler struct {
	courses *service.CourseService
	logger  *slog.Logger
}

func NewCourseHandler(courses *service.CourseService, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{courses: courses, logger: logger}
}

// HandleActive lists active courses, newest first.
//
// HTTP: GET /api/courses/active
func (h *CourseHandler) HandleActive(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.ActiveCourses(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

// HandleEnrollments lists every enrollment.
//
// HTTP: GET /api/courses/enrollment
func (h *CourseHandler) HandleEnrollments(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.courses.Enrollments(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, enrollments)
}

// HandleEnroll enrolls the caller in a course.
//
// HTTP: POST /api/courses/{id}/enroll
func (h *CourseHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	subjectID, _ := auth.SubjectIDFromContext(r.Context())

	e, err := h.courses.Enroll(r.Context(), subjectID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// HandleCreate adds a course.
//
// HTTP: POST /api/admin/courses
func (h *CourseHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.NewCourse
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	c, err := h.courses.CreateCourse(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// HandleRefresh drops the cached course list.
//
// HTTP: POST /api/admin/courses/refresh
func (h *CourseHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.courses.Refresh(r.Context()); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Course cache refreshed"})
}
