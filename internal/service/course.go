package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/sakif/skillverse/internal/apperror"
	"github.com/sakif/skillverse/internal/model"
	"github.com/sakif/skillverse/internal/repository"
)

const activeCoursesKey = "active"

// CourseCache is the part of cache.PrefixedCache the course service uses.
type CourseCache interface {
	Get(ctx context.Context, key string) ([]model.Course, error)
	Set(ctx context.Context, key string, value []model.Course) error
	Delete(ctx context.Context, key string) error
}

// NewCourse is the admin input for creating a course.
type NewCourse struct {
	Title        string `json:"title" validate:"notblank,max=200"`
	Description  string `json:"description" validate:"max=5000"`
	ThumbnailURL string `json:"thumbnailUrl" validate:"omitempty,url"`
	CreatorID    string `json:"creatorId"`
	Status       string `json:"status" validate:"omitempty,oneof=active draft archived"`
}

type CourseService struct {
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	cache       CourseCache
	validator   StructValidator
	logger      *slog.Logger
}

// NewCourseService wires the service. cache may be nil to always read
// through to the store.
func NewCourseService(
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	cache CourseCache,
	validator StructValidator,
	logger *slog.Logger,
) *CourseService {
	return &CourseService{
		courses:     courses,
		enrollments: enrollments,
		cache:       cache,
		validator:   validator,
		logger:      logger,
	}
}

// ActiveCourses returns active courses, newest first, from the cache when
// possible. A cache failure is logged and the store is used instead.
func (s *CourseService) ActiveCourses(ctx context.Context) ([]model.Course, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, activeCoursesKey); err == nil && cached != nil {
			return cached, nil
		}
	}

	courses, err := s.courses.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/course: listing active courses: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, activeCoursesKey, courses); err != nil {
			s.logger.Warn("caching active courses failed", slog.String("error", err.Error()))
		}
	}
	return courses, nil
}

func (s *CourseService) Enrollments(ctx context.Context) ([]model.Enrollment, error) {
	enrollments, err := s.enrollments.ListEnrollments(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/course: listing enrollments: %w", err)
	}
	return enrollments, nil
}

// Refresh drops the cached course list so the next read hits the store.
func (s *CourseService) Refresh(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, activeCoursesKey); err != nil {
		return fmt.Errorf("service/course: invalidating course cache: %w", err)
	}
	s.logger.Info("course cache invalidated")
	return nil
}

func (s *CourseService) CreateCourse(ctx context.Context, in NewCourse) (*model.Course, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	course := &model.Course{
		Title:        in.Title,
		Description:  in.Description,
		ThumbnailURL: in.ThumbnailURL,
		CreatorID:    in.CreatorID,
		Status:       in.Status,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("service/course: creating course: %w", err)
	}
	s.invalidate(ctx)

	s.logger.Info("course created", slog.String("courseId", course.ID), slog.String("status", course.Status))
	return course, nil
}

// Enroll enrolls the user in an active course. Enrolling twice returns the
// existing enrollment.
func (s *CourseService) Enroll(ctx context.Context, userID, courseID string) (*model.Enrollment, error) {
	active, err := s.ActiveCourses(ctx)
	if err != nil {
		return nil, err
	}
	if !lo.ContainsBy(active, func(c model.Course) bool { return c.ID == courseID }) {
		return nil, apperror.NotFound("course", courseID)
	}

	e, err := s.enrollments.Enroll(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("service/course: enrolling %s in %s: %w", userID, courseID, err)
	}
	s.invalidate(ctx)
	return e, nil
}

func (s *CourseService) invalidate(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("invalidating course cache failed", slog.String("error", err.Error()))
	}
}
