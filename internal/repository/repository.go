// Package repository declares the storage interfaces used by the service layer.
// Implementations live in the postgres and sqlite subpackages.
package repository

import (
	"context"

	"github.com/sakif/skillverse/internal/model"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type ListOptions struct {
	Limit  int
	Offset int
}

// Normalize clamps the page size to (0, MaxListLimit] and the offset to >= 0.
func (o ListOptions) Normalize() (limit, offset int) {
	limit = o.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset = o.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

type UserRepository interface {
	// Upsert inserts the user with the default progress when no row exists for
	// its subject id, otherwise refreshes the profile fields only. It reports
	// whether a row was created. The statement is atomic: concurrent upserts
	// for the same subject id converge on a single row.
	Upsert(ctx context.Context, id model.Identity) (created bool, err error)
	GetBySubjectID(ctx context.Context, subjectID string) (*model.User, error)
	// GetProgress returns apperror.ErrNotFound when the user has no row.
	GetProgress(ctx context.Context, subjectID string) (model.Progress, error)
	Count(ctx context.Context) (int, error)
}

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	ListActive(ctx context.Context) ([]model.Course, error)
	CountActive(ctx context.Context) (int, error)
}

type EnrollmentRepository interface {
	// Enroll is idempotent; an existing enrollment is returned unchanged.
	Enroll(ctx context.Context, userID, courseID string) (*model.Enrollment, error)
	ListEnrollments(ctx context.Context) ([]model.Enrollment, error)
	CountEnrollments(ctx context.Context) (int, error)
}

type FeedbackFilter struct {
	CourseID string
	ListOptions
}

type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, fb *model.Feedback) error
	ListFeedback(ctx context.Context, filter FeedbackFilter) ([]model.Feedback, error)
	CountFeedback(ctx context.Context) (int, error)
}

type AdminRepository interface {
	GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error)
	// SaveAdmin creates the admin or replaces the password of an existing one.
	SaveAdmin(ctx context.Context, admin *model.Admin) error
}

// Store bundles every repository plus lifecycle methods; both the postgres
// and sqlite backends satisfy it.
type Store interface {
	UserRepository
	CourseRepository
	EnrollmentRepository
	FeedbackRepository
	AdminRepository

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
