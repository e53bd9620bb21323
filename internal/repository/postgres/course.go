package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/xid"

	"github.com/sakif/skillverse/internal/model"
)

func (db *DB) Create(ctx context.Context, course *model.Course) error {
	course.ID = xid.New().String()
	course.CreatedAt = time.Now().UTC()
	if course.Status == "" {
		course.Status = model.CourseStatusDraft
	}

	_, err := db.Exec(ctx,
		`INSERT INTO courses (id, title, description, thumbnail_url, creator_id, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		course.ID, course.Title, course.Description, course.ThumbnailURL, course.CreatorID, course.Status, course.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: creating course: %w", err)
	}
	return nil
}

func (db *DB) ListActive(ctx context.Context) ([]model.Course, error) {
	rows, err := db.Query(ctx,
		`SELECT id, title, description, thumbnail_url, creator_id, status, created_at
		 FROM courses WHERE status = $1 ORDER BY created_at DESC`,
		model.CourseStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing active courses: %w", err)
	}

	courses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Course, error) {
		var c model.Course
		err := row.Scan(&c.ID, &c.Title, &c.Description, &c.ThumbnailURL, &c.CreatorID, &c.Status, &c.CreatedAt)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning courses: %w", err)
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return courses, nil
}

func (db *DB) CountActive(ctx context.Context) (int, error) {
	n, err := db.count(ctx, `SELECT COUNT(*) FROM courses WHERE status = $1`, model.CourseStatusActive)
	if err != nil {
		return 0, fmt.Errorf("postgres: counting active courses: %w", err)
	}
	return n, nil
}

// Enroll uses a no-op update on conflict so RETURNING yields the existing row.
func (db *DB) Enroll(ctx context.Context, userID, courseID string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := db.QueryRow(ctx,
		`INSERT INTO enrollments (id, user_id, course_id, enrolled_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, course_id) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING id, user_id, course_id, enrolled_at`,
		xid.New().String(), userID, courseID, time.Now().UTC(),
	).Scan(&e.ID, &e.UserID, &e.CourseID, &e.EnrolledAt)
	if err != nil {
		return nil, fmt.Errorf("postgres: enrolling %s in %s: %w", userID, courseID, err)
	}
	return &e, nil
}

func (db *DB) ListEnrollments(ctx context.Context) ([]model.Enrollment, error) {
	rows, err := db.Query(ctx,
		`SELECT id, user_id, course_id, enrolled_at FROM enrollments ORDER BY enrolled_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing enrollments: %w", err)
	}

	enrollments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Enrollment, error) {
		var e model.Enrollment
		err := row.Scan(&e.ID, &e.UserID, &e.CourseID, &e.EnrolledAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning enrollments: %w", err)
	}
	if enrollments == nil {
		enrollments = []model.Enrollment{}
	}
	return enrollments, nil
}

func (db *DB) CountEnrollments(ctx context.Context) (int, error) {
	n, err := db.count(ctx, `SELECT COUNT(*) FROM enrollments`)
	if err != nil {
		return 0, fmt.Errorf("postgres: counting enrollments: %w", err)
	}
	return n, nil
}
