package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/skillverse/internal/model"
)

func (db *DB) Create(ctx context.Context, course *model.Course) error {
	course.ID = xid.New().String()
	course.CreatedAt = time.Now().UTC()
	if course.Status == "" {
		course.Status = model.CourseStatusDraft
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO courses (id, title, description, thumbnail_url, creator_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		course.ID,
		course.Title,
		course.Description,
		course.ThumbnailURL,
		course.CreatorID,
		course.Status,
		course.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating course: %w", err)
	}
	return nil
}

func (db *DB) ListActive(ctx context.Context) ([]model.Course, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, description, thumbnail_url, creator_id, status, created_at
		 FROM courses
		 WHERE status = ?
		 ORDER BY created_at DESC`,
		model.CourseStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing active courses: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.ThumbnailURL, &c.CreatorID, &c.Status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating courses: %w", err)
	}
	return courses, nil
}

func (db *DB) CountActive(ctx context.Context) (int, error) {
	n, err := db.count(ctx, `SELECT COUNT(*) FROM courses WHERE status = ?`, model.CourseStatusActive)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting active courses: %w", err)
	}
	return n, nil
}

func (db *DB) Enroll(ctx context.Context, userID, courseID string) (*model.Enrollment, error) {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO enrollments (id, user_id, course_id, enrolled_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, course_id) DO NOTHING`,
		xid.New().String(), userID, courseID, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: enrolling %s in %s: %w", userID, courseID, err)
	}

	var e model.Enrollment
	err = db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, course_id, enrolled_at FROM enrollments WHERE user_id = ? AND course_id = ?`,
		userID, courseID,
	).Scan(&e.ID, &e.UserID, &e.CourseID, &e.EnrolledAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("sqlite: enrollment of %s in %s vanished", userID, courseID)
		}
		return nil, fmt.Errorf("sqlite: reading enrollment: %w", err)
	}
	return &e, nil
}

func (db *DB) ListEnrollments(ctx context.Context) ([]model.Enrollment, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, course_id, enrolled_at FROM enrollments ORDER BY enrolled_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []model.Enrollment{}
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(&e.ID, &e.UserID, &e.CourseID, &e.EnrolledAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating enrollments: %w", err)
	}
	return enrollments, nil
}

func (db *DB) CountEnrollments(ctx context.Context) (int, error) {
	n, err := db.count(ctx, `SELECT COUNT(*) FROM enrollments`)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting enrollments: %w", err)
	}
	return n, nil
}
