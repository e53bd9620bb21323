package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/skillverse/internal/model"
	"github.com/sakif/skillverse/internal/repository"
)

func (db *DB) CreateFeedback(ctx context.Context, fb *model.Feedback) error {
	fb.ID = xid.New().String()
	fb.CreatedAt = time.Now().UTC()

	var rating sql.NullInt64
	if fb.Rating != nil {
		rating = sql.NullInt64{Int64: int64(*fb.Rating), Valid: true}
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO feedback (id, user_id, course_id, rating, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		fb.ID, fb.UserID, fb.CourseID, rating, fb.Comment, fb.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating feedback: %w", err)
	}
	return nil
}

func (db *DB) ListFeedback(ctx context.Context, filter repository.FeedbackFilter) ([]model.Feedback, error) {
	limit, offset := filter.Normalize()

	query := `SELECT id, user_id, course_id, rating, comment, created_at FROM feedback`
	args := []any{}
	if filter.CourseID != "" {
		query += ` WHERE course_id = ?`
		args = append(args, filter.CourseID)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing feedback: %w", err)
	}
	defer rows.Close()

	out := []model.Feedback{}
	for rows.Next() {
		var (
			fb     model.Feedback
			rating sql.NullInt64
		)
		if err := rows.Scan(&fb.ID, &fb.UserID, &fb.CourseID, &rating, &fb.Comment, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning feedback: %w", err)
		}
		if rating.Valid {
			r := int(rating.Int64)
			fb.Rating = &r
		}
		out = append(out, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating feedback: %w", err)
	}
	return out, nil
}

func (db *DB) CountFeedback(ctx context.Context) (int, error) {
	n, err := db.count(ctx, `SELECT COUNT(*) FROM feedback`)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting feedback: %w", err)
	}
	return n, nil
}
