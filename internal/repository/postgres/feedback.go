package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/xid"

	"github.com/sakif/skillverse/internal/model"
	"github.com/sakif/skillverse/internal/repository"
)

func (db *DB) CreateFeedback(ctx context.Context, fb *model.Feedback) error {
	fb.ID = xid.New().String()
	fb.CreatedAt = time.Now().UTC()

	_, err := db.Exec(ctx,
		`INSERT INTO feedback (id, user_id, course_id, rating, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		fb.ID, fb.UserID, fb.CourseID, fb.Rating, fb.Comment, fb.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: creating feedback: %w", err)
	}
	return nil
}

func (db *DB) ListFeedback(ctx context.Context, filter repository.FeedbackFilter) ([]model.Feedback, error) {
	limit, offset := filter.Normalize()

	rows, err := db.Query(ctx,
		`SELECT id, user_id, course_id, rating, comment, created_at
		 FROM feedback
		 WHERE ($1 = '' OR course_id = $1)
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		filter.CourseID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing feedback: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Feedback, error) {
		var fb model.Feedback
		err := row.Scan(&fb.ID, &fb.UserID, &fb.CourseID, &fb.Rating, &fb.Comment, &fb.CreatedAt)
		return fb, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning feedback: %w", err)
	}
	if out == nil {
		out = []model.Feedback{}
	}
	return out, nil
}

func (db *DB) CountFeedback(ctx context.Context) (int, error) {
	n, err := db.count(ctx, `SELECT COUNT(*) FROM feedback`)
	if err != nil {
		return 0, fmt.Errorf("postgres: counting feedback: %w", err)
	}
	return n, nil
}
