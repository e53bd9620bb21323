package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/skillverse/internal/apperror"
	"github.com/sakif/skillverse/internal/model"
)

// Upsert mirrors an identity into the users table.
//
// INSERT ... ON CONFLICT DO NOTHING tells us whether the row is new. When it
// is not, the profile columns are refreshed. Both statements share one
// transaction so a concurrent sign-in cannot observe a half-written row, and
// the progress column is never part of the update.
func (db *DB) Upsert(ctx context.Context, id model.Identity) (bool, error) {
	progress, err := json.Marshal(model.DefaultProgress())
	if err != nil {
		return false, fmt.Errorf("sqlite: encoding default progress: %w", err)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("sqlite: beginning user upsert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (subject_id, email, first_name, last_name, display_name, avatar_url, progress, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(subject_id) DO NOTHING`,
		id.SubjectID, id.Email, id.FirstName, id.LastName, id.DisplayName(), id.AvatarURL, string(progress), now, now,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: inserting user %s: %w", id.SubjectID, err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: inserting user %s: %w", id.SubjectID, err)
	}

	if inserted == 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE users
			 SET email = ?, first_name = ?, last_name = ?, display_name = ?, avatar_url = ?, updated_at = ?
			 WHERE subject_id = ?`,
			id.Email, id.FirstName, id.LastName, id.DisplayName(), id.AvatarURL, now, id.SubjectID,
		)
		if err != nil {
			return false, fmt.Errorf("sqlite: updating user %s: %w", id.SubjectID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("sqlite: committing user %s: %w", id.SubjectID, err)
	}
	return inserted == 1, nil
}

func (db *DB) GetBySubjectID(ctx context.Context, subjectID string) (*model.User, error) {
	var (
		u        model.User
		progress string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT subject_id, email, first_name, last_name, display_name, avatar_url, is_creator, progress, created_at, updated_at
		 FROM users WHERE subject_id = ?`,
		subjectID,
	).Scan(
		&u.SubjectID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.DisplayName,
		&u.AvatarURL,
		&u.IsCreator,
		&progress,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", subjectID)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", subjectID, err)
	}

	if err := json.Unmarshal([]byte(progress), &u.Progress); err != nil {
		return nil, fmt.Errorf("sqlite: decoding progress of user %s: %w", subjectID, err)
	}
	return &u, nil
}

func (db *DB) GetProgress(ctx context.Context, subjectID string) (model.Progress, error) {
	var raw string
	err := db.conn.QueryRowContext(ctx,
		`SELECT progress FROM users WHERE subject_id = ?`, subjectID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Progress{}, apperror.NotFound("user", subjectID)
		}
		return model.Progress{}, fmt.Errorf("sqlite: getting progress of user %s: %w", subjectID, err)
	}

	var p model.Progress
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return model.Progress{}, fmt.Errorf("sqlite: decoding progress of user %s: %w", subjectID, err)
	}
	return p, nil
}

func (db *DB) Count(ctx context.Context) (int, error) {
	n, err := db.count(ctx, `SELECT COUNT(*) FROM users`)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting users: %w", err)
	}
	return n, nil
}
