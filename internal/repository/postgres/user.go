package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sakif/skillverse/internal/apperror"
	"github.com/sakif/skillverse/internal/model"
)

// Upsert creates the user or refreshes their profile in one statement, so two
// concurrent syncs of the same subject cannot both insert.
//
// Telling the two outcomes apart uses a Postgres detail: every row version
// carries a hidden xmax column naming the transaction that deleted or locked
// it. A row that INSERT just wrote has xmax = 0. When ON CONFLICT takes the
// UPDATE branch, the old version is locked first and the new version comes
// back with a non-zero xmax. RETURNING (xmax = 0) is therefore true exactly
// when the row was created.
//
// The DO UPDATE list leaves progress and created_at alone, so a returning
// user keeps their history and only the profile fields follow Clerk.
func (db *DB) Upsert(ctx context.Context, id model.Identity) (bool, error) {
	now := time.Now().UTC()
	var created bool
	err := db.QueryRow(ctx,
		`INSERT INTO users (subject_id, email, first_name, last_name, display_name, avatar_url, progress, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		 ON CONFLICT (subject_id) DO UPDATE SET
		   email        = EXCLUDED.email,
		   first_name   = EXCLUDED.first_name,
		   last_name    = EXCLUDED.last_name,
		   display_name = EXCLUDED.display_name,
		   avatar_url   = EXCLUDED.avatar_url,
		   updated_at   = EXCLUDED.updated_at
		 RETURNING (xmax = 0)`,
		id.SubjectID, id.Email, id.FirstName, id.LastName, id.DisplayName(), id.AvatarURL,
		model.DefaultProgress(), now,
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("postgres: upserting user %s: %w", id.SubjectID, err)
	}
	return created, nil
}

func (db *DB) GetBySubjectID(ctx context.Context, subjectID string) (*model.User, error) {
	var u model.User
	err := db.QueryRow(ctx,
		`SELECT subject_id, email, first_name, last_name, display_name, avatar_url, is_creator, progress, created_at, updated_at
		 FROM users WHERE subject_id = $1`,
		subjectID,
	).Scan(
		&u.SubjectID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.DisplayName,
		&u.AvatarURL,
		&u.IsCreator,
		&u.Progress,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("user", subjectID)
		}
		return nil, fmt.Errorf("postgres: getting user %s: %w", subjectID, err)
	}
	return &u, nil
}

func (db *DB) GetProgress(ctx context.Context, subjectID string) (model.Progress, error) {
	var p model.Progress
	err := db.QueryRow(ctx, `SELECT progress FROM users WHERE subject_id = $1`, subjectID).Scan(&p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Progress{}, apperror.NotFound("user", subjectID)
		}
		return model.Progress{}, fmt.Errorf("postgres: getting progress of user %s: %w", subjectID, err)
	}
	return p, nil
}

func (db *DB) Count(ctx context.Context) (int, error) {
	n, err := db.count(ctx, `SELECT COUNT(*) FROM users`)
	if err != nil {
		return 0, fmt.Errorf("postgres: counting users: %w", err)
	}
	return n, nil
}
