package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/xid"

	"github.com/sakif/skillverse/internal/apperror"
	"github.com/sakif/skillverse/internal/model"
)

func (db *DB) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var a model.Admin
	err := db.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM admins WHERE username = $1`,
		username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("admin", username)
		}
		return nil, fmt.Errorf("postgres: getting admin %s: %w", username, err)
	}
	return &a, nil
}

func (db *DB) SaveAdmin(ctx context.Context, admin *model.Admin) error {
	if admin.ID == "" {
		admin.ID = xid.New().String()
	}
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now().UTC()
	}

	err := db.QueryRow(ctx,
		`INSERT INTO admins (id, username, password_hash, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
		 RETURNING id, created_at`,
		admin.ID, admin.Username, admin.PasswordHash, admin.CreatedAt,
	).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: saving admin %s: %w", admin.Username, err)
	}
	return nil
}
