package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/skillverse/internal/apperror"
	"github.com/sakif/skillverse/internal/model"
)

func (db *DB) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var a model.Admin
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM admins WHERE username = ?`,
		username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("admin", username)
		}
		return nil, fmt.Errorf("sqlite: getting admin %s: %w", username, err)
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

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO admins (id, username, password_hash, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET password_hash = excluded.password_hash`,
		admin.ID, admin.Username, admin.PasswordHash, admin.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving admin %s: %w", admin.Username, err)
	}

	// An existing admin keeps its id and creation time.
	err = db.conn.QueryRowContext(ctx,
		`SELECT id, created_at FROM admins WHERE username = ?`, admin.Username,
	).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		return fmt.Errorf("sqlite: reading admin %s: %w", admin.Username, err)
	}
	return nil
}
