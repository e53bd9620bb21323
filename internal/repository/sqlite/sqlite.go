// Package sqlite implements the repository interfaces on an embedded SQLite
// database (modernc.org/sqlite, pure Go, no cgo).
//
// It backs local development (DATABASE_DRIVER=sqlite) and the repository and
// service tests. Production runs on the postgres package; both speak the same
// schema so the two can be swapped without touching the service layer.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/skillverse/internal/repository"

	_ "modernc.org/sqlite"
)

var _ repository.Store = (*DB)(nil)

// DB holds the SQLite connection and implements every repository interface.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and applies the schema.
// ":memory:" gives a throwaway database, handy for tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite allows a single writer. One connection also keeps ":memory:"
	// databases alive across calls, since every new connection would get its
	// own empty database.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.Migrate(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Migrate creates the schema. Every statement is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	statements := []struct {
		name string
		sql  string
	}{
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				subject_id   TEXT PRIMARY KEY,
				email        TEXT NOT NULL DEFAULT '',
				first_name   TEXT NOT NULL DEFAULT '',
				last_name    TEXT NOT NULL DEFAULT '',
				display_name TEXT NOT NULL DEFAULT '',
				avatar_url   TEXT NOT NULL DEFAULT '',
				is_creator   BOOLEAN NOT NULL DEFAULT 0,
				progress     TEXT NOT NULL DEFAULT '{"totalLessons":10,"completedLessons":0}',
				created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`},
		{"courses", `
			CREATE TABLE IF NOT EXISTS courses (
				id            TEXT PRIMARY KEY,
				title         TEXT NOT NULL,
				description   TEXT NOT NULL DEFAULT '',
				thumbnail_url TEXT NOT NULL DEFAULT '',
				creator_id    TEXT NOT NULL DEFAULT '',
				status        TEXT NOT NULL DEFAULT 'draft',
				created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`},
		{"courses status index", `CREATE INDEX IF NOT EXISTS idx_courses_status ON courses(status, created_at)`},
		{"enrollments", `
			CREATE TABLE IF NOT EXISTS enrollments (
				id          TEXT PRIMARY KEY,
				user_id     TEXT NOT NULL,
				course_id   TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
				enrolled_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE (user_id, course_id)
			)`},
		{"feedback", `
			CREATE TABLE IF NOT EXISTS feedback (
				id         TEXT PRIMARY KEY,
				user_id    TEXT NOT NULL,
				course_id  TEXT NOT NULL,
				rating     INTEGER CHECK (rating IS NULL OR rating BETWEEN 1 AND 5),
				comment    TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`},
		{"feedback course index", `CREATE INDEX IF NOT EXISTS idx_feedback_course_id ON feedback(course_id)`},
		{"admins", `
			CREATE TABLE IF NOT EXISTS admins (
				id            TEXT PRIMARY KEY,
				username      TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`},
	}

	for _, st := range statements {
		if _, err := db.conn.ExecContext(ctx, st.sql); err != nil {
			return fmt.Errorf("creating %s: %w", st.name, err)
		}
	}
	return nil
}

func (db *DB) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
