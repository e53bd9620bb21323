// Package postgres implements the repository interfaces on PostgreSQL using a
// pgx connection pool. It is the production backend.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sakif/skillverse/internal/repository"
)

var (
	_ repository.Store = (*DB)(nil)
	_ querier          = (*DB)(nil)
)

// querier is the raw SQL surface of DB. Every repository method goes through
// it, so it mirrors the subset of pgxpool.Pool those methods need.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type DB struct {
	pool *pgxpool.Pool
}

// New connects to dsn, sizes the pool to maxConns (0 keeps the pgx default)
// and verifies the connection. The schema is not touched; call Migrate.
func New(ctx context.Context, dsn string, maxConns int32) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

func (db *DB) Close() error {
	db.pool.Close()
	return nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Exec, Query and QueryRow pass straight through to the pool. The repository
// methods and the integration tests run their SQL through them; Migrate uses
// its own transaction.
func (db *DB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return db.pool.Exec(ctx, sql, args...)
}

func (db *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return db.pool.Query(ctx, sql, args...)
}

func (db *DB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return db.pool.QueryRow(ctx, sql, args...)
}

// Migrate creates the schema inside a single transaction.
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
				is_creator   BOOLEAN NOT NULL DEFAULT FALSE,
				progress     JSONB NOT NULL DEFAULT '{"totalLessons":10,"completedLessons":0}',
				created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
			)`},
		{"courses", `
			CREATE TABLE IF NOT EXISTS courses (
				id            TEXT PRIMARY KEY,
				title         TEXT NOT NULL,
				description   TEXT NOT NULL DEFAULT '',
				thumbnail_url TEXT NOT NULL DEFAULT '',
				creator_id    TEXT NOT NULL DEFAULT '',
				status        TEXT NOT NULL DEFAULT 'draft',
				created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
			)`},
		{"courses status index", `CREATE INDEX IF NOT EXISTS idx_courses_status ON courses(status, created_at)`},
		{"enrollments", `
			CREATE TABLE IF NOT EXISTS enrollments (
				id          TEXT PRIMARY KEY,
				user_id     TEXT NOT NULL,
				course_id   TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
				enrolled_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				UNIQUE (user_id, course_id)
			)`},
		{"feedback", `
			CREATE TABLE IF NOT EXISTS feedback (
				id         TEXT PRIMARY KEY,
				user_id    TEXT NOT NULL,
				course_id  TEXT NOT NULL,
				rating     INTEGER CHECK (rating IS NULL OR rating BETWEEN 1 AND 5),
				comment    TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`},
		{"feedback course index", `CREATE INDEX IF NOT EXISTS idx_feedback_course_id ON feedback(course_id)`},
		{"admins", `
			CREATE TABLE IF NOT EXISTS admins (
				id            TEXT PRIMARY KEY,
				username      TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
			)`},
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: beginning migration: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, st := range statements {
		if _, err := tx.Exec(ctx, st.sql); err != nil {
			return fmt.Errorf("postgres: creating %s: %w", st.name, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: committing migration: %w", err)
	}
	return nil
}

func (db *DB) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
