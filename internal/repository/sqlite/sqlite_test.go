package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sakif/skillverse/internal/model"
)

// newTestDB returns a fresh database in a temp dir, closed when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestCourse(t *testing.T, db *DB, title, status string) *model.Course {
	t.Helper()
	c := &model.Course{Title: title, Status: status}
	require.NoError(t, db.Create(context.Background(), c))
	return c
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Migrate(context.Background()))
	require.NoError(t, db.Migrate(context.Background()))
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Ping(context.Background()))
}
