package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sakif/skillverse/internal/apperror"
	"github.com/sakif/skillverse/internal/auth"
	"github.com/sakif/skillverse/internal/model"
	"github.com/sakif/skillverse/internal/repository/sqlite"
)

// newTestStore returns an empty SQLite store in a temp dir.
func newTestStore(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func assertKind(t *testing.T, err, kind error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, kind), "got %v, want %v", err, kind)
}

// fakeProfiles serves ClerkUsers from a map.
type fakeProfiles struct {
	users map[string]*auth.ClerkUser
	err   error
	calls int
}

func (f *fakeProfiles) GetUser(_ context.Context, id string) (*auth.ClerkUser, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("clerk user", id)
	}
	return u, nil
}

// failingUsers fails every call.
type failingUsers struct{ err error }

func (f failingUsers) Upsert(context.Context, model.Identity) (bool, error) { return false, f.err }
func (f failingUsers) GetBySubjectID(context.Context, string) (*model.User, error) {
	return nil, f.err
}
func (f failingUsers) GetProgress(context.Context, string) (model.Progress, error) {
	return model.Progress{}, f.err
}
func (f failingUsers) Count(context.Context) (int, error) { return 0, f.err }
