package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/skillverse/internal/apperror"
	"github.com/sakif/skillverse/internal/auth"
	"github.com/sakif/skillverse/internal/model"
	"github.com/sakif/skillverse/internal/repository"
)

// SyncResult reports what a user sync did.
type SyncResult struct {
	UserID  string
	Created bool
}

// UserService mirrors signed-in identities into the users table and serves
// their progress.
type UserService struct {
	users    repository.UserRepository
	profiles auth.ProfileFetcher
	logger   *slog.Logger
}

// NewUserService wires the service. profiles may be nil, in which case the
// identity supplied by the client is used as-is.
func NewUserService(users repository.UserRepository, profiles auth.ProfileFetcher, logger *slog.Logger) *UserService {
	return &UserService{users: users, profiles: profiles, logger: logger}
}

// SyncUser creates the user with default progress on first sign-in and
// refreshes email, name and avatar afterwards. Progress is never modified.
//
// The profile comes from the identity provider when a profile fetcher is
// configured; fields it lacks are filled from fallback. Concurrent syncs of
// the same subject converge on one row.
func (s *UserService) SyncUser(ctx context.Context, subjectID string, fallback model.Identity) (*SyncResult, error) {
	if subjectID == "" {
		return nil, apperror.Unauthorized("valid authentication required")
	}

	identity := fallback
	identity.SubjectID = subjectID

	if s.profiles != nil {
		cu, err := s.profiles.GetUser(ctx, subjectID)
		if err != nil {
			return nil, fmt.Errorf("service/user: fetching profile of %s: %w", subjectID, err)
		}
		identity = mergeIdentity(auth.Sanitize(cu), fallback)
		identity.SubjectID = subjectID
	}

	created, err := s.users.Upsert(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("service/user: syncing user %s: %w", subjectID, err)
	}

	s.logger.Info("user synced",
		slog.String("userId", subjectID),
		slog.Bool("created", created),
	)
	return &SyncResult{UserID: subjectID, Created: created}, nil
}

// GetProgress returns the stored progress, or the default for users that
// were never synced.
func (s *UserService) GetProgress(ctx context.Context, subjectID string) (model.Progress, error) {
	p, err := s.users.GetProgress(ctx, subjectID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return model.DefaultProgress(), nil
		}
		return model.Progress{}, fmt.Errorf("service/user: reading progress of %s: %w", subjectID, err)
	}
	return p, nil
}

func (s *UserService) GetUser(ctx context.Context, subjectID string) (*model.User, error) {
	u, err := s.users.GetBySubjectID(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("service/user: fetching user %s: %w", subjectID, err)
	}
	return u, nil
}

// mergeIdentity prefers the provider profile and fills empty fields from the
// client-supplied one.
func mergeIdentity(profile, fallback model.Identity) model.Identity {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return model.Identity{
		SubjectID: profile.SubjectID,
		Email:     pick(profile.Email, fallback.Email),
		FirstName: pick(profile.FirstName, fallback.FirstName),
		LastName:  pick(profile.LastName, fallback.LastName),
		AvatarURL: pick(profile.AvatarURL, fallback.AvatarURL),
	}
}
