package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/skillverse/internal/apperror"
	"github.com/sakif/skillverse/internal/auth"
	"github.com/sakif/skillverse/internal/model"
	"github.com/sakif/skillverse/internal/repository"
)

// InvalidCredentialsMessage is the single message for every failed login, so
// callers cannot tell a wrong username from a wrong password.
const InvalidCredentialsMessage = "Invalid username or password"

const minAdminPasswordLength = 8

// DashboardCounter supplies the totals shown on the admin dashboard.
type DashboardCounter interface {
	Count(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
	CountEnrollments(ctx context.Context) (int, error)
	CountFeedback(ctx context.Context) (int, error)
}

// LoginResult carries the issued admin session.
type LoginResult struct {
	Admin     *model.Admin
	Token     string
	ExpiresAt time.Time
}

type AdminService struct {
	admins    repository.AdminRepository
	counter   DashboardCounter
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAdminService wires the service. tokens may be nil when no admin secret
// is configured; Login then reports the feature as unavailable.
func NewAdminService(
	admins repository.AdminRepository,
	counter DashboardCounter,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AdminService {
	return &AdminService{
		admins:    admins,
		counter:   counter,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Login checks the credentials against the stored bcrypt hash and issues an
// admin session token.
func (s *AdminService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if s.tokens == nil {
		return nil, apperror.Unavailable("admin login")
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("username", "username and password are required")
	}

	admin, err := s.admins.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.passwords.DummyVerify(password)
			s.logger.Warn("admin login failed", slog.String("username", username), slog.String("reason", "unknown user"))
			return nil, apperror.Unauthorized(InvalidCredentialsMessage)
		}
		return nil, fmt.Errorf("service/admin: loading admin %s: %w", username, err)
	}

	if err := s.passwords.Verify(admin.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("admin login failed", slog.String("username", username), slog.String("reason", "wrong password"))
			return nil, apperror.Unauthorized(InvalidCredentialsMessage)
		}
		return nil, fmt.Errorf("service/admin: verifying password of %s: %w", username, err)
	}

	token, expires, err := s.tokens.Issue(admin.ID, admin.Username)
	if err != nil {
		return nil, fmt.Errorf("service/admin: issuing token for %s: %w", username, err)
	}

	s.logger.Info("admin logged in", slog.String("username", username))
	return &LoginResult{Admin: admin, Token: token, ExpiresAt: expires}, nil
}

// CreateAdmin creates the account or resets its password.
func (s *AdminService) CreateAdmin(ctx context.Context, username, password string) (*model.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(password) < minAdminPasswordLength {
		return nil, apperror.ValidationFailed("password", fmt.Sprintf("password must be at least %d characters", minAdminPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	admin := &model.Admin{Username: username, PasswordHash: hash}
	if err := s.admins.SaveAdmin(ctx, admin); err != nil {
		return nil, fmt.Errorf("service/admin: saving admin %s: %w", username, err)
	}
	s.logger.Info("admin account saved", slog.String("username", username))
	return admin, nil
}

func (s *AdminService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	var (
		stats model.DashboardStats
		err   error
	)
	if stats.Users, err = s.counter.Count(ctx); err != nil {
		return nil, fmt.Errorf("service/admin: counting users: %w", err)
	}
	if stats.ActiveCourses, err = s.counter.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("service/admin: counting courses: %w", err)
	}
	if stats.Enrollments, err = s.counter.CountEnrollments(ctx); err != nil {
		return nil, fmt.Errorf("service/admin: counting enrollments: %w", err)
	}
	if stats.Feedback, err = s.counter.CountFeedback(ctx); err != nil {
		return nil, fmt.Errorf("service/admin: counting feedback: %w", err)
	}
	return &stats, nil
}
