package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/skillverse/internal/model"
	"github.com/sakif/skillverse/internal/repository"
)

// NewFeedback is the body of a feedback submission.
type NewFeedback struct {
	UserID   string `json:"userId" validate:"notblank"`
	CourseID string `json:"courseId" validate:"notblank"`
	Rating   *int   `json:"rating" validate:"omitempty,min=1,max=5"`
	Feedback string `json:"feedback" validate:"max=5000"`
}

type FeedbackService struct {
	repo      repository.FeedbackRepository
	validator StructValidator
	logger    *slog.Logger
}

func NewFeedbackService(repo repository.FeedbackRepository, validator StructValidator, logger *slog.Logger) *FeedbackService {
	return &FeedbackService{repo: repo, validator: validator, logger: logger}
}

// Submit validates and stores one feedback row.
func (s *FeedbackService) Submit(ctx context.Context, in NewFeedback) (*model.Feedback, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.CourseID = strings.TrimSpace(in.CourseID)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	fb := &model.Feedback{
		UserID:   in.UserID,
		CourseID: in.CourseID,
		Rating:   in.Rating,
		Comment:  in.Feedback,
	}
	if err := s.repo.CreateFeedback(ctx, fb); err != nil {
		return nil, fmt.Errorf("service/feedback: storing feedback: %w", err)
	}

	s.logger.Info("feedback received",
		slog.String("feedbackId", fb.ID),
		slog.String("courseId", fb.CourseID),
	)
	return fb, nil
}

func (s *FeedbackService) List(ctx context.Context, filter repository.FeedbackFilter) ([]model.Feedback, error) {
	rows, err := s.repo.ListFeedback(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service/feedback: listing feedback: %w", err)
	}
	return rows, nil
}
