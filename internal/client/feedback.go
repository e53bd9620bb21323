package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/sakif/skillverse/internal/apperror"
)

type FeedbackInput struct {
	UserID   string `json:"userId"`
	CourseID string `json:"courseId"`
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

// FeedbackForm posts course feedback. OnSuccess, when set, runs once per
// accepted submission.
type FeedbackForm struct {
	transport Transport
	OnSuccess func()
}

func NewFeedbackForm(t Transport, onSuccess func()) *FeedbackForm {
	return &FeedbackForm{transport: t, OnSuccess: onSuccess}
}

// Submit checks the rating locally, then posts. Any non-2xx answer comes back
// as a *StatusError and OnSuccess is not called.
func (f *FeedbackForm) Submit(ctx context.Context, in FeedbackInput) error {
	if in.Rating < 1 || in.Rating > 5 {
		return apperror.ValidationFailed("rating", "Please select a rating between 1 and 5")
	}
	in.Feedback = strings.TrimSpace(in.Feedback)

	var resp struct {
		Success bool `json:"success"`
	}
	if _, err := f.transport.Do(ctx, http.MethodPost, "/api/submit-feedback", in, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &StatusError{Status: http.StatusOK, Message: "feedback was not accepted"}
	}

	if f.OnSuccess != nil {
		f.OnSuccess()
	}
	return nil
}
