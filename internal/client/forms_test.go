package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/skillverse/internal/apperror"
)

func TestFeedbackForm(t *testing.T) {
	valid := FeedbackInput{UserID: "u1", CourseID: "c1", Rating: 4, Feedback: "Great"}

	t.Run("success calls OnSuccess once", func(t *testing.T) {
		tr := &scriptedTransport{}
		tr.set("/api/submit-feedback", scripted{status: 200, body: `{"success":true}`})
		calls := 0
		f := NewFeedbackForm(tr, func() { calls++ })

		require.NoError(t, f.Submit(context.Background(), valid))
		assert.Equal(t, 1, calls)
		assert.Equal(t, valid, tr.calls[0].body)
	})

	t.Run("rating checked locally", func(t *testing.T) {
		tr := &scriptedTransport{}
		f := NewFeedbackForm(tr, func() { t.Fatal("OnSuccess called") })

		for _, rating := range []int{0, 6, -1} {
			in := valid
			in.Rating = rating
			err := f.Submit(context.Background(), in)
			assert.True(t, errors.Is(err, apperror.ErrValidation))
		}
		assert.Empty(t, tr.calls)
	})

	t.Run("server error surfaces", func(t *testing.T) {
		tr := &scriptedTransport{}
		tr.set("/api/submit-feedback", scripted{status: 500, body: `{"success":false,"error":"internal_error","message":"An internal error occurred"}`})
		f := NewFeedbackForm(tr, func() { t.Fatal("OnSuccess called") })

		err := f.Submit(context.Background(), valid)
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusInternalServerError, se.Status)
		assert.Equal(t, "An internal error occurred", se.Message)
	})
}

type recordingNav struct {
	path  string
	state NavState
	calls int
}

func (n *recordingNav) Navigate(path string, state NavState) {
	n.path, n.state = path, state
	n.calls++
}

type recordingAlert struct{ messages []string }

func (a *recordingAlert) Alert(msg string) { a.messages = append(a.messages, msg) }

func TestAdminLoginForm(t *testing.T) {
	t.Run("200 navigates", func(t *testing.T) {
		tr := &scriptedTransport{}
		tr.set("/api/admin/login", scripted{status: 200, body: `{"message":"Login successful","token":"jwt"}`})
		nav, alert := &recordingNav{}, &recordingAlert{}

		require.NoError(t, NewAdminLoginForm(tr, nav, alert).Submit(context.Background(), "root", "pw"))
		assert.Equal(t, 1, nav.calls)
		assert.Equal(t, AdminDashboardPath, nav.path)
		assert.Equal(t, NavState{FromApp: true, Token: "jwt"}, nav.state)
		assert.Empty(t, alert.messages)
	})

	t.Run("401 alerts with the server message", func(t *testing.T) {
		tr := &scriptedTransport{}
		tr.set("/api/admin/login", scripted{status: 401, body: `{"message":"Invalid username or password"}`})
		nav, alert := &recordingNav{}, &recordingAlert{}

		require.Error(t, NewAdminLoginForm(tr, nav, alert).Submit(context.Background(), "root", "bad"))
		assert.Zero(t, nav.calls)
		assert.Equal(t, []string{"Invalid username or password"}, alert.messages)
	})

	t.Run("other 2xx is not a login", func(t *testing.T) {
		tr := &scriptedTransport{}
		tr.set("/api/admin/login", scripted{status: 204})
		nav, alert := &recordingNav{}, &recordingAlert{}

		require.Error(t, NewAdminLoginForm(tr, nav, alert).Submit(context.Background(), "root", "pw"))
		assert.Zero(t, nav.calls)
		assert.Len(t, alert.messages, 1)
	})

	t.Run("network failure alerts", func(t *testing.T) {
		tr := &scriptedTransport{}
		tr.set("/api/admin/login", scripted{err: errors.New("connection refused")})
		nav, alert := &recordingNav{}, &recordingAlert{}

		require.Error(t, NewAdminLoginForm(tr, nav, alert).Submit(context.Background(), "root", "pw"))
		assert.Zero(t, nav.calls)
		require.Len(t, alert.messages, 1)
		assert.Contains(t, alert.messages[0], "connection refused")
	})
}

func TestQuizResult(t *testing.T) {
	passed := QuizResult(true)
	assert.True(t, passed.Passed)
	assert.True(t, passed.Confetti)
	assert.Equal(t, []QuizAction{ActionContinue, ActionGiveFeedback}, passed.Actions)

	failed := QuizResult(false)
	assert.False(t, failed.Passed)
	assert.False(t, failed.Confetti)
	assert.Equal(t, []QuizAction{ActionRetake}, failed.Actions)
}
