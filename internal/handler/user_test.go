package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/skillverse/internal/handler"
	"github.com/sakif/skillverse/internal/logging"
	"github.com/sakif/skillverse/internal/service"
)

func newUserHandler(t *testing.T) *handler.UserHandler {
	t.Helper()
	store := newTestStore(t)
	return handler.NewUserHandler(service.NewUserService(store, nil, logging.Discard()), logging.Discard())
}

func TestHandleSaveUser(t *testing.T) {
	h := newUserHandler(t)

	t.Run("first sign-in creates the user", func(t *testing.T) {
		req := asUser(jsonRequest(t, http.MethodPost, "/api/saveUser", map[string]string{
			"email":     "ada@example.com",
			"firstName": "Ada",
		}), "user_1")
		rec := httptest.NewRecorder()

		h.HandleSaveUser(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "User created", body["message"])
		assert.Equal(t, "user_1", body["userId"])
		assert.Equal(t, true, body["created"])
	})

	t.Run("second sign-in updates", func(t *testing.T) {
		req := asUser(jsonRequest(t, http.MethodPost, "/api/saveUser", nil), "user_1")
		rec := httptest.NewRecorder()

		h.HandleSaveUser(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "User updated", body["message"])
		assert.Equal(t, false, body["created"])
	})

	t.Run("malformed body", func(t *testing.T) {
		req := asUser(jsonRequest(t, http.MethodPost, "/api/saveUser", "{not json"), "user_2")
		rec := httptest.NewRecorder()

		h.HandleSaveUser(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no subject", func(t *testing.T) {
		rec := httptest.NewRecorder()

		h.HandleSaveUser(rec, jsonRequest(t, http.MethodPost, "/api/saveUser", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandleProgress(t *testing.T) {
	h := newUserHandler(t)

	t.Run("unknown user gets the default", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.HandleProgress(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/userProgress", nil), "ghost"))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"totalLessons":10,"completedLessons":0}`, rec.Body.String())
	})
}

func TestHandleMe(t *testing.T) {
	h := newUserHandler(t)

	rec := httptest.NewRecorder()
	h.HandleMe(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/me", nil), "user_9"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeBody(t, rec)["error"])

	rec = httptest.NewRecorder()
	h.HandleSaveUser(rec, asUser(jsonRequest(t, http.MethodPost, "/api/saveUser", map[string]string{"email": "x@y.z"}), "user_9"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleMe(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/me", nil), "user_9"))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "user_9", body["userId"])
	assert.Equal(t, "x@y.z", body["email"])
}
