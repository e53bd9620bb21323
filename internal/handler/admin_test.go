package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/skillverse/internal/auth"
	"github.com/sakif/skillverse/internal/handler"
	"github.com/sakif/skillverse/internal/logging"
	"github.com/sakif/skillverse/internal/service"
)

func newAdminHandler(t *testing.T) (*handler.AdminHandler, *auth.TokenService) {
	t.Helper()
	store := newTestStore(t)
	tokens, err := auth.NewTokenService("handler-test-secret-0123456789", time.Hour)
	require.NoError(t, err)

	svc := service.NewAdminService(store, store, tokens, auth.NewPasswordServiceForTest(4), logging.Discard())
	_, err = svc.CreateAdmin(context.Background(), "root", "correct-horse")
	require.NoError(t, err)

	return handler.NewAdminHandler(svc, false, logging.Discard()), tokens
}

func TestHandleLogin(t *testing.T) {
	h, tokens := newAdminHandler(t)

	t.Run("success sets the cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.HandleLogin(rec, jsonRequest(t, http.MethodPost, "/api/admin/login", map[string]string{
			"username": "root",
			"password": "correct-horse",
		}))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Login successful", body["message"])
		token, _ := body["token"].(string)
		require.NotEmpty(t, token)

		_, err := tokens.Validate(token)
		require.NoError(t, err)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, auth.AdminCookieName, cookies[0].Name)
		assert.Equal(t, token, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.HandleLogin(rec, jsonRequest(t, http.MethodPost, "/api/admin/login", map[string]string{
			"username": "root",
			"password": "nope-nope",
		}))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"Invalid username or password"}`, rec.Body.String())
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("unknown user gets the same message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.HandleLogin(rec, jsonRequest(t, http.MethodPost, "/api/admin/login", map[string]string{
			"username": "ghost",
			"password": "correct-horse",
		}))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"Invalid username or password"}`, rec.Body.String())
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.HandleLogin(rec, jsonRequest(t, http.MethodPost, "/api/admin/login", "username=root"))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, decodeBody(t, rec)["message"])
	})
}

func TestHandleLogin_Disabled(t *testing.T) {
	store := newTestStore(t)
	svc := service.NewAdminService(store, store, nil, auth.NewPasswordServiceForTest(4), logging.Discard())
	h := handler.NewAdminHandler(svc, false, logging.Discard())

	rec := httptest.NewRecorder()
	h.HandleLogin(rec, jsonRequest(t, http.MethodPost, "/api/admin/login", map[string]string{
		"username": "root", "password": "correct-horse",
	}))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleLogout(t *testing.T) {
	h, _ := newAdminHandler(t)

	rec := httptest.NewRecorder()
	h.HandleLogout(rec, httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.AdminCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestHandleDashboard(t *testing.T) {
	h, tokens := newAdminHandler(t)

	rec := httptest.NewRecorder()
	h.HandleDashboard(rec, httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"users":0,"activeCourses":0,"enrollments":0,"feedback":0}`, rec.Body.String())

	t.Run("behind RequireAdmin", func(t *testing.T) {
		protected := auth.RequireAdmin(tokens)(http.HandlerFunc(h.HandleDashboard))

		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		token, _, err := tokens.Issue("admin-1", "root")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: auth.AdminCookieName, Value: token})
		rec = httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
