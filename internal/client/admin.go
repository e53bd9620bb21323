package client

import (
	"context"
	"errors"
	"net/http"
)

// AdminDashboardPath is where a successful login lands.
const AdminDashboardPath = "/admin/dashboard"

// NavState travels with a navigation. The token is what the dashboard
// actually authenticates with; FromApp only tells the page it was reached
// from the login form.
type NavState struct {
	FromApp bool
	Token   string
}

type Navigator interface {
	Navigate(path string, state NavState)
}

type Alerter interface {
	Alert(message string)
}

type AdminLoginForm struct {
	transport Transport
	nav       Navigator
	alert     Alerter
}

func NewAdminLoginForm(t Transport, nav Navigator, alert Alerter) *AdminLoginForm {
	return &AdminLoginForm{transport: t, nav: nav, alert: alert}
}

type adminLoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Submit navigates to the dashboard only on exactly 200. Anything else shows
// the server's message, or the transport error when there was no response.
func (f *AdminLoginForm) Submit(ctx context.Context, username, password string) error {
	var resp adminLoginResponse
	status, err := f.transport.Do(ctx, http.MethodPost, "/api/admin/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)

	if err == nil && status == http.StatusOK {
		f.nav.Navigate(AdminDashboardPath, NavState{FromApp: true, Token: resp.Token})
		return nil
	}

	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		f.alert.Alert(statusErr.Message)
	case err != nil:
		f.alert.Alert("Login failed: " + err.Error())
	default:
		msg := resp.Message
		if msg == "" {
			msg = http.StatusText(status)
		}
		f.alert.Alert(msg)
		err = &StatusError{Status: status, Message: msg}
	}
	return err
}
