package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/skillverse/internal/apperror"
	"github.com/sakif/skillverse/internal/auth"
	"github.com/sakif/skillverse/internal/service"
)

// adminCookiePath scopes the session cookie to the admin API.
const adminCookiePath = "/api/admin"

type AdminHandler struct {
	admins       *service.AdminService
	secureCookie bool
	logger       *slog.Logger
}

// NewAdminHandler builds the admin handler. secureCookie sets the Secure flag
// on the session cookie and should be on whenever the site is served over TLS.
func NewAdminHandler(admins *service.AdminService, secureCookie bool, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{admins: admins, secureCookie: secureCookie, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

// HandleLogin checks credentials and issues the admin session token, both in
// the body and as an HttpOnly cookie. Errors use the {message} body the login
// page shows in its alert.
//
// HTTP: POST /api/admin/login
func (h *AdminHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := decodeJSON(w, r, &body, false); err != nil {
		writeJSON(w, http.StatusBadRequest, loginResponse{Message: err.Error()})
		return
	}

	res, err := h.admins.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		status, _, message, _ := errorStatus(err)
		if status >= http.StatusInternalServerError && !errors.Is(err, apperror.ErrUnavailable) {
			h.logger.Error("admin login failed", slog.String("error", err.Error()))
		}
		writeJSON(w, status, loginResponse{Message: message})
		return
	}

	// The same JWT goes out twice. The body copy is for API clients, which
	// send it back as a Bearer header. The browser dashboard uses
	// the cookie: HttpOnly keeps it out of reach of page scripts, SameSite
	// Strict stops other sites from riding on it, and the /api/admin path
	// means it is never sent with the public API or the SPA assets.
	// RequireAdmin accepts either form.
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AdminCookieName,
		Value:    res.Token,
		Path:     adminCookiePath,
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, loginResponse{
		Message:   "Login successful",
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	})
}

// HandleLogout expires the session cookie. Tokens are stateless, so a copy
// held elsewhere stays valid until it expires.
//
// HTTP: POST /api/admin/logout
func (h *AdminHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AdminCookieName,
		Value:    "",
		Path:     adminCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// HandleDashboard returns the headline counts.
//
// HTTP: GET /api/admin/dashboard
func (h *AdminHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admins.Dashboard(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
