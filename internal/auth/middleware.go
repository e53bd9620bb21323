package auth

import (
	"context"
	"net/http"
	"strings"
)

const (
	// SessionCookieName is where Clerk's browser SDK keeps the session JWT.
	SessionCookieName = "__session"
	// AdminCookieName carries the admin session token issued at login.
	AdminCookieName = "admin_token"
)

// contextKey is unexported so no other package can read or shadow our values.
type contextKey string

const (
	subjectIDKey contextKey = "subjectID"
	adminKey     contextKey = "admin"
)

// RequireUser rejects requests without a valid learner session and stores the
// subject id in the request context. A nil verifier means sign-in is not
// configured and every protected route answers 503.
func RequireUser(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				writeAuthError(w, http.StatusServiceUnavailable, "unavailable", "sign-in is not configured on this server")
				return
			}

			token := tokenFromRequest(r, SessionCookieName)
			if token == "" {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "valid authentication required")
				return
			}
			subjectID, err := verifier.Verify(token)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "valid authentication required")
				return
			}

			ctx := WithSubjectID(r.Context(), subjectID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin accepts only admin session tokens issued by tokens, read from
// the admin cookie or a bearer header.
func RequireAdmin(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokens == nil {
				writeAuthError(w, http.StatusServiceUnavailable, "unavailable", "admin access is not configured on this server")
				return
			}

			token := tokenFromRequest(r, AdminCookieName)
			if token == "" {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "admin session required")
				return
			}
			claims, err := tokens.Validate(token)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "admin session required")
				return
			}

			ctx := context.WithValue(r.Context(), adminKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSubjectID returns ctx carrying the learner's subject id. Handler tests
// use it to skip the middleware.
func WithSubjectID(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, subjectIDKey, subjectID)
}

// SubjectIDFromContext returns ("", false) for anonymous requests.
func SubjectIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(subjectIDKey).(string)
	return id, ok && id != ""
}

func AdminFromContext(ctx context.Context) (*AdminClaims, bool) {
	c, ok := ctx.Value(adminKey).(*AdminClaims)
	return c, ok && c != nil
}

// tokenFromRequest prefers the Authorization header and falls back to the
// named cookie.
func tokenFromRequest(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + code + `","message":"` + message + `"}`))
}
