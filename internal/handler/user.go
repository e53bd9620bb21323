package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/skillverse/internal/auth"
	"github.com/sakif/skillverse/internal/model"
	"github.com/sakif/skillverse/internal/service"
)

// UserHandler serves the learner's own account.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// saveUserRequest is the optional body older clients send along with the
// session. It only fills profile fields the identity provider does not know.
type saveUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ImageURL  string `json:"imageUrl"`
}

type saveUserResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
	Created bool   `json:"created"`
}

// HandleSaveUser syncs the signed-in user.
//
// HTTP: POST /api/saveUser
func (h *UserHandler) HandleSaveUser(w http.ResponseWriter, r *http.Request) {
	subjectID, _ := auth.SubjectIDFromContext(r.Context())

	var body saveUserRequest
	if err := decodeJSON(w, r, &body, true); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	res, err := h.users.SyncUser(r.Context(), subjectID, model.Identity{
		Email:     body.Email,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		AvatarURL: body.ImageURL,
	})
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	msg := "User updated"
	if res.Created {
		msg = "User created"
	}
	writeJSON(w, http.StatusOK, saveUserResponse{Message: msg, UserID: res.UserID, Created: res.Created})
}

// HandleProgress returns the caller's progress, or the default for users
// that were never synced.
//
// HTTP: GET /api/userProgress
func (h *UserHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	subjectID, _ := auth.SubjectIDFromContext(r.Context())

	p, err := h.users.GetProgress(r.Context(), subjectID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleMe returns the caller's stored user row.
//
// HTTP: GET /api/me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	subjectID, _ := auth.SubjectIDFromContext(r.Context())

	u, err := h.users.GetUser(r.Context(), subjectID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
