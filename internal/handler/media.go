package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/skillverse/internal/apperror"
	"github.com/sakif/skillverse/internal/auth"
	"github.com/sakif/skillverse/internal/media"
	"github.com/sakif/skillverse/internal/service"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 1 << 20

type MediaHandler struct {
	media  *service.MediaService
	logger *slog.Logger
}

func NewMediaHandler(media *service.MediaService, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{media: media, logger: logger}
}

// HandleUpload stores the multipart field "file".
//
// HTTP: POST /api/upload
func (h *MediaHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	subjectID, _ := auth.SubjectIDFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadBytes+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, h.logger, r, apperror.ValidationFailed("file", "file must be 10 MiB or smaller"))
			return
		}
		writeError(w, h.logger, r, apperror.ValidationFailed("file", "multipart field file is required"))
		return
	}
	defer file.Close()

	uploaded, err := h.media.Upload(r.Context(), subjectID, media.UploadRequest{
		Filename: header.Filename,
		Size:     header.Size,
		Body:     file,
	})
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, uploaded)
}
