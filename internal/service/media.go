package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/sakif/skillverse/internal/apperror"
	"github.com/sakif/skillverse/internal/media"
	"github.com/sakif/skillverse/internal/model"
)

type MediaService struct {
	uploader media.Uploader
	logger   *slog.Logger
}

// NewMediaService wires the service. A nil uploader disables uploads.
func NewMediaService(uploader media.Uploader, logger *slog.Logger) *MediaService {
	return &MediaService{uploader: uploader, logger: logger}
}

func (s *MediaService) Upload(ctx context.Context, subjectID string, req media.UploadRequest) (*model.UploadedMedia, error) {
	if s.uploader == nil {
		return nil, apperror.Unavailable("media upload")
	}
	if req.Size <= 0 {
		return nil, apperror.ValidationFailed("file", "file is empty")
	}
	if req.Size > media.MaxUploadBytes {
		return nil, apperror.ValidationFailed("file",
			fmt.Sprintf("file must be %s or smaller", humanize.IBytes(media.MaxUploadBytes)))
	}

	out, err := s.uploader.Upload(ctx, req)
	if err != nil {
		s.logger.Error("media upload failed",
			slog.String("userId", subjectID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return out, nil
}
