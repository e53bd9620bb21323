// Package cloudinary implements media.Uploader with the Cloudinary SDK.
package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/dustin/go-humanize"

	"github.com/sakif/skillverse/internal/apperror"
	"github.com/sakif/skillverse/internal/media"
	"github.com/sakif/skillverse/internal/model"
)

// Config holds the Cloudinary credentials and target folder.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	// Folder is prepended to every public id.
	Folder string
	// Timeout bounds a single upload.
	Timeout time.Duration
}

// uploadAPI is the slice of *uploader.API we call.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

type Uploader struct {
	api    uploadAPI
	config Config
	logger *slog.Logger
}

var _ media.Uploader = (*Uploader)(nil)

func New(cfg Config, logger *slog.Logger) (*Uploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: creating client: %w", err)
	}
	return newWithAPI(&cld.Upload, cfg, logger), nil
}

func newWithAPI(api uploadAPI, cfg Config, logger *slog.Logger) *Uploader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Uploader{api: api, config: cfg, logger: logger}
}

// Upload streams the file to Cloudinary. Both transport errors and errors
// reported inside the upload result are returned as apperror.ErrUpstream.
func (u *Uploader) Upload(ctx context.Context, req media.UploadRequest) (*model.UploadedMedia, error) {
	if req.Body == nil {
		return nil, errors.New("cloudinary: upload body is nil")
	}
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, u.config.Timeout)
	defer cancel()

	params := uploader.UploadParams{
		Folder:           u.config.Folder,
		FilenameOverride: req.Filename,
	}
	res, err := u.api.Upload(ctx, req.Body, params)
	if err != nil {
		return nil, apperror.Upstream("Cloudinary", err)
	}
	if res == nil {
		return nil, apperror.Upstream("Cloudinary", errors.New("empty upload result"))
	}
	if msg := strings.TrimSpace(res.Error.Message); msg != "" {
		return nil, apperror.Upstream("Cloudinary", errors.New(msg))
	}

	u.logger.Info("media uploaded",
		slog.String("publicId", res.PublicID),
		slog.String("size", humanize.Bytes(uint64(res.Bytes))),
		slog.String("format", res.Format),
		slog.Duration("duration", time.Since(start)),
	)

	return &model.UploadedMedia{
		URL:      res.SecureURL,
		PublicID: res.PublicID,
		Bytes:    res.Bytes,
		Format:   res.Format,
	}, nil
}
