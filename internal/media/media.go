// Package media defines the contract for storing user-uploaded files on a
// media CDN.
package media

import (
	"context"
	"io"

	"github.com/sakif/skillverse/internal/model"
)

// MaxUploadBytes is the largest file the upload endpoint accepts.
const MaxUploadBytes = 10 << 20

// UploadRequest is one file to store.
type UploadRequest struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// Uploader stores files and returns where they ended up.
type Uploader interface {
	Upload(ctx context.Context, req UploadRequest) (*model.UploadedMedia, error)
}
