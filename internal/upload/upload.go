package upload

import (
	"context"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/bally3399/chord001-monograms/pkg/errors"
)

// MaxFileSize is the largest accepted image in bytes (10 MB).
const MaxFileSize = 10 << 20

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Uploader stores an image and returns the public URL to save on a design.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// Validate checks the content type and size of an image before upload.
func Validate(contentType string, size int64) error {
	if !allowedContentTypes[contentType] {
		return apperrors.InvalidInput(fmt.Sprintf("content type %q is not allowed", contentType))
	}
	if size <= 0 {
		return apperrors.InvalidInput("file is empty")
	}
	if size > MaxFileSize {
		return apperrors.InvalidInput(fmt.Sprintf("file size %d exceeds maximum allowed size of %d bytes", size, MaxFileSize))
	}
	return nil
}

// failed reports an upstream upload failure as 502 UPLOAD_FAILED.
func failed(message string, err error) *apperrors.AppError {
	return &apperrors.AppError{
		Code:    "UPLOAD_FAILED",
		Message: message,
		Status:  http.StatusBadGateway,
		Err:     fmt.Errorf("%w: %w", apperrors.ErrServiceUnavail, err),
	}
}
