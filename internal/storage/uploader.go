package storage

import (
	"context"
	"errors"
)

// Uploader stores an image and returns an opaque URL. The verification
// workflow only ever stores and compares these URL strings; it never touches
// image bytes.
type Uploader interface {
	UploadImage(ctx context.Context, folder, filename string, data []byte) (string, error)
}

// UnconfiguredUploader rejects every upload. It stands in when no object
// storage is configured so the rest of the board still serves.
type UnconfiguredUploader struct{}

// UploadImage always fails.
func (UnconfiguredUploader) UploadImage(ctx context.Context, folder, filename string, data []byte) (string, error) {
	return "", errors.New("object storage is not configured")
}
