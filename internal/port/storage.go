package port

import (
	"context"
	"io"
)

// UploadInput carries the data needed to store an object.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// UploadOutput holds the result of a successful object upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage abstracts the archive store for uploaded source documents.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
}
