package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader archives debate transcripts and serves their public URLs.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// NoopUploader is used when object storage is not configured. Uploads
// succeed without storing anything, so transcript archiving degrades
// gracefully in local development.
type NoopUploader struct{}

func (NoopUploader) Upload(_ context.Context, key string, _ string, _ io.Reader) (*UploadResult, error) {
	return &UploadResult{Key: key}, nil
}

func (NoopUploader) Delete(context.Context, string) error { return nil }

func (NoopUploader) GetPublicURL(string) string { return "" }
