// Package storage defines the blob storage interface implemented by the
// hosting backends.
package storage

import (
	"context"
	"io"
	"time"
)

// UploadParams contains parameters for storing an object
type UploadParams struct {
	ObjectKey string
	MimeType  string
}

// ObjectMeta contains metadata about a stored object
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
}

// BlobStore defines the interface for hosting backends
type BlobStore interface {
	// Upload stores an object with the given parameters
	Upload(ctx context.Context, reader io.Reader, params UploadParams) error

	// Download streams an object's bytes
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete removes an object
	Delete(ctx context.Context, objectKey string) error

	// GetObjectMeta retrieves metadata for an object
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)

	// GetDownloadURL returns the backend's own delivery URL for an
	// object. Used as the fallback when application-level URL signing is
	// unavailable.
	GetDownloadURL(ctx context.Context, objectKey string, downloadFilename string) (string, error)
}
