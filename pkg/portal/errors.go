package portal

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrContentNotFound indicates a content record was not found
	ErrContentNotFound = errors.New("content not found")

	// ErrTitleRequired indicates a create/update with an empty title after trimming
	ErrTitleRequired = errors.New("title is required")

	// ErrDescriptionRequired indicates a create/update with an empty description after trimming
	ErrDescriptionRequired = errors.New("description is required")

	// ErrInvalidFormat indicates a format outside the enumerated set
	ErrInvalidFormat = errors.New("invalid content format")

	// ErrInvalidVisibility indicates a visibility outside the enumerated set
	ErrInvalidVisibility = errors.New("invalid visibility")

	// ErrInvalidStatus indicates a status outside the enumerated set
	ErrInvalidStatus = errors.New("invalid content status")

	// ErrUploadFailed indicates an upload to the hosting backend failed
	ErrUploadFailed = errors.New("upload failed")
)

// ContentError represents an error related to content operations
type ContentError struct {
	ContentID uuid.UUID
	Op        string
	Err       error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("content operation %s failed for content %s: %v", e.Op, e.ContentID, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

// UploadError represents an error uploading one staged file
type UploadError struct {
	FileName string
	Op       string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload operation %s failed for file %s: %v", e.Op, e.FileName, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
