package portal

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for content persistence.
type Repository interface {
	CreateContent(ctx context.Context, content *Content) error
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)
	UpdateContent(ctx context.Context, content *Content) error
	DeleteContent(ctx context.Context, id uuid.UUID) error

	// ListContent returns records newest-created-first. A non-empty
	// section restricts the result to records whose Sections contain it.
	ListContent(ctx context.Context, section string) ([]*Content, error)
}

// Uploader sends one staged file to the hosting backend and returns its
// normalized descriptor. Implementations must remove the staged temp
// file on both success and failure paths.
type Uploader interface {
	Upload(ctx context.Context, file StagedFile) (*FileDescriptor, error)
}
