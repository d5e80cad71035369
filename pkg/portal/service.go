package portal

import (
	"context"

	"github.com/google/uuid"
)

// Service is the content lifecycle API consumed by the HTTP layer.
type Service interface {
	// CreateContent validates and persists a new record, uploading any
	// staged files first. Files that fail upstream are absorbed: the
	// record is created with whichever uploads succeeded, possibly none.
	CreateContent(ctx context.Context, req CreateContentRequest) (*Content, error)

	// GetContent returns a single record or ErrContentNotFound.
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)

	// ListContent returns public views newest-first, optionally filtered
	// by section tag membership.
	ListContent(ctx context.Context, section string) ([]*Content, error)

	// UpdateContent applies a partial update. Staged files, when present,
	// replace the entire file set.
	UpdateContent(ctx context.Context, id uuid.UUID, req UpdateContentRequest) (*Content, error)

	// DeleteContent removes a record outright. Stored provider objects
	// are not cascaded and become orphaned.
	DeleteContent(ctx context.Context, id uuid.UUID) error
}
