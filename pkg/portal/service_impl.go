package portal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	uploader   Uploader
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithUploader sets the upload gateway for the service
func WithUploader(up Uploader) Option {
	return func(s *service) {
		s.uploader = up
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}

	return s, nil
}

func (s *service) CreateContent(ctx context.Context, req CreateContentRequest) (*Content, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	format, err := ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}
	visibility, err := ParseVisibility(req.Visibility)
	if err != nil {
		return nil, err
	}
	status, err := ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	ownerID := uuid.Nil
	if req.OwnerID != "" {
		ownerID, err = uuid.Parse(req.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("invalid owner id: %w", err)
		}
	}

	files := s.uploadAll(ctx, req.StagedFiles)

	now := time.Now().UTC()
	content := &Content{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Format:      format,
		Sections:    trimStringList(req.Sections),
		Visibility:  visibility,
		Status:      status,
		Author:      strings.TrimSpace(req.Author),
		Tags:        trimStringList(req.Tags),
		OwnerID:     ownerID,
		Files:       files,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repository.CreateContent(ctx, content); err != nil {
		return nil, &ContentError{ContentID: content.ID, Op: "create", Err: err}
	}

	return content, nil
}

func (s *service) GetContent(ctx context.Context, id uuid.UUID) (*Content, error) {
	return s.repository.GetContent(ctx, id)
}

func (s *service) ListContent(ctx context.Context, section string) ([]*Content, error) {
	contents, err := s.repository.ListContent(ctx, section)
	if err != nil {
		return nil, err
	}
	views := make([]*Content, len(contents))
	for i, c := range contents {
		views[i] = c.PublicView()
	}
	return views, nil
}

func (s *service) UpdateContent(ctx context.Context, id uuid.UUID, req UpdateContentRequest) (*Content, error) {
	content, err := s.repository.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		content.Title = title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, ErrDescriptionRequired
		}
		content.Description = description
	}
	if req.Format != nil {
		format, err := ParseFormat(*req.Format)
		if err != nil {
			return nil, err
		}
		content.Format = format
	}
	if req.Visibility != nil {
		visibility, err := ParseVisibility(*req.Visibility)
		if err != nil {
			return nil, err
		}
		content.Visibility = visibility
	}
	if req.Status != nil {
		status, err := ParseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		content.Status = status
	}
	if req.Author != nil {
		content.Author = strings.TrimSpace(*req.Author)
	}
	if req.Sections != nil {
		content.Sections = trimStringList(*req.Sections)
	}
	if req.Tags != nil {
		content.Tags = trimStringList(*req.Tags)
	}

	// Staged files replace the whole set. Objects behind the previous
	// descriptors stay on the hosting backend; there is no cascade.
	if len(req.StagedFiles) > 0 {
		content.Files = s.uploadAll(ctx, req.StagedFiles)
	}

	content.UpdatedAt = time.Now().UTC()

	if err := s.repository.UpdateContent(ctx, content); err != nil {
		return nil, &ContentError{ContentID: id, Op: "update", Err: err}
	}

	return content, nil
}

func (s *service) DeleteContent(ctx context.Context, id uuid.UUID) error {
	return s.repository.DeleteContent(ctx, id)
}

// uploadAll sends staged files to the hosting backend one at a time.
// A failed file is dropped from the result; relative order of successes
// matches input order. With no uploader configured every file is
// dropped, never an error.
func (s *service) uploadAll(ctx context.Context, staged []StagedFile) []FileDescriptor {
	files := make([]FileDescriptor, 0, len(staged))
	for _, sf := range staged {
		if s.uploader == nil {
			slog.Warn("no uploader configured, dropping staged file", "file", sf.OriginalName)
			continue
		}
		fd, err := s.uploader.Upload(ctx, sf)
		if err != nil || fd == nil {
			slog.Error("file upload failed, continuing without it", "file", sf.OriginalName, "err", err)
			continue
		}
		files = append(files, *fd)
	}
	return files
}
