// Package memory provides an in-memory portal.Repository used in tests
// and local development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"github.com/athenaeum/portal/pkg/portal"
)

// Repository implements portal.Repository using in-memory storage
type Repository struct {
	mu       sync.RWMutex
	contents map[uuid.UUID]*portal.Content
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		contents: make(map[uuid.UUID]*portal.Content),
	}
}

func (r *Repository) CreateContent(ctx context.Context, content *portal.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to avoid external modifications
	contentCopy := cloneContent(content)
	r.contents[content.ID] = contentCopy

	return nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*portal.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	content, exists := r.contents[id]
	if !exists {
		return nil, portal.ErrContentNotFound
	}

	return cloneContent(content), nil
}

func (r *Repository) UpdateContent(ctx context.Context, content *portal.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[content.ID]; !exists {
		return portal.ErrContentNotFound
	}

	r.contents[content.ID] = cloneContent(content)

	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[id]; !exists {
		return portal.ErrContentNotFound
	}

	delete(r.contents, id)
	return nil
}

func (r *Repository) ListContent(ctx context.Context, section string) ([]*portal.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*portal.Content
	for _, content := range r.contents {
		if section != "" && !slices.Contains(content.Sections, section) {
			continue
		}
		results = append(results, cloneContent(content))
	}

	// Newest created first
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	return results, nil
}

// cloneContent deep-copies a record so callers cannot mutate stored
// slices through returned pointers.
func cloneContent(c *portal.Content) *portal.Content {
	contentCopy := *c
	contentCopy.Sections = append([]string(nil), c.Sections...)
	contentCopy.Tags = append([]string(nil), c.Tags...)
	contentCopy.Files = append([]portal.FileDescriptor(nil), c.Files...)
	return &contentCopy
}
