package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athenaeum/portal/pkg/portal"
)

func newContent(title string, sections []string, createdAt time.Time) *portal.Content {
	return &portal.Content{
		ID:          uuid.New(),
		Title:       title,
		Description: "description",
		Format:      portal.FormatArticle,
		Sections:    sections,
		Visibility:  portal.VisibilityPublic,
		Status:      portal.StatusPublished,
		Files:       []portal.FileDescriptor{},
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := New()
	ctx := context.Background()

	content := newContent("Library Hours", []string{"news"}, time.Now())
	require.NoError(t, repo.CreateContent(ctx, content))

	got, err := repo.GetContent(ctx, content.ID)
	require.NoError(t, err)
	assert.Equal(t, content.Title, got.Title)
	assert.Equal(t, content.Sections, got.Sections)
}

func TestRepository_GetNotFound(t *testing.T) {
	repo := New()

	_, err := repo.GetContent(context.Background(), uuid.New())
	assert.ErrorIs(t, err, portal.ErrContentNotFound)
}

func TestRepository_StoredCopyIsIsolated(t *testing.T) {
	repo := New()
	ctx := context.Background()

	content := newContent("Original", []string{"news"}, time.Now())
	require.NoError(t, repo.CreateContent(ctx, content))

	// Mutating the caller's copy must not affect the stored record.
	content.Title = "Mutated"
	content.Sections[0] = "mutated"

	got, err := repo.GetContent(ctx, content.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Title)
	assert.Equal(t, []string{"news"}, got.Sections)
}

func TestRepository_ListNewestFirst(t *testing.T) {
	repo := New()
	ctx := context.Background()

	base := time.Now()
	oldest := newContent("Oldest", nil, base.Add(-2*time.Hour))
	middle := newContent("Middle", nil, base.Add(-time.Hour))
	newest := newContent("Newest", nil, base)

	for _, c := range []*portal.Content{middle, oldest, newest} {
		require.NoError(t, repo.CreateContent(ctx, c))
	}

	results, err := repo.ListContent(ctx, "")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "Newest", results[0].Title)
	assert.Equal(t, "Middle", results[1].Title)
	assert.Equal(t, "Oldest", results[2].Title)
}

func TestRepository_ListFiltersBySection(t *testing.T) {
	repo := New()
	ctx := context.Background()

	base := time.Now()
	events := newContent("Events", []string{"events", "news"}, base)
	research := newContent("Research", []string{"research"}, base.Add(-time.Hour))
	both := newContent("Both", []string{"research", "events"}, base.Add(-2*time.Hour))

	for _, c := range []*portal.Content{events, research, both} {
		require.NoError(t, repo.CreateContent(ctx, c))
	}

	results, err := repo.ListContent(ctx, "research")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Research", results[0].Title)
	assert.Equal(t, "Both", results[1].Title)
}

func TestRepository_UpdateNotFound(t *testing.T) {
	repo := New()

	err := repo.UpdateContent(context.Background(), newContent("Ghost", nil, time.Now()))
	assert.ErrorIs(t, err, portal.ErrContentNotFound)
}

func TestRepository_DeleteIsIdempotentlyNotFound(t *testing.T) {
	repo := New()
	ctx := context.Background()

	content := newContent("Doomed", nil, time.Now())
	require.NoError(t, repo.CreateContent(ctx, content))

	require.NoError(t, repo.DeleteContent(ctx, content.ID))
	assert.ErrorIs(t, repo.DeleteContent(ctx, content.ID), portal.ErrContentNotFound)

	_, err := repo.GetContent(ctx, content.ID)
	assert.ErrorIs(t, err, portal.ErrContentNotFound)
}
