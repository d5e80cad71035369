package portal

import (
    "time"

    "github.com/google/uuid"
)

// Format is the domain type for publishable content kinds.
type Format string

// Format constants (typed).
const (
    FormatArticle     Format = "Article"
    FormatPDF         Format = "PDF"
    FormatReport      Format = "Report"
    FormatGuide       Format = "Guide"
    FormatCollection  Format = "Collection"
    FormatEventNotice Format = "Event Notice"
)

// Visibility is the domain type for who may read a content record.
type Visibility string

// Visibility constants (typed).
const (
    VisibilityPublic   Visibility = "Public"
    VisibilityMembers  Visibility = "Members"
    VisibilityInternal Visibility = "Internal"
)

// Status is the domain type for content lifecycle states.
type Status string

// Status constants (typed).
const (
    StatusDraft     Status = "Draft"
    StatusScheduled Status = "Scheduled"
    StatusPublished Status = "Published"
)

// Category is the delivery bucket a stored file is served from. The
// hosting backend has no first-class audio bucket; audio files are
// delivered through the video category.
type Category string

// Category constants (typed).
const (
    CategoryImage Category = "image"
    CategoryVideo Category = "video"
    CategoryRaw   Category = "raw"
)

// FileDescriptor is the normalized metadata for one stored binary
// attached to a content record. URL is always present and resolvable by
// an unauthenticated client; every other field is best-effort. PublicID
// and ResourceType are absent on legacy records. Descriptors are never
// mutated after creation; a record's file set is only ever replaced
// wholesale.
type FileDescriptor struct {
    Name         string   `json:"name"`
    Type         string   `json:"type"`
    URL          string   `json:"url"`
    PublicID     string   `json:"publicId,omitempty"`
    ResourceType Category `json:"resourceType,omitempty"`
    Format       string   `json:"format,omitempty"`
    Size         int64    `json:"size,omitempty"`
    Width        int      `json:"width,omitempty"`
    Height       int      `json:"height,omitempty"`
}

// Content represents one publishable unit: an article, report, book,
// PDF, photo set, or event notice.
type Content struct {
    ID          uuid.UUID        `json:"id"`
    Title       string           `json:"title"`
    Description string           `json:"description"`
    Format      Format           `json:"format"`
    Sections    []string         `json:"sections"`
    Visibility  Visibility       `json:"visibility"`
    Status      Status           `json:"status"`
    Author      string           `json:"author,omitempty"`
    Tags        []string         `json:"tags,omitempty"`
    OwnerID     uuid.UUID        `json:"ownerId,omitempty"`
    Files       []FileDescriptor `json:"files"`
    CreatedAt   time.Time        `json:"createdAt"`
    UpdatedAt   time.Time        `json:"updatedAt"`
}

// PublicView returns a copy with internal fields stripped for
// unauthenticated list reads.
func (c *Content) PublicView() *Content {
    view := *c
    view.Author = ""
    view.OwnerID = uuid.Nil
    return &view
}

// StagedFile describes a request-local temp file awaiting upload to the
// hosting backend. Path points into the shared staging directory; the
// gateway removes it after any upload attempt.
type StagedFile struct {
    Path         string
    OriginalName string
    MimeType     string
    Size         int64
}
