package portal

import "fmt"

// ParseFormat validates a client-supplied format string against the
// enumerated set. An empty value falls back to FormatArticle; anything
// outside the set is rejected on both create and update paths.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatArticle, nil
	}
	switch Format(s) {
	case FormatArticle, FormatPDF, FormatReport, FormatGuide, FormatCollection, FormatEventNotice:
		return Format(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
}

// ParseVisibility validates a client-supplied visibility string. An
// empty value falls back to VisibilityPublic.
func ParseVisibility(s string) (Visibility, error) {
	if s == "" {
		return VisibilityPublic, nil
	}
	switch Visibility(s) {
	case VisibilityPublic, VisibilityMembers, VisibilityInternal:
		return Visibility(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidVisibility, s)
	}
}

// ParseStatus validates a client-supplied status string. An empty value
// falls back to StatusDraft.
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return StatusDraft, nil
	}
	switch Status(s) {
	case StatusDraft, StatusScheduled, StatusPublished:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}
