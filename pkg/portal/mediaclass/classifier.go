// Package mediaclass maps uploaded files to the hosting backend's
// delivery categories. Classification is pure and total: every
// (filename, MIME type) pair resolves to exactly one category, with
// unknown inputs falling through to the raw bucket.
package mediaclass

import (
	"path/filepath"
	"strings"

	"github.com/athenaeum/portal/pkg/portal"
)

var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true,
	"webp": true, "svg": true, "bmp": true, "tiff": true,
}

var videoExtensions = map[string]bool{
	"mp4": true, "mov": true, "avi": true, "mkv": true,
	"webm": true, "flv": true, "wmv": true,
}

// Audio has no first-class bucket upstream; it is delivered through the
// video category.
var audioExtensions = map[string]bool{
	"mp3": true, "wav": true, "ogg": true, "m4a": true,
}

// Classify returns the delivery category for a file. Rules run in
// order, first match wins; within a rule the extension is checked
// before the declared MIME type, so an image extension wins over a
// conflicting non-image MIME type.
func Classify(filename, mimeType string) portal.Category {
	ext := normalizeExt(filename)
	mime := strings.ToLower(strings.TrimSpace(mimeType))

	switch {
	case imageExtensions[ext] || strings.HasPrefix(mime, "image/"):
		return portal.CategoryImage
	case videoExtensions[ext] || strings.HasPrefix(mime, "video/"):
		return portal.CategoryVideo
	case audioExtensions[ext] || strings.HasPrefix(mime, "audio/"):
		return portal.CategoryVideo
	default:
		return portal.CategoryRaw
	}
}

func normalizeExt(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
