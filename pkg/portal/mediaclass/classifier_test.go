package mediaclass

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/athenaeum/portal/pkg/portal"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		mimeType string
		want     portal.Category
	}{
		{"jpeg extension", "cover.jpg", "image/jpeg", portal.CategoryImage},
		{"png no mime", "diagram.png", "", portal.CategoryImage},
		{"image mime unknown extension", "upload.bin", "image/webp", portal.CategoryImage},
		{"mp4 video", "lecture.mp4", "video/mp4", portal.CategoryVideo},
		{"video mime only", "stream", "video/webm", portal.CategoryVideo},
		{"mp3 maps to video bucket", "talk.mp3", "audio/mpeg", portal.CategoryVideo},
		{"audio mime only", "recording", "audio/ogg", portal.CategoryVideo},
		{"pdf is raw", "thesis.pdf", "application/pdf", portal.CategoryRaw},
		{"spreadsheet is raw", "grades.xlsx", "", portal.CategoryRaw},
		{"unknown everything", "mystery.xyz", "application/x-unknown", portal.CategoryRaw},
		{"empty inputs", "", "", portal.CategoryRaw},
		{"uppercase extension", "PHOTO.JPG", "", portal.CategoryImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.filename, tt.mimeType))
		})
	}
}

// An image extension with a conflicting non-image MIME type still
// classifies as image: the extension is checked first.
func TestClassify_ExtensionWinsOverMime(t *testing.T) {
	assert.Equal(t, portal.CategoryImage, Classify("photo.png", "application/octet-stream"))
	assert.Equal(t, portal.CategoryImage, Classify("photo.jpg", "video/mp4"))
	assert.Equal(t, portal.CategoryVideo, Classify("clip.mkv", "application/octet-stream"))
}

// Classification never returns anything outside the category set.
func TestClassify_Totality(t *testing.T) {
	inputs := []struct{ filename, mime string }{
		{"a.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"noext", ""},
		{"weird..", "text/"},
		{"trailing.", "/"},
		{"semi.csv", "text/csv"},
	}
	for _, in := range inputs {
		got := Classify(in.filename, in.mime)
		switch got {
		case portal.CategoryImage, portal.CategoryVideo, portal.CategoryRaw:
		default:
			t.Fatalf("unexpected category %q for %q/%q", got, in.filename, in.mime)
		}
	}
}
