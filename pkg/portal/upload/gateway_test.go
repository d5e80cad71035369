package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athenaeum/portal/pkg/portal"
	"github.com/athenaeum/portal/pkg/portal/signing"
	"github.com/athenaeum/portal/pkg/portal/storage"
	memorystorage "github.com/athenaeum/portal/pkg/portal/storage/memory"
)

func stageFile(t *testing.T, name, contents string) portal.StagedFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return portal.StagedFile{
		Path:         path,
		OriginalName: name,
		MimeType:     "application/pdf",
		Size:         int64(len(contents)),
	}
}

func newTestGateway(store storage.BlobStore) *Gateway {
	signer := signing.New(signing.WithSecretKey("test-secret-key-at-least-32-bytes!!"))
	return New(store, signer, WithBaseURL("https://portal.example.edu"), WithFolder("library"))
}

func TestUpload_Success(t *testing.T) {
	store := memorystorage.New()
	gw := newTestGateway(store)

	staged := stageFile(t, "annual report.pdf", "pdf bytes")
	fd, err := gw.Upload(context.Background(), staged)
	require.NoError(t, err)
	require.NotNil(t, fd)

	assert.Equal(t, "annual report.pdf", fd.Name)
	assert.Equal(t, "application/pdf", fd.Type)
	assert.Equal(t, portal.CategoryRaw, fd.ResourceType)
	assert.Equal(t, "pdf", fd.Format)
	assert.Equal(t, int64(len("pdf bytes")), fd.Size)
	assert.NotEmpty(t, fd.PublicID)
	assert.True(t, strings.HasPrefix(fd.PublicID, "library/"))
	assert.True(t, strings.HasPrefix(fd.URL, "https://portal.example.edu/api/files/library/"))
	assert.Contains(t, fd.URL, "signature=")
	assert.Contains(t, fd.URL, "expires=")

	// The object is actually in the store under the descriptor's key.
	rc, err := store.Download(context.Background(), fd.PublicID)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))
}

// The staged temp file is removed after a successful upload.
func TestUpload_RemovesTempFileOnSuccess(t *testing.T) {
	gw := newTestGateway(memorystorage.New())

	staged := stageFile(t, "notes.txt", "notes")
	_, err := gw.Upload(context.Background(), staged)
	require.NoError(t, err)

	_, err = os.Stat(staged.Path)
	assert.True(t, os.IsNotExist(err))
}

type failingStore struct {
	*memorystorage.Backend
}

func (f *failingStore) Upload(ctx context.Context, reader io.Reader, params storage.UploadParams) error {
	return errors.New("provider unavailable")
}

// The staged temp file is removed even when the provider rejects the
// upload.
func TestUpload_RemovesTempFileOnFailure(t *testing.T) {
	gw := newTestGateway(&failingStore{memorystorage.New()})

	staged := stageFile(t, "notes.txt", "notes")
	fd, err := gw.Upload(context.Background(), staged)
	assert.Error(t, err)
	assert.Nil(t, fd)

	var uploadErr *portal.UploadError
	assert.ErrorAs(t, err, &uploadErr)

	_, statErr := os.Stat(staged.Path)
	assert.True(t, os.IsNotExist(statErr))
}

// Without a signing key the descriptor falls back to the backend's own
// delivery URL instead of failing the upload.
func TestUpload_FallbackURLWhenSigningDisabled(t *testing.T) {
	store := memorystorage.New()
	gw := New(store, signing.New(), WithFolder("library"))

	staged := stageFile(t, "notes.txt", "notes")
	fd, err := gw.Upload(context.Background(), staged)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(fd.URL, "memory://library/"))
	assert.NotContains(t, fd.URL, "signature=")
}

func TestUpload_ImageDimensions(t *testing.T) {
	// Minimal 1x1 GIF.
	gif := []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\x00\x00\x00\xff\xff\xff!\xf9\x04\x00\x00\x00\x00\x00,\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x02D\x01\x00;")
	path := filepath.Join(t.TempDir(), "pixel.gif")
	require.NoError(t, os.WriteFile(path, gif, 0o644))

	gw := newTestGateway(memorystorage.New())
	fd, err := gw.Upload(context.Background(), portal.StagedFile{
		Path:         path,
		OriginalName: "pixel.gif",
		MimeType:     "image/gif",
		Size:         int64(len(gif)),
	})
	require.NoError(t, err)

	assert.Equal(t, portal.CategoryImage, fd.ResourceType)
	assert.Equal(t, 1, fd.Width)
	assert.Equal(t, 1, fd.Height)
}

func TestObjectKey_UniqueAndSanitized(t *testing.T) {
	gw := newTestGateway(memorystorage.New())

	k1 := gw.objectKey("Annual Report (final).pdf")
	k2 := gw.objectKey("Annual Report (final).pdf")

	assert.NotEqual(t, k1, k2)
	assert.True(t, strings.HasPrefix(k1, "library/"))
	assert.True(t, strings.HasSuffix(k1, ".pdf"))
	assert.NotContains(t, k1, " ")
	assert.NotContains(t, k1, "(")
}
