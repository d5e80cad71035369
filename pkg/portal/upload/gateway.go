// Package upload orchestrates the file-upload pipeline: classify the
// staged file, store it on the hosting backend with public delivery,
// mint a signed delivery URL, and clean up the local temp copy. Files
// within one request are processed sequentially; descriptor order
// matches input order.
package upload

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Registered for best-effort dimension probing of staged images.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gosimple/slug"

	"github.com/athenaeum/portal/pkg/portal"
	"github.com/athenaeum/portal/pkg/portal/mediaclass"
	"github.com/athenaeum/portal/pkg/portal/signing"
	"github.com/athenaeum/portal/pkg/portal/storage"
)

// DeliveryPathPrefix is the route the signed delivery URLs point at.
const DeliveryPathPrefix = "/api/files/"

// Gateway sends staged files to the hosting backend and normalizes the
// result into file descriptors.
type Gateway struct {
	store   storage.BlobStore
	signer  *signing.Signer
	baseURL string
	folder  string
}

// Option is a functional option for configuring a Gateway
type Option func(*Gateway)

// WithBaseURL sets the external base URL signed delivery links are
// rooted at (e.g. "https://portal.example.edu").
func WithBaseURL(baseURL string) Option {
	return func(g *Gateway) {
		g.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithFolder sets the destination folder objects are keyed under.
func WithFolder(folder string) Option {
	return func(g *Gateway) {
		g.folder = strings.Trim(folder, "/")
	}
}

// New creates a new upload gateway. The blob store is an explicit
// dependency so tests can substitute a double; there is no ambient
// provider client.
func New(store storage.BlobStore, signer *signing.Signer, opts ...Option) *Gateway {
	g := &Gateway{
		store:  store,
		signer: signer,
		folder: "library",
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Upload sends one staged file to the hosting backend and returns its
// descriptor. The staged temp file is removed on every path, success or
// failure. Provider failures are returned to the caller, which drops
// the file and continues with the rest of the request.
func (g *Gateway) Upload(ctx context.Context, f portal.StagedFile) (*portal.FileDescriptor, error) {
	defer func() {
		if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove staged file", "path", f.Path, "err", err)
		}
	}()

	category := mediaclass.Classify(f.OriginalName, f.MimeType)
	objectKey := g.objectKey(f.OriginalName)

	file, err := os.Open(f.Path)
	if err != nil {
		return nil, &portal.UploadError{FileName: f.OriginalName, Op: "open", Err: err}
	}
	defer file.Close()

	size := f.Size
	if info, err := file.Stat(); err == nil {
		size = info.Size()
	}

	// Dimensions are best-effort metadata; a failed probe leaves them
	// unset.
	var width, height int
	if category == portal.CategoryImage {
		if cfg, _, err := image.DecodeConfig(file); err == nil {
			width, height = cfg.Width, cfg.Height
		}
		if _, err := file.Seek(0, 0); err != nil {
			return nil, &portal.UploadError{FileName: f.OriginalName, Op: "seek", Err: err}
		}
	}

	params := storage.UploadParams{
		ObjectKey: objectKey,
		MimeType:  f.MimeType,
	}
	if err := g.store.Upload(ctx, file, params); err != nil {
		slog.Error("hosting backend rejected upload", "file", f.OriginalName, "key", objectKey, "err", err)
		return nil, &portal.UploadError{FileName: f.OriginalName, Op: "upload", Err: err}
	}

	// A descriptor without a URL is useless to clients; treat the
	// (unlikely) loss of both URL paths as a failed upload.
	url := g.deliveryURL(ctx, objectKey, f.OriginalName)
	if url == "" {
		return nil, &portal.UploadError{FileName: f.OriginalName, Op: "delivery-url", Err: portal.ErrUploadFailed}
	}

	return &portal.FileDescriptor{
		Name:         f.OriginalName,
		Type:         f.MimeType,
		URL:          url,
		PublicID:     objectKey,
		ResourceType: category,
		Format:       normalizeExt(f.OriginalName),
		Size:         size,
		Width:        width,
		Height:       height,
	}, nil
}

// deliveryURL prefers a signed application delivery URL with a 30-day
// window; if signing is unavailable it falls back to the backend's own
// delivery URL.
func (g *Gateway) deliveryURL(ctx context.Context, objectKey, downloadFilename string) string {
	if g.signer != nil {
		signed, err := g.signer.SignURLWithBase(g.baseURL, http.MethodGet, DeliveryPathPrefix+objectKey, signing.DefaultExpiration)
		if err == nil {
			return signed
		}
		slog.Warn("failed to sign delivery URL, falling back to backend URL", "key", objectKey, "err", err)
	}

	url, err := g.store.GetDownloadURL(ctx, objectKey, downloadFilename)
	if err != nil {
		slog.Error("failed to get backend delivery URL", "key", objectKey, "err", err)
		return ""
	}
	return url
}

// objectKey composes a collision-resistant key from the upload time and
// the slugified original name. The staging directory is shared across
// concurrent requests; this composition is the only collision guard.
func (g *Gateway) objectKey(originalName string) string {
	base := strings.TrimSuffix(originalName, filepath.Ext(originalName))
	name := slug.Make(base)
	if name == "" {
		name = "file"
	}

	key := fmt.Sprintf("%d-%s", time.Now().UnixNano(), name)
	if ext := normalizeExt(originalName); ext != "" {
		key += "." + ext
	}
	if g.folder != "" {
		return g.folder + "/" + key
	}
	return key
}

func normalizeExt(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
