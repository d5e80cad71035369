package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/athenaeum/portal/pkg/portal/signing"
	"github.com/athenaeum/portal/pkg/portal/storage"
)

// FilesHandler serves stored objects through signed delivery URLs.
type FilesHandler struct {
	store  storage.BlobStore
	signer *signing.Signer
}

func NewFilesHandler(store storage.BlobStore, signer *signing.Signer) *FilesHandler {
	return &FilesHandler{store: store, signer: signer}
}

// Routes returns the routes for file delivery
func (h *FilesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/*", h.Serve)
	return r
}

// Serve validates the URL signature and streams the object. Signature
// checks are skipped when no signing key is configured.
func (h *FilesHandler) Serve(w http.ResponseWriter, r *http.Request) {
	if err := h.signer.ValidateRequest(r); err != nil {
		if errors.Is(err, signing.ErrExpired) {
			writeError(w, r, http.StatusForbidden, "link expired")
			return
		}
		writeError(w, r, http.StatusForbidden, "invalid signature")
		return
	}

	objectKey := chi.URLParam(r, "*")
	if objectKey == "" {
		writeError(w, r, http.StatusNotFound, "file not found")
		return
	}

	meta, err := h.store.GetObjectMeta(r.Context(), objectKey)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "file not found")
		return
	}

	reader, err := h.store.Download(r.Context(), objectKey)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "file not found")
		return
	}
	defer reader.Close()

	if meta.ContentType != "" {
		w.Header().Set("Content-Type", meta.ContentType)
	}
	if meta.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	}

	if _, err := io.Copy(w, reader); err != nil {
		slog.Error("file delivery interrupted", "key", objectKey, "err", err)
	}
}
