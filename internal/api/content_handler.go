package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/athenaeum/portal/internal/auth"
	"github.com/athenaeum/portal/pkg/portal"
)

const (
	maxUploadFiles = 10
	maxFileSize    = 500 << 20 // 500MB per file

	// memory budget for multipart parsing; larger parts spool to disk
	multipartMemory = 32 << 20
)

// allowedExtensions is the upload allow-list: documents, spreadsheets,
// presentations, images, video, and audio.
var allowedExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".txt": true, ".rtf": true,
	".odt": true, ".md": true,
	".xls": true, ".xlsx": true, ".csv": true, ".ods": true,
	".ppt": true, ".pptx": true, ".odp": true,
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".svg": true, ".bmp": true, ".tiff": true,
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true,
	".mp3": true, ".wav": true, ".ogg": true, ".m4a": true, ".flac": true,
}

// ContentHandler handles HTTP requests for content
type ContentHandler struct {
	service   portal.Service
	gate      *auth.Gate
	uploadDir string
}

// NewContentHandler creates a new content handler staging uploads under
// uploadDir.
func NewContentHandler(service portal.Service, gate *auth.Gate, uploadDir string) *ContentHandler {
	return &ContentHandler{
		service:   service,
		gate:      gate,
		uploadDir: uploadDir,
	}
}

// Routes returns the routes for content
func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListContent)
	r.Get("/section/{section}", h.ListBySection)
	r.Get("/{id}", h.GetContent)

	r.Group(func(r chi.Router) {
		r.Use(h.gate.Verifier())
		r.Use(RequireAdmin(h.gate))
		r.Post("/", h.CreateContent)
		r.Put("/{id}", h.UpdateContent)
		r.Delete("/{id}", h.DeleteContent)
	})

	return r
}

// ListContent lists all content, newest first, with authorship stripped.
func (h *ContentHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	contents, err := h.service.ListContent(r.Context(), "")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	render.JSON(w, r, contents)
}

// ListBySection lists content assigned to a single section.
func (h *ContentHandler) ListBySection(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	contents, err := h.service.ListContent(r.Context(), section)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	render.JSON(w, r, contents)
}

// GetContent retrieves a content record by ID
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid content ID")
		return
	}

	content, err := h.service.GetContent(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	render.JSON(w, r, content)
}

// CreateContent creates a content record from a multipart form, staging
// any uploaded files for the upload gateway.
func (h *ContentHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}

	staged, err := h.stageFiles(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user := UserFromContext(r.Context())
	if user == nil {
		discardStaged(staged)
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	req := portal.CreateContentRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Format:      r.FormValue("format"),
		Sections:    portal.DecodeStringList(r.FormValue("sections")),
		Visibility:  r.FormValue("visibility"),
		Status:      r.FormValue("status"),
		Author:      r.FormValue("author"),
		Tags:        portal.DecodeStringList(r.FormValue("tags")),
		OwnerID:     user.ID.String(),
		StagedFiles: staged,
	}

	content, err := h.service.CreateContent(r.Context(), req)
	if err != nil {
		discardStaged(staged)
		writeServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, content)
}

// UpdateContent applies a partial update. Only fields present in the
// form change; uploaded files replace the existing file set wholesale.
func (h *ContentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid content ID")
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}

	staged, err := h.stageFiles(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	req := portal.UpdateContentRequest{StagedFiles: staged}
	form := r.MultipartForm.Value
	if value, ok := formValue(form, "title"); ok {
		req.Title = &value
	}
	if value, ok := formValue(form, "description"); ok {
		req.Description = &value
	}
	if value, ok := formValue(form, "format"); ok {
		req.Format = &value
	}
	if value, ok := formValue(form, "visibility"); ok {
		req.Visibility = &value
	}
	if value, ok := formValue(form, "status"); ok {
		req.Status = &value
	}
	if value, ok := formValue(form, "author"); ok {
		req.Author = &value
	}
	if value, ok := formValue(form, "sections"); ok {
		sections := portal.DecodeStringList(value)
		req.Sections = &sections
	}
	if value, ok := formValue(form, "tags"); ok {
		tags := portal.DecodeStringList(value)
		req.Tags = &tags
	}

	content, err := h.service.UpdateContent(r.Context(), id, req)
	if err != nil {
		discardStaged(staged)
		writeServiceError(w, r, err)
		return
	}
	render.JSON(w, r, content)
}

// DeleteContent removes a content record by ID
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid content ID")
		return
	}

	if err := h.service.DeleteContent(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]bool{"success": true})
}

func formValue(form map[string][]string, key string) (string, bool) {
	values, ok := form[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// stageFiles copies the uploaded parts under the `files` field into the
// staging directory. On any rejection the already-staged files are
// removed before the error is returned.
func (h *ContentHandler) stageFiles(r *http.Request) ([]portal.StagedFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		return nil, nil
	}
	if len(headers) > maxUploadFiles {
		return nil, fmt.Errorf("too many files: %d (limit %d)", len(headers), maxUploadFiles)
	}

	var staged []portal.StagedFile
	for _, header := range headers {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedExtensions[ext] {
			discardStaged(staged)
			return nil, fmt.Errorf("unsupported file type: %s", ext)
		}
		if header.Size > maxFileSize {
			discardStaged(staged)
			return nil, fmt.Errorf("file %s exceeds the 500MB limit", header.Filename)
		}

		path, err := h.stageOne(header)
		if err != nil {
			discardStaged(staged)
			return nil, fmt.Errorf("failed to stage %s", header.Filename)
		}

		staged = append(staged, portal.StagedFile{
			Path:         path,
			OriginalName: filepath.Base(header.Filename),
			MimeType:     header.Header.Get("Content-Type"),
			Size:         header.Size,
		})
	}

	return staged, nil
}

func (h *ContentHandler) stageOne(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// Timestamp prefix keeps concurrent uploads of the same filename apart.
	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(header.Filename))
	path := filepath.Join(h.uploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}

func discardStaged(staged []portal.StagedFile) {
	for _, f := range staged {
		os.Remove(f.Path)
	}
}
