// Package api exposes the portal over HTTP: auth endpoints, content
// CRUD with multipart uploads, signed file delivery, and the error
// envelope shared by all handlers.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/athenaeum/portal/pkg/portal"
)

// envelope is the uniform error body. Success responses carry the
// resource JSON directly; only failures go through the envelope.
type envelope struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, envelope{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Data:       nil,
	})
}

// writeServiceError maps service errors onto the envelope. Validation
// sentinels become 400, missing content 404, everything else a generic
// 500 with the detail kept server-side.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, portal.ErrContentNotFound):
		writeError(w, r, http.StatusNotFound, "content not found")
	case errors.Is(err, portal.ErrTitleRequired),
		errors.Is(err, portal.ErrDescriptionRequired),
		errors.Is(err, portal.ErrInvalidFormat),
		errors.Is(err, portal.ErrInvalidVisibility),
		errors.Is(err, portal.ErrInvalidStatus):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
