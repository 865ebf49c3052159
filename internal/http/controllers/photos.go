package controllers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	httperr "github.com/dropDatabas3/rescuetrack/internal/http/errors"
	"github.com/dropDatabas3/rescuetrack/internal/http/middlewares"
	svc "github.com/dropDatabas3/rescuetrack/internal/http/services/photos"
)

// maxUploadBytes acota el multipart completo (archivo + headers).
const maxUploadBytes = 6 << 20

// PhotosController maneja la subida y el borrado de fotos.
type PhotosController struct {
	service svc.Service
}

// NewPhotosController crea el controller de fotos.
func NewPhotosController(service svc.Service) *PhotosController {
	return &PhotosController{service: service}
}

// Upload maneja POST /v1/cases/{id}/photos (multipart, campo "photo").
func (c *PhotosController) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httperr.WriteError(w, httperr.ErrPayloadTooLarge)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		httperr.WriteError(w, httperr.ErrValidation.WithDetail("missing photo file field"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httperr.WriteError(w, httperr.ErrInternal)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	resp, err := c.service.Attach(r.Context(), middlewares.GetActor(r.Context()),
		chi.URLParam(r, "id"), contentType, data)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Delete maneja DELETE /v1/photos/{photoId}.
func (c *PhotosController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.service.Delete(r.Context(), middlewares.GetActor(r.Context()), chi.URLParam(r, "photoId"))
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *PhotosController) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch err {
	case svc.ErrCaseNotFound:
		httperr.WriteError(w, httperr.ErrNotFound.WithDetail("case not found"))
	case svc.ErrPhotoNotFound:
		httperr.WriteError(w, httperr.ErrNotFound.WithDetail("photo not found"))
	case svc.ErrPermissionDenied:
		httperr.WriteError(w, httperr.ErrPermissionDenied)
	default:
		writeServiceError(w, r, err)
	}
}
