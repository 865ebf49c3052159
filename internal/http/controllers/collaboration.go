package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/rescuetrack/internal/http/dto/cases"
	httperr "github.com/dropDatabas3/rescuetrack/internal/http/errors"
	"github.com/dropDatabas3/rescuetrack/internal/http/middlewares"
	svc "github.com/dropDatabas3/rescuetrack/internal/http/services/collaboration"
	"github.com/dropDatabas3/rescuetrack/internal/validation"
)

// CollaborationController maneja membresías, transferencias y notas.
type CollaborationController struct {
	service svc.Service
}

// NewCollaborationController crea el controller de colaboración.
func NewCollaborationController(service svc.Service) *CollaborationController {
	return &CollaborationController{service: service}
}

// Add maneja POST /v1/cases/{id}/collaborators.
func (c *CollaborationController) Add(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCollaboratorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validation.NonEmpty(req.UserID) {
		var verr validation.Errors
		verr.Add("user_id", "is required")
		writeServiceError(w, r, verr)
		return
	}

	resp, err := c.service.Add(r.Context(), middlewares.GetActor(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Remove maneja DELETE /v1/cases/{id}/collaborators/{userId}.
func (c *CollaborationController) Remove(w http.ResponseWriter, r *http.Request) {
	err := c.service.Remove(r.Context(), middlewares.GetActor(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "userId"))
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Transfer maneja POST /v1/cases/{id}/transfer.
func (c *CollaborationController) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferOwnershipRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validation.NonEmpty(req.NewOwnerID) {
		var verr validation.Errors
		verr.Add("new_owner_id", "is required")
		writeServiceError(w, r, verr)
		return
	}

	err := c.service.TransferOwnership(r.Context(), middlewares.GetActor(r.Context()),
		chi.URLParam(r, "id"), req.NewOwnerID)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddNote maneja POST /v1/cases/{id}/notes.
func (c *CollaborationController) AddNote(w http.ResponseWriter, r *http.Request) {
	var req dto.AddNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := c.service.AddNote(r.Context(), middlewares.GetActor(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (c *CollaborationController) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch err {
	case svc.ErrCaseNotFound:
		httperr.WriteError(w, httperr.ErrNotFound.WithDetail("case not found"))
	case svc.ErrUserNotFound:
		httperr.WriteError(w, httperr.ErrNotFound.WithDetail("user not found"))
	case svc.ErrNotCollaborator:
		httperr.WriteError(w, httperr.ErrNotFound.WithDetail("user is not a collaborator"))
	case svc.ErrPermissionDenied:
		httperr.WriteError(w, httperr.ErrPermissionDenied)
	case svc.ErrAlreadyCollaborator:
		httperr.WriteError(w, httperr.ErrConflict.WithDetail("user is already a collaborator"))
	default:
		writeServiceError(w, r, err)
	}
}
