package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
	dto "github.com/dropDatabas3/rescuetrack/internal/http/dto/cases"
	httperr "github.com/dropDatabas3/rescuetrack/internal/http/errors"
	"github.com/dropDatabas3/rescuetrack/internal/http/middlewares"
	svc "github.com/dropDatabas3/rescuetrack/internal/http/services/cases"
)

// CasesController maneja /v1/cases y /v1/stats.
type CasesController struct {
	service svc.Service
}

// NewCasesController crea el controller de casos.
func NewCasesController(service svc.Service) *CasesController {
	return &CasesController{service: service}
}

// List maneja GET /v1/cases.
func (c *CasesController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ListCasesFilter{
		Status:    q.Get("status"),
		Species:   q.Get("species"),
		Urgency:   q.Get("urgency"),
		Search:    q.Get("search"),
		Page:      atoiDefault(q.Get("page"), 1),
		Limit:     atoiDefault(q.Get("limit"), 20),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	resp, err := c.service.List(r.Context(), filter)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get maneja GET /v1/cases/{id}. Auth opcional: anónimos ven la vista redactada.
func (c *CasesController) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := c.service.Get(r.Context(), middlewares.GetActor(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create maneja POST /v1/cases.
func (c *CasesController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := c.service.Create(r.Context(), middlewares.GetActor(r.Context()), req)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Update maneja PUT /v1/cases/{id}.
func (c *CasesController) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := c.service.Update(r.Context(), middlewares.GetActor(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Delete maneja DELETE /v1/cases/{id}.
func (c *CasesController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.service.Delete(r.Context(), middlewares.GetActor(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UserCases maneja GET /v1/users/me/cases.
func (c *CasesController) UserCases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.UserCasesFilter{
		Filter: q.Get("filter"),
		Status: q.Get("status"),
		Page:   atoiDefault(q.Get("page"), 1),
		Limit:  atoiDefault(q.Get("limit"), 20),
	}

	resp, err := c.service.UserCases(r.Context(), middlewares.GetUserID(r.Context()), filter)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Stats maneja GET /v1/stats.
func (c *CasesController) Stats(w http.ResponseWriter, r *http.Request) {
	resp, err := c.service.Stats(r.Context())
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (c *CasesController) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch err {
	case svc.ErrCaseNotFound:
		httperr.WriteError(w, httperr.ErrNotFound.WithDetail("case not found"))
	case svc.ErrPermissionDenied:
		httperr.WriteError(w, httperr.ErrPermissionDenied)
	default:
		writeServiceError(w, r, err)
	}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
