package controllers

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
	dto "github.com/dropDatabas3/rescuetrack/internal/http/dto/auth"
	httperr "github.com/dropDatabas3/rescuetrack/internal/http/errors"
	"github.com/dropDatabas3/rescuetrack/internal/http/middlewares"
	svc "github.com/dropDatabas3/rescuetrack/internal/http/services/auth"
)

// AuthController maneja /v1/auth/*.
type AuthController struct {
	service svc.Service
}

// NewAuthController crea el controller de autenticación.
func NewAuthController(service svc.Service) *AuthController {
	return &AuthController{service: service}
}

// Register maneja POST /v1/auth/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := c.service.Register(r.Context(), svc.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		Role:         req.Role,
		Phone:        req.Phone,
		Organization: req.Organization,
	})
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse(session))
}

// Login maneja POST /v1/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := c.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse(session))
}

// Refresh maneja POST /v1/auth/refresh.
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := c.service.Rotate(r.Context(), req.RefreshToken)
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse(session))
}

// Logout maneja POST /v1/auth/logout.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	var req dto.LogoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := c.service.Revoke(r.Context(), req.RefreshToken); err != nil {
		c.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me maneja GET /v1/auth/me.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	user, err := c.service.Me(r.Context(), middlewares.GetUserID(r.Context()))
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse(user))
}

func (c *AuthController) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch err {
	case svc.ErrInvalidCredentials:
		httperr.WriteError(w, httperr.ErrInvalidCredentials)
	case svc.ErrAccountInactive:
		httperr.WriteError(w, httperr.ErrPermissionDenied.WithDetail("account is inactive"))
	case svc.ErrEmailTaken:
		httperr.WriteError(w, httperr.ErrConflict.WithDetail("email already registered"))
	case svc.ErrTokenInvalid:
		httperr.WriteError(w, httperr.ErrTokenInvalid)
	case svc.ErrTokenExpired:
		httperr.WriteError(w, httperr.ErrTokenExpired)
	case svc.ErrUserNotFound:
		httperr.WriteError(w, httperr.ErrNotFound.WithDetail("user not found"))
	default:
		writeServiceError(w, r, err)
	}
}

func sessionResponse(s *svc.Session) dto.TokenPairResponse {
	resp := dto.TokenPairResponse{
		AccessToken:  s.AccessToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.ExpiresIn,
		RefreshToken: s.RefreshToken,
	}
	if s.User != nil {
		u := userResponse(s.User)
		resp.User = &u
	}
	return resp
}

func userResponse(u *repository.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		Phone:        u.Phone,
		Organization: u.Organization,
		Location:     u.Location,
		AvatarURL:    u.AvatarURL,
		CreatedAt:    u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
