// Package auth implementa el ciclo de vida de sesiones: registro, login,
// rotación y revocación de refresh tokens, y perfil propio.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
	jwtx "github.com/dropDatabas3/rescuetrack/internal/jwt"
	"github.com/dropDatabas3/rescuetrack/internal/observability/logger"
	"github.com/dropDatabas3/rescuetrack/internal/security/password"
	"github.com/dropDatabas3/rescuetrack/internal/security/token"
	"github.com/dropDatabas3/rescuetrack/internal/validation"
)

// Errores del service, mapeados a HTTP por el controller.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrAccountInactive    = errors.New("auth: account inactive")
	ErrEmailTaken         = errors.New("auth: email already registered")
	ErrTokenInvalid       = errors.New("auth: refresh token invalid")
	ErrTokenExpired       = errors.New("auth: refresh token expired")
	ErrUserNotFound       = errors.New("auth: user not found")
)

// refreshSecretBytes es el largo del secreto opaco antes de codificar a hex.
const refreshSecretBytes = 64

// Session es el resultado de una emisión de tokens.
type Session struct {
	AccessToken  string
	ExpiresIn    int64 // segundos
	RefreshToken string
	User         *repository.User
}

// RegisterInput contiene los datos de registro ya deserializados.
type RegisterInput struct {
	Email        string
	Password     string
	Name         string
	Role         string
	Phone        string
	Organization string
}

// Service define las operaciones de sesión.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*Session, error)
	Login(ctx context.Context, email, pass string) (*Session, error)
	Rotate(ctx context.Context, presented string) (*Session, error)
	Revoke(ctx context.Context, presented string) error
	Me(ctx context.Context, userID string) (*repository.User, error)
	SweepExpired(ctx context.Context) (int64, error)
}

// Deps contiene las dependencias del service.
type Deps struct {
	Store      repository.Store
	Issuer     *jwtx.Issuer
	RefreshTTL time.Duration
	Policy     password.Policy
}

type service struct {
	deps Deps
}

// New crea el Service de autenticación.
func New(deps Deps) Service {
	if deps.RefreshTTL <= 0 {
		deps.RefreshTTL = 7 * 24 * time.Hour
	}
	if deps.Policy.MinLength == 0 {
		deps.Policy = password.DefaultPolicy
	}
	return &service{deps: deps}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Register"),
	)

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)

	var verr validation.Errors
	if !validation.ValidEmail(input.Email) {
		verr.Add("email", "must be a valid email address")
	}
	if ok, reasons := s.deps.Policy.Validate(input.Password); !ok {
		for _, reason := range reasons {
			verr.Add("password", passwordReason(reason))
		}
	}
	if len([]rune(input.Name)) < 2 {
		verr.Add("name", "must be at least 2 characters")
	}
	if !validation.ValidRole(input.Role) {
		verr.Add("role", "must be one of rescuer, vet, foster, adoption_coordinator, admin")
	}
	if !verr.Empty() {
		return nil, verr
	}

	hash, err := password.Hash(password.Default, input.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.deps.Store.Users().Create(ctx, repository.CreateUserInput{
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
		Role:         input.Role,
		Phone:        input.Phone,
		Organization: input.Organization,
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	log.Info("user registered", logger.UserID(user.ID))
	return s.issue(ctx, user)
}

func (s *service) Login(ctx context.Context, email, pass string) (*Session, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Login"),
	)

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.deps.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			// No revelar si falló el email o la contraseña
			log.Warn("login failed", logger.Email(email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(pass, user.PasswordHash) {
		log.Warn("login failed", logger.Email(email))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	log.Info("login", logger.UserID(user.ID))
	return s.issue(ctx, user)
}

// issue emite el par access + refresh. El secreto del refresh solo viaja al
// cliente; acá persiste únicamente su hash.
func (s *service) issue(ctx context.Context, user *repository.User) (*Session, error) {
	access, exp, err := s.deps.Issuer.IssueAccess(jwtx.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, err
	}

	secret, err := token.GenerateOpaque(refreshSecretBytes)
	if err != nil {
		return nil, err
	}

	_, err = s.deps.Store.Tokens().Create(ctx, repository.CreateRefreshTokenInput{
		UserID:    user.ID,
		TokenHash: token.SHA256Base64URL(secret),
		ExpiresAt: time.Now().UTC().Add(s.deps.RefreshTTL),
	})
	if err != nil {
		return nil, err
	}

	return &Session{
		AccessToken:  access,
		ExpiresIn:    int64(time.Until(exp).Seconds()),
		RefreshToken: secret,
		User:         user,
	}, nil
}

func (s *service) Rotate(ctx context.Context, presented string) (*Session, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Rotate"),
	)

	if strings.TrimSpace(presented) == "" {
		return nil, ErrTokenInvalid
	}

	// Consumo atómico: de dos rotaciones concurrentes del mismo secreto,
	// exactamente una encuentra la fila.
	row, err := s.deps.Store.Tokens().ConsumeByHash(ctx, token.SHA256Base64URL(presented))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	if row.ExpiresAt.Before(time.Now().UTC()) {
		// La fila ya fue consumida: reintentar con el mismo secreto da invalid
		return nil, ErrTokenExpired
	}

	user, err := s.deps.Store.Users().GetByID(ctx, row.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	log.Debug("refresh rotated", logger.UserID(user.ID))
	return s.issue(ctx, user)
}

func (s *service) Revoke(ctx context.Context, presented string) error {
	if strings.TrimSpace(presented) == "" {
		return nil
	}
	// Idempotente: revocar un token ya revocado no es error
	return s.deps.Store.Tokens().DeleteByHash(ctx, token.SHA256Base64URL(presented))
}

func (s *service) Me(ctx context.Context, userID string) (*repository.User, error) {
	user, err := s.deps.Store.Users().GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *service) SweepExpired(ctx context.Context) (int64, error) {
	return s.deps.Store.Tokens().DeleteExpired(ctx, time.Now().UTC())
}

func passwordReason(reason string) string {
	switch reason {
	case "too_short":
		return "must be at least 8 characters"
	case "missing_letter":
		return "must contain at least one letter"
	case "missing_digit":
		return "must contain at least one number"
	}
	return "does not meet the password policy"
}
