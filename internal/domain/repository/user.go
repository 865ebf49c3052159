package repository

import (
	"context"
	"time"
)

// Roles válidos para un usuario.
const (
	RoleRescuer     = "rescuer"
	RoleVet         = "vet"
	RoleFoster      = "foster"
	RoleCoordinator = "adoption_coordinator"
	RoleAdmin       = "admin"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Phone        string
	Organization string
	Location     string
	AvatarURL    string
	IsActive     bool
	CreatedAt    time.Time
}

// CreateUserInput contiene los datos para crear un usuario.
type CreateUserInput struct {
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Phone        string
	Organization string
}

// UserRepository define operaciones sobre usuarios.
type UserRepository interface {
	// Create crea un nuevo usuario.
	// Retorna ErrConflict si el email ya existe.
	Create(ctx context.Context, input CreateUserInput) (*User, error)

	// GetByEmail busca un usuario por email.
	// Retorna ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID busca un usuario por ID.
	// Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, userID string) (*User, error)
}
