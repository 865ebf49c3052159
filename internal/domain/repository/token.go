package repository

import (
	"context"
	"time"
)

// RefreshToken representa un refresh token pendiente. Solo se persiste el
// hash del secreto; el plaintext nunca toca la base de datos.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// CreateRefreshTokenInput contiene los datos para crear un refresh token.
type CreateRefreshTokenInput struct {
	UserID    string
	TokenHash string
	ExpiresAt time.Time
}

// TokenRepository define operaciones sobre refresh tokens.
type TokenRepository interface {
	// Create crea un nuevo refresh token. Retorna el ID del token creado.
	Create(ctx context.Context, input CreateRefreshTokenInput) (string, error)

	// ConsumeByHash elimina atómicamente el token con ese hash y lo
	// devuelve. Un secreto presentado dos veces falla la segunda porque la
	// primera ya consumió la fila. Retorna ErrNotFound si no existe.
	ConsumeByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)

	// DeleteByHash elimina el token con ese hash. Idempotente: no es error
	// si la fila ya no existe.
	DeleteByHash(ctx context.Context, tokenHash string) error

	// DeleteExpired elimina todas las filas vencidas (barrido periódico).
	// Retorna cuántas filas fueron eliminadas.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
