package pg

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
)

type tokenRepo struct {
	q querier
}

func (r *tokenRepo) Create(ctx context.Context, input repository.CreateRefreshTokenInput) (string, error) {
	const q = `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id`

	var id string
	err := r.q.QueryRow(ctx, q, uuid.NewString(), input.UserID, input.TokenHash, input.ExpiresAt).Scan(&id)
	if err != nil {
		return "", translateError(err)
	}
	return id, nil
}

// ConsumeByHash es un single-statement "find-then-delete": dos rotaciones
// concurrentes del mismo secreto producen exactamente un ganador; el
// perdedor observa la fila ya eliminada.
func (r *tokenRepo) ConsumeByHash(ctx context.Context, tokenHash string) (*repository.RefreshToken, error) {
	const q = `
		DELETE FROM refresh_tokens
		WHERE token_hash = $1
		RETURNING id, user_id, token_hash, expires_at, created_at`

	var t repository.RefreshToken
	err := r.q.QueryRow(ctx, q, tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &t, nil
}

func (r *tokenRepo) DeleteByHash(ctx context.Context, tokenHash string) error {
	const q = `DELETE FROM refresh_tokens WHERE token_hash = $1`
	_, err := r.q.Exec(ctx, q, tokenHash)
	return translateError(err)
}

func (r *tokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const q = `DELETE FROM refresh_tokens WHERE expires_at < $1`
	ct, err := r.q.Exec(ctx, q, now)
	if err != nil {
		return 0, translateError(err)
	}
	return ct.RowsAffected(), nil
}
