package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
)

type tokenRepo struct {
	s *Store
}

func (r *tokenRepo) Create(_ context.Context, input repository.CreateRefreshTokenInput) (string, error) {
	defer r.s.lock()()

	t := repository.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    input.UserID,
		TokenHash: input.TokenHash,
		ExpiresAt: input.ExpiresAt,
		CreatedAt: time.Now().UTC(),
	}
	r.s.d.tokens[t.TokenHash] = t
	return t.ID, nil
}

func (r *tokenRepo) ConsumeByHash(_ context.Context, tokenHash string) (*repository.RefreshToken, error) {
	defer r.s.lock()()

	t, ok := r.s.d.tokens[tokenHash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.s.d.tokens, tokenHash)
	return &t, nil
}

func (r *tokenRepo) DeleteByHash(_ context.Context, tokenHash string) error {
	defer r.s.lock()()

	delete(r.s.d.tokens, tokenHash)
	return nil
}

func (r *tokenRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	defer r.s.lock()()

	var n int64
	for hash, t := range r.s.d.tokens {
		if t.ExpiresAt.Before(now) {
			delete(r.s.d.tokens, hash)
			n++
		}
	}
	return n, nil
}
