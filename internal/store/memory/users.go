package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(_ context.Context, input repository.CreateUserInput) (*repository.User, error) {
	defer r.s.lock()()

	for _, u := range r.s.d.users {
		if strings.EqualFold(u.Email, input.Email) {
			return nil, repository.ErrConflict
		}
	}

	u := repository.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Name:         input.Name,
		Role:         input.Role,
		Phone:        input.Phone,
		Organization: input.Organization,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	r.s.d.users[u.ID] = u
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	defer r.s.lock()()

	for _, u := range r.s.d.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) GetByID(_ context.Context, userID string) (*repository.User, error) {
	defer r.s.lock()()

	u, ok := r.s.d.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}
