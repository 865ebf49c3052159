package pg

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
)

type userRepo struct {
	q querier
}

const userColumns = `id, email, password_hash, name, role,
	COALESCE(phone, ''), COALESCE(organization, ''), COALESCE(location, ''),
	COALESCE(avatar_url, ''), is_active, created_at`

func (r *userRepo) Create(ctx context.Context, input repository.CreateUserInput) (*repository.User, error) {
	const q = `
		INSERT INTO users (id, email, password_hash, name, role, phone, organization, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, NOW())
		RETURNING ` + userColumns

	var u repository.User
	err := r.q.QueryRow(ctx, q,
		uuid.NewString(), input.Email, input.PasswordHash, input.Name, input.Role,
		nullIfEmpty(input.Phone), nullIfEmpty(input.Organization),
	).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
		&u.Phone, &u.Organization, &u.Location,
		&u.AvatarURL, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(ctx, q, email)
}

func (r *userRepo) GetByID(ctx context.Context, userID string) (*repository.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(ctx, q, userID)
}

func (r *userRepo) scanOne(ctx context.Context, q string, arg any) (*repository.User, error) {
	var u repository.User
	err := r.q.QueryRow(ctx, q, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
		&u.Phone, &u.Organization, &u.Location,
		&u.AvatarURL, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}
