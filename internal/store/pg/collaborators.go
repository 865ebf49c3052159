package pg

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
)

type collaboratorRepo struct {
	q querier
}

const collaboratorColumns = `id, case_id, user_id, COALESCE(role_label, ''), added_by, added_at`

func (r *collaboratorRepo) Add(ctx context.Context, input repository.AddCollaboratorInput) (*repository.Collaborator, error) {
	const q = `
		INSERT INTO case_collaborators (id, case_id, user_id, role_label, added_by, added_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING ` + collaboratorColumns

	var c repository.Collaborator
	err := r.q.QueryRow(ctx, q,
		uuid.NewString(), input.CaseID, input.UserID, nullIfEmpty(input.RoleLabel), input.AddedBy,
	).Scan(&c.ID, &c.CaseID, &c.UserID, &c.RoleLabel, &c.AddedBy, &c.AddedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func (r *collaboratorRepo) Get(ctx context.Context, caseID, userID string) (*repository.Collaborator, error) {
	const q = `SELECT ` + collaboratorColumns + ` FROM case_collaborators WHERE case_id = $1 AND user_id = $2`

	var c repository.Collaborator
	err := r.q.QueryRow(ctx, q, caseID, userID).
		Scan(&c.ID, &c.CaseID, &c.UserID, &c.RoleLabel, &c.AddedBy, &c.AddedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func (r *collaboratorRepo) Remove(ctx context.Context, caseID, userID string) error {
	const q = `DELETE FROM case_collaborators WHERE case_id = $1 AND user_id = $2`
	ct, err := r.q.Exec(ctx, q, caseID, userID)
	if err != nil {
		return translateError(err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *collaboratorRepo) ListByCase(ctx context.Context, caseID string) ([]repository.Collaborator, error) {
	const q = `SELECT ` + collaboratorColumns + ` FROM case_collaborators WHERE case_id = $1 ORDER BY added_at`

	rows, err := r.q.Query(ctx, q, caseID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []repository.Collaborator
	for rows.Next() {
		var c repository.Collaborator
		if err := rows.Scan(&c.ID, &c.CaseID, &c.UserID, &c.RoleLabel, &c.AddedBy, &c.AddedAt); err != nil {
			return nil, translateError(err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
