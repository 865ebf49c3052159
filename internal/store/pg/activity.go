package pg

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
)

type activityRepo struct {
	q querier
}

func (r *activityRepo) Append(ctx context.Context, input repository.AppendActivityInput) (*repository.ActivityLogEntry, error) {
	const q = `
		INSERT INTO activity_log (id, case_id, user_id, action_type, description, is_public, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, case_id, user_id, action_type, description, is_public, created_at`

	var e repository.ActivityLogEntry
	err := r.q.QueryRow(ctx, q,
		uuid.NewString(), input.CaseID, input.UserID, input.ActionType, input.Description, input.IsPublic,
	).Scan(&e.ID, &e.CaseID, &e.UserID, &e.ActionType, &e.Description, &e.IsPublic, &e.CreatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &e, nil
}

func (r *activityRepo) ListByCase(ctx context.Context, caseID string, publicOnly bool, limit int) ([]repository.ActivityLogEntry, error) {
	q := `
		SELECT a.id, a.case_id, a.user_id, u.name, a.action_type, a.description, a.is_public, a.created_at
		FROM activity_log a
		JOIN users u ON u.id = a.user_id
		WHERE a.case_id = $1`
	if publicOnly {
		q += ` AND a.is_public`
	}
	q += ` ORDER BY a.created_at DESC`
	args := []any{caseID}
	if limit > 0 {
		args = append(args, limit)
		q += ` LIMIT $2`
	}

	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []repository.ActivityLogEntry
	for rows.Next() {
		var e repository.ActivityLogEntry
		if err := rows.Scan(&e.ID, &e.CaseID, &e.UserID, &e.UserName, &e.ActionType, &e.Description, &e.IsPublic, &e.CreatedAt); err != nil {
			return nil, translateError(err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
