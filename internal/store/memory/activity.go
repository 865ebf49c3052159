package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
)

type activityRepo struct {
	s *Store
}

func (r *activityRepo) Append(_ context.Context, input repository.AppendActivityInput) (*repository.ActivityLogEntry, error) {
	defer r.s.lock()()

	if _, ok := r.s.d.cases[input.CaseID]; !ok {
		return nil, repository.ErrNotFound
	}

	r.s.d.seq++
	e := repository.ActivityLogEntry{
		ID:          uuid.NewString(),
		CaseID:      input.CaseID,
		UserID:      input.UserID,
		ActionType:  input.ActionType,
		Description: input.Description,
		IsPublic:    input.IsPublic,
		// seq desempata entradas creadas en el mismo instante del reloj
		CreatedAt: time.Now().UTC().Add(time.Duration(r.s.d.seq) * time.Nanosecond),
	}
	r.s.d.activity = append(r.s.d.activity, e)
	return &e, nil
}

func (r *activityRepo) ListByCase(_ context.Context, caseID string, publicOnly bool, limit int) ([]repository.ActivityLogEntry, error) {
	defer r.s.lock()()

	var out []repository.ActivityLogEntry
	for i := len(r.s.d.activity) - 1; i >= 0; i-- {
		e := r.s.d.activity[i]
		if e.CaseID != caseID {
			continue
		}
		if publicOnly && !e.IsPublic {
			continue
		}
		if u, ok := r.s.d.users[e.UserID]; ok {
			e.UserName = u.Name
		}
		out = append(out, e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
