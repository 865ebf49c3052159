package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
)

type collaboratorRepo struct {
	s *Store
}

func (r *collaboratorRepo) Add(_ context.Context, input repository.AddCollaboratorInput) (*repository.Collaborator, error) {
	defer r.s.lock()()

	if _, ok := r.s.d.cases[input.CaseID]; !ok {
		return nil, repository.ErrNotFound
	}
	if _, ok := r.s.d.users[input.UserID]; !ok {
		return nil, repository.ErrNotFound
	}
	for _, col := range r.s.d.collaborators {
		if col.CaseID == input.CaseID && col.UserID == input.UserID {
			return nil, repository.ErrConflict
		}
	}

	c := repository.Collaborator{
		ID:        uuid.NewString(),
		CaseID:    input.CaseID,
		UserID:    input.UserID,
		RoleLabel: input.RoleLabel,
		AddedBy:   input.AddedBy,
		AddedAt:   time.Now().UTC(),
	}
	r.s.d.collaborators[c.ID] = c
	return &c, nil
}

func (r *collaboratorRepo) Get(_ context.Context, caseID, userID string) (*repository.Collaborator, error) {
	defer r.s.lock()()

	for _, col := range r.s.d.collaborators {
		if col.CaseID == caseID && col.UserID == userID {
			col := col
			return &col, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *collaboratorRepo) Remove(_ context.Context, caseID, userID string) error {
	defer r.s.lock()()

	for id, col := range r.s.d.collaborators {
		if col.CaseID == caseID && col.UserID == userID {
			delete(r.s.d.collaborators, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *collaboratorRepo) ListByCase(_ context.Context, caseID string) ([]repository.Collaborator, error) {
	defer r.s.lock()()

	var out []repository.Collaborator
	for _, col := range r.s.d.collaborators {
		if col.CaseID == caseID {
			out = append(out, col)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.Before(out[j].AddedAt) })
	return out, nil
}
