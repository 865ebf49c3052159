package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
)

type photoRepo struct {
	s *Store
}

func (r *photoRepo) Add(_ context.Context, input repository.AddPhotoInput) (*repository.Photo, error) {
	defer r.s.lock()()

	if _, ok := r.s.d.cases[input.CaseID]; !ok {
		return nil, repository.ErrNotFound
	}

	p := repository.Photo{
		ID:           uuid.NewString(),
		CaseID:       input.CaseID,
		URL:          input.URL,
		ThumbnailURL: input.ThumbnailURL,
		UploadedBy:   input.UploadedBy,
		OrderIndex:   input.OrderIndex,
		IsPrimary:    input.IsPrimary,
		UploadedAt:   time.Now().UTC(),
	}
	r.s.d.photos[p.ID] = p
	return &p, nil
}

func (r *photoRepo) GetByID(_ context.Context, photoID string) (*repository.Photo, error) {
	defer r.s.lock()()

	p, ok := r.s.d.photos[photoID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *photoRepo) Delete(_ context.Context, photoID string) error {
	defer r.s.lock()()

	if _, ok := r.s.d.photos[photoID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.d.photos, photoID)
	return nil
}

func (r *photoRepo) ListByCase(_ context.Context, caseID string) ([]repository.Photo, error) {
	defer r.s.lock()()

	var out []repository.Photo
	for _, p := range r.s.d.photos {
		if p.CaseID == caseID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r *photoRepo) NextOrderIndex(_ context.Context, caseID string) (int, int, error) {
	defer r.s.lock()()

	next, count := 0, 0
	for _, p := range r.s.d.photos {
		if p.CaseID != caseID {
			continue
		}
		count++
		if p.OrderIndex >= next {
			next = p.OrderIndex + 1
		}
	}
	return next, count, nil
}

func (r *photoRepo) SetPrimary(_ context.Context, caseID, photoID string) error {
	defer r.s.lock()()

	for id, p := range r.s.d.photos {
		if p.CaseID != caseID {
			continue
		}
		p.IsPrimary = id == photoID
		r.s.d.photos[id] = p
	}
	return nil
}
