package pg

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
)

type photoRepo struct {
	q querier
}

const photoColumns = `id, case_id, url, COALESCE(thumbnail_url, ''), uploaded_by, order_index, is_primary, uploaded_at`

func scanPhoto(row interface{ Scan(dest ...any) error }) (*repository.Photo, error) {
	var p repository.Photo
	err := row.Scan(&p.ID, &p.CaseID, &p.URL, &p.ThumbnailURL, &p.UploadedBy, &p.OrderIndex, &p.IsPrimary, &p.UploadedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (r *photoRepo) Add(ctx context.Context, input repository.AddPhotoInput) (*repository.Photo, error) {
	const q = `
		INSERT INTO photos (id, case_id, url, thumbnail_url, uploaded_by, order_index, is_primary, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING ` + photoColumns

	return scanPhoto(r.q.QueryRow(ctx, q,
		uuid.NewString(), input.CaseID, input.URL, nullIfEmpty(input.ThumbnailURL),
		input.UploadedBy, input.OrderIndex, input.IsPrimary,
	))
}

func (r *photoRepo) GetByID(ctx context.Context, photoID string) (*repository.Photo, error) {
	const q = `SELECT ` + photoColumns + ` FROM photos WHERE id = $1`
	return scanPhoto(r.q.QueryRow(ctx, q, photoID))
}

func (r *photoRepo) Delete(ctx context.Context, photoID string) error {
	const q = `DELETE FROM photos WHERE id = $1`
	ct, err := r.q.Exec(ctx, q, photoID)
	if err != nil {
		return translateError(err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *photoRepo) ListByCase(ctx context.Context, caseID string) ([]repository.Photo, error) {
	const q = `SELECT ` + photoColumns + ` FROM photos WHERE case_id = $1 ORDER BY order_index`

	rows, err := r.q.Query(ctx, q, caseID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []repository.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *photoRepo) NextOrderIndex(ctx context.Context, caseID string) (int, int, error) {
	const q = `SELECT COALESCE(MAX(order_index) + 1, 0), COUNT(*) FROM photos WHERE case_id = $1`

	var next, count int
	if err := r.q.QueryRow(ctx, q, caseID).Scan(&next, &count); err != nil {
		return 0, 0, translateError(err)
	}
	return next, count, nil
}

func (r *photoRepo) SetPrimary(ctx context.Context, caseID, photoID string) error {
	const q = `UPDATE photos SET is_primary = (id = $2) WHERE case_id = $1`
	_, err := r.q.Exec(ctx, q, caseID, photoID)
	return translateError(err)
}
