package repository

import (
	"context"
	"time"
)

// Photo representa una foto adjunta a un caso. Las URLs provienen del blob
// store; acá solo se guarda el contrato de URL estable.
type Photo struct {
	ID           string
	CaseID       string
	URL          string
	ThumbnailURL string
	UploadedBy   string
	OrderIndex   int
	IsPrimary    bool
	UploadedAt   time.Time
}

// AddPhotoInput contiene los datos de una nueva foto.
type AddPhotoInput struct {
	CaseID       string
	URL          string
	ThumbnailURL string
	UploadedBy   string
	OrderIndex   int
	IsPrimary    bool
}

// PhotoRepository define operaciones sobre fotos.
type PhotoRepository interface {
	// Add agrega una foto al caso.
	Add(ctx context.Context, input AddPhotoInput) (*Photo, error)

	// GetByID busca una foto. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, photoID string) (*Photo, error)

	// Delete elimina una foto. Retorna ErrNotFound si no existe.
	Delete(ctx context.Context, photoID string) error

	// ListByCase lista las fotos del caso ordenadas por order_index.
	ListByCase(ctx context.Context, caseID string) ([]Photo, error)

	// NextOrderIndex devuelve el próximo order_index libre del caso y
	// cuántas fotos tiene actualmente.
	NextOrderIndex(ctx context.Context, caseID string) (next int, count int, err error)

	// SetPrimary marca una foto como principal y desmarca el resto del caso.
	SetPrimary(ctx context.Context, caseID, photoID string) error
}
