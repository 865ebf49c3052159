// Package photos implementa el adjunto de fotos a casos sobre el blob store,
// con la contabilidad de foto principal.
package photos

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dropDatabas3/rescuetrack/internal/blob"
	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
	dto "github.com/dropDatabas3/rescuetrack/internal/http/dto/cases"
	"github.com/dropDatabas3/rescuetrack/internal/observability/logger"
	"github.com/dropDatabas3/rescuetrack/internal/policy"
	"github.com/dropDatabas3/rescuetrack/internal/validation"
)

// Errores del service, mapeados a HTTP por el controller.
var (
	ErrCaseNotFound     = errors.New("photos: case not found")
	ErrPhotoNotFound    = errors.New("photos: photo not found")
	ErrPermissionDenied = errors.New("photos: permission denied")
)

const (
	// maxPhotoBytes limita cada archivo a 5 MiB.
	maxPhotoBytes = 5 << 20
	// maxPhotosPerCase limita la galería de un caso.
	maxPhotosPerCase = 10
)

// Service define las operaciones sobre fotos.
type Service interface {
	Attach(ctx context.Context, actor policy.Actor, caseID, contentType string, data []byte) (*dto.PhotoResponse, error)
	Delete(ctx context.Context, actor policy.Actor, photoID string) error
}

// Deps contiene las dependencias del service.
type Deps struct {
	Store repository.Store
	Blobs blob.Store
}

type service struct {
	deps Deps
}

// New crea el Service de fotos.
func New(deps Deps) Service {
	return &service{deps: deps}
}

func (s *service) authorize(ctx context.Context, actor policy.Actor, caseID string) (*repository.Case, error) {
	c, err := s.deps.Store.Cases().GetByID(ctx, caseID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	collabs, err := s.deps.Store.Collaborators().ListByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	rel := policy.Relate(actor, c, collabs)
	if !policy.CanRead(rel, c.IsPublic) {
		return nil, ErrCaseNotFound
	}
	if !policy.CanEdit(rel) {
		return nil, ErrPermissionDenied
	}
	return c, nil
}

func (s *service) Attach(ctx context.Context, actor policy.Actor, caseID, contentType string, data []byte) (*dto.PhotoResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("photos"),
		logger.Op("Attach"),
		logger.CaseID(caseID),
	)

	if _, err := s.authorize(ctx, actor, caseID); err != nil {
		return nil, err
	}

	var verr validation.Errors
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		verr.Add("photo", "must be an image")
	}
	if len(data) == 0 {
		verr.Add("photo", "is required")
	}
	if len(data) > maxPhotoBytes {
		verr.Add("photo", "must be 5MB or smaller")
	}
	if !verr.Empty() {
		return nil, verr
	}

	next, count, err := s.deps.Store.Photos().NextOrderIndex(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if count >= maxPhotosPerCase {
		var verr validation.Errors
		verr.Add("photo", "case already has the maximum of 10 photos")
		return nil, verr
	}

	key := blob.NewKey()
	url, err := s.deps.Blobs.Put(ctx, key, contentType, data)
	if err != nil {
		return nil, err
	}

	var added *repository.Photo
	err = s.deps.Store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		added, err = tx.Photos().Add(ctx, repository.AddPhotoInput{
			CaseID:     caseID,
			URL:        url,
			UploadedBy: actor.ID,
			OrderIndex: next,
			IsPrimary:  count == 0, // la primera foto queda como principal
		})
		if err != nil {
			return err
		}
		_, err = tx.Activity().Append(ctx, repository.AppendActivityInput{
			CaseID:      caseID,
			UserID:      actor.ID,
			ActionType:  repository.ActionPhotoAdded,
			Description: "Photo added",
			IsPublic:    true,
		})
		return err
	})
	if err != nil {
		// La fila no se escribió: el blob quedaría huérfano, lo limpiamos
		_ = s.deps.Blobs.Delete(ctx, key)
		return nil, err
	}

	log.Info("photo attached", logger.PhotoID(added.ID), logger.UserID(actor.ID))
	return &dto.PhotoResponse{
		ID:         added.ID,
		CaseID:     added.CaseID,
		URL:        added.URL,
		OrderIndex: added.OrderIndex,
		IsPrimary:  added.IsPrimary,
		UploadedAt: added.UploadedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *service) Delete(ctx context.Context, actor policy.Actor, photoID string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("photos"),
		logger.Op("Delete"),
		logger.PhotoID(photoID),
	)

	photo, err := s.deps.Store.Photos().GetByID(ctx, photoID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrPhotoNotFound
		}
		return err
	}

	if _, err := s.authorize(ctx, actor, photo.CaseID); err != nil {
		return err
	}

	err = s.deps.Store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Photos().Delete(ctx, photoID); err != nil {
			return err
		}

		// Borrar la principal promueve la siguiente por orden
		if photo.IsPrimary {
			rest, err := tx.Photos().ListByCase(ctx, photo.CaseID)
			if err != nil {
				return err
			}
			if len(rest) > 0 {
				if err := tx.Photos().SetPrimary(ctx, photo.CaseID, rest[0].ID); err != nil {
					return err
				}
			}
		}

		_, err := tx.Activity().Append(ctx, repository.AppendActivityInput{
			CaseID:      photo.CaseID,
			UserID:      actor.ID,
			ActionType:  repository.ActionPhotoDeleted,
			Description: "Photo deleted",
			IsPublic:    true,
		})
		return err
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrPhotoNotFound
		}
		return err
	}

	// Mejor esfuerzo: la fila ya no existe aunque el blob sobreviva
	if err := s.deps.Blobs.Delete(ctx, blob.KeyFromURL(photo.URL)); err != nil {
		log.Warn("blob delete failed", logger.Err(err))
	}

	log.Info("photo deleted", logger.CaseID(photo.CaseID), logger.UserID(actor.ID))
	return nil
}
