// Package collaboration implementa la membresía de casos: agregar y quitar
// colaboradores, transferir la propiedad y agregar notas al historial.
package collaboration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
	dto "github.com/dropDatabas3/rescuetrack/internal/http/dto/cases"
	"github.com/dropDatabas3/rescuetrack/internal/observability/logger"
	"github.com/dropDatabas3/rescuetrack/internal/policy"
	"github.com/dropDatabas3/rescuetrack/internal/validation"
)

// Errores del service, mapeados a HTTP por el controller.
var (
	ErrCaseNotFound        = errors.New("collaboration: case not found")
	ErrPermissionDenied    = errors.New("collaboration: permission denied")
	ErrUserNotFound        = errors.New("collaboration: user not found")
	ErrAlreadyCollaborator = errors.New("collaboration: user is already a collaborator")
	ErrNotCollaborator     = errors.New("collaboration: user is not a collaborator")
)

// Service define las operaciones de membresía.
type Service interface {
	Add(ctx context.Context, actor policy.Actor, caseID string, req dto.AddCollaboratorRequest) (*dto.CollaboratorResponse, error)
	Remove(ctx context.Context, actor policy.Actor, caseID, userID string) error
	TransferOwnership(ctx context.Context, actor policy.Actor, caseID, newOwnerID string) error
	AddNote(ctx context.Context, actor policy.Actor, caseID string, req dto.AddNoteRequest) (*dto.ActivityResponse, error)
}

// Deps contiene las dependencias del service.
type Deps struct {
	Store repository.Store
}

type service struct {
	deps Deps
}

// New crea el Service de colaboración.
func New(deps Deps) Service {
	return &service{deps: deps}
}

// relate trae caso + colaboradores y decide visibilidad igual que cases.
func (s *service) relate(ctx context.Context, actor policy.Actor, caseID string) (*repository.Case, policy.Relationship, error) {
	c, err := s.deps.Store.Cases().GetByID(ctx, caseID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, policy.RelationNone, ErrCaseNotFound
		}
		return nil, policy.RelationNone, err
	}
	collabs, err := s.deps.Store.Collaborators().ListByCase(ctx, caseID)
	if err != nil {
		return nil, policy.RelationNone, err
	}
	rel := policy.Relate(actor, c, collabs)
	if !policy.CanRead(rel, c.IsPublic) {
		return nil, policy.RelationNone, ErrCaseNotFound
	}
	return c, rel, nil
}

func (s *service) Add(ctx context.Context, actor policy.Actor, caseID string, req dto.AddCollaboratorRequest) (*dto.CollaboratorResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("collaboration"),
		logger.Op("Add"),
		logger.CaseID(caseID),
	)

	_, rel, err := s.relate(ctx, actor, caseID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAddCollaborator(rel) {
		return nil, ErrPermissionDenied
	}

	target, err := s.deps.Store.Users().GetByID(ctx, req.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var added *repository.Collaborator
	err = s.deps.Store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		added, err = tx.Collaborators().Add(ctx, repository.AddCollaboratorInput{
			CaseID:    caseID,
			UserID:    req.UserID,
			RoleLabel: req.RoleLabel,
			AddedBy:   actor.ID,
		})
		if err != nil {
			return err
		}
		_, err = tx.Activity().Append(ctx, repository.AppendActivityInput{
			CaseID:      caseID,
			UserID:      actor.ID,
			ActionType:  repository.ActionCollaboratorAdded,
			Description: fmt.Sprintf("Added %s as collaborator", target.Name),
			IsPublic:    false,
		})
		return err
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, ErrAlreadyCollaborator
		}
		return nil, err
	}

	log.Info("collaborator added", logger.UserID(req.UserID))
	return &dto.CollaboratorResponse{
		ID:        added.ID,
		UserID:    added.UserID,
		Name:      target.Name,
		Role:      target.Role,
		RoleLabel: added.RoleLabel,
		AddedAt:   added.AddedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *service) Remove(ctx context.Context, actor policy.Actor, caseID, userID string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("collaboration"),
		logger.Op("Remove"),
		logger.CaseID(caseID),
	)

	_, rel, err := s.relate(ctx, actor, caseID)
	if err != nil {
		return err
	}
	if !policy.CanRemoveCollaborator(rel) {
		return ErrPermissionDenied
	}

	var name string
	if u, err := s.deps.Store.Users().GetByID(ctx, userID); err == nil {
		name = u.Name
	}

	err = s.deps.Store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Collaborators().Remove(ctx, caseID, userID); err != nil {
			return err
		}
		desc := "Removed a collaborator"
		if name != "" {
			desc = fmt.Sprintf("Removed %s as collaborator", name)
		}
		_, err := tx.Activity().Append(ctx, repository.AppendActivityInput{
			CaseID:      caseID,
			UserID:      actor.ID,
			ActionType:  repository.ActionCollaboratorRemoved,
			Description: desc,
			IsPublic:    false,
		})
		return err
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrNotCollaborator
		}
		return err
	}

	log.Info("collaborator removed", logger.UserID(userID))
	return nil
}

func (s *service) TransferOwnership(ctx context.Context, actor policy.Actor, caseID, newOwnerID string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("collaboration"),
		logger.Op("TransferOwnership"),
		logger.CaseID(caseID),
	)

	c, rel, err := s.relate(ctx, actor, caseID)
	if err != nil {
		return err
	}
	if !policy.CanTransferOwnership(rel) {
		return ErrPermissionDenied
	}

	newOwner, err := s.deps.Store.Users().GetByID(ctx, newOwnerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}

	outgoing, err := s.deps.Store.Users().GetByID(ctx, c.PrimaryOwnerID)
	if err != nil {
		return err
	}

	err = s.deps.Store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Cases().Update(ctx, caseID, repository.UpdateCaseInput{
			PrimaryOwnerID: &newOwnerID,
		}); err != nil {
			return err
		}

		// El dueño saliente queda como colaborador; si ya lo era, se tolera
		_, err := tx.Collaborators().Add(ctx, repository.AddCollaboratorInput{
			CaseID:    caseID,
			UserID:    outgoing.ID,
			RoleLabel: "Previous Owner",
			AddedBy:   actor.ID,
		})
		if err != nil && !repository.IsConflict(err) {
			return err
		}

		// Si el nuevo dueño era colaborador, su membresía sobra
		if err := tx.Collaborators().Remove(ctx, caseID, newOwnerID); err != nil && !repository.IsNotFound(err) {
			return err
		}

		_, err = tx.Activity().Append(ctx, repository.AppendActivityInput{
			CaseID:      caseID,
			UserID:      actor.ID,
			ActionType:  repository.ActionOwnershipTransferred,
			Description: fmt.Sprintf("Ownership transferred from %s to %s", outgoing.Name, newOwner.Name),
			IsPublic:    false,
		})
		return err
	})
	if err != nil {
		return err
	}

	log.Info("ownership transferred", logger.UserID(newOwnerID))
	return nil
}

func (s *service) AddNote(ctx context.Context, actor policy.Actor, caseID string, req dto.AddNoteRequest) (*dto.ActivityResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("collaboration"),
		logger.Op("AddNote"),
		logger.CaseID(caseID),
	)

	_, rel, err := s.relate(ctx, actor, caseID)
	if err != nil {
		return nil, err
	}
	if !policy.CanEdit(rel) {
		return nil, ErrPermissionDenied
	}

	if !validation.NonEmpty(req.Note) {
		var verr validation.Errors
		verr.Add("note", "is required")
		return nil, verr
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	var entry *repository.ActivityLogEntry
	err = s.deps.Store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		entry, err = tx.Activity().Append(ctx, repository.AppendActivityInput{
			CaseID:      caseID,
			UserID:      actor.ID,
			ActionType:  repository.ActionNoteAdded,
			Description: strings.TrimSpace(req.Note),
			IsPublic:    isPublic,
		})
		if err != nil {
			return err
		}
		return tx.Cases().Touch(ctx, caseID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}

	log.Info("note added", logger.UserID(actor.ID))
	return &dto.ActivityResponse{
		ID:          entry.ID,
		UserID:      entry.UserID,
		ActionType:  entry.ActionType,
		Description: entry.Description,
		IsPublic:    entry.IsPublic,
		CreatedAt:   entry.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}
