package cases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
	dto "github.com/dropDatabas3/rescuetrack/internal/http/dto/cases"
	"github.com/dropDatabas3/rescuetrack/internal/observability/logger"
	"github.com/dropDatabas3/rescuetrack/internal/policy"
	"github.com/dropDatabas3/rescuetrack/internal/validation"
)

func parseDate(verr *validation.Errors, field, raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		verr.Add(field, "must be an RFC 3339 timestamp")
		return nil
	}
	t = t.UTC()
	return &t
}

func (s *service) Create(ctx context.Context, actor policy.Actor, req dto.CreateCaseRequest) (*dto.CaseResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("cases"),
		logger.Op("Create"),
	)

	var verr validation.Errors
	if !validation.ValidSpecies(req.Species) {
		verr.Add("species", "must be one of dog, cat, squirrel, iguana, other")
	}
	if !validation.ValidUrgency(req.Urgency) {
		verr.Add("urgency", "must be one of high, medium, low")
	}
	if !validation.NonEmpty(req.Description) {
		verr.Add("description", "is required")
	}
	if !validation.NonEmpty(req.LocationFound) {
		verr.Add("location_found", "is required")
	}
	status := req.Status
	if status == "" {
		status = repository.StatusReported
	} else if !validation.ValidStatus(status) {
		verr.Add("status", "is not a valid status")
	}
	dateRescued := parseDate(&verr, "date_rescued", req.DateRescued)
	if !verr.Empty() {
		return nil, verr
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	var created *repository.Case
	err := s.deps.Store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		created, err = tx.Cases().Create(ctx, repository.CreateCaseInput{
			Species:              req.Species,
			Description:          req.Description,
			Status:               status,
			Urgency:              req.Urgency,
			LocationFound:        req.LocationFound,
			LocationFoundGeneral: GeneralArea(req.LocationFound),
			LocationCurrent:      req.LocationCurrent,
			DateRescued:          dateRescued,
			ConditionDescription: req.ConditionDescription,
			Injuries:             req.Injuries,
			Treatments:           req.Treatments,
			Medications:          req.Medications,
			SpecialNeeds:         req.SpecialNeeds,
			DietaryRequirements:  req.DietaryRequirements,
			BehaviorNotes:        req.BehaviorNotes,
			PublicNotes:          req.PublicNotes,
			IsPublic:             isPublic,
			PrimaryOwnerID:       actor.ID,
		})
		if err != nil {
			return err
		}
		_, err = tx.Activity().Append(ctx, repository.AppendActivityInput{
			CaseID:      created.ID,
			UserID:      actor.ID,
			ActionType:  repository.ActionCaseCreated,
			Description: "Case created",
			IsPublic:    true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info("case created", logger.CaseID(created.ID), logger.UserID(actor.ID))
	s.invalidateStats(ctx)
	s.deps.Dispatcher.CaseCreated(audience(created, nil), publicView(created))

	return viewFor(actor, created), nil
}

func (s *service) Update(ctx context.Context, actor policy.Actor, caseID string, req dto.UpdateCaseRequest) (*dto.CaseResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("cases"),
		logger.Op("Update"),
		logger.CaseID(caseID),
	)

	current, collabs, rel, err := s.loadMembers(ctx, actor, caseID)
	if err != nil {
		return nil, err
	}
	if !policy.CanEdit(rel) {
		return nil, ErrPermissionDenied
	}

	var verr validation.Errors
	if req.Species != nil && !validation.ValidSpecies(*req.Species) {
		verr.Add("species", "is not a valid species")
	}
	if req.Status != nil && !validation.ValidStatus(*req.Status) {
		verr.Add("status", "is not a valid status")
	}
	if req.Urgency != nil && !validation.ValidUrgency(*req.Urgency) {
		verr.Add("urgency", "is not a valid urgency")
	}
	if req.LocationFound != nil && !validation.NonEmpty(*req.LocationFound) {
		verr.Add("location_found", "cannot be empty")
	}
	var dateRescued *time.Time
	if req.DateRescued != nil {
		dateRescued = parseDate(&verr, "date_rescued", *req.DateRescued)
	}
	if !verr.Empty() {
		return nil, verr
	}

	input := repository.UpdateCaseInput{
		Species:              req.Species,
		Description:          req.Description,
		Status:               req.Status,
		Urgency:              req.Urgency,
		LocationFound:        req.LocationFound,
		LocationCurrent:      req.LocationCurrent,
		DateRescued:          dateRescued,
		ConditionDescription: req.ConditionDescription,
		Injuries:             req.Injuries,
		Treatments:           req.Treatments,
		Medications:          req.Medications,
		SpecialNeeds:         req.SpecialNeeds,
		DietaryRequirements:  req.DietaryRequirements,
		BehaviorNotes:        req.BehaviorNotes,
		PublicNotes:          req.PublicNotes,
		IsPublic:             req.IsPublic,
	}
	// Cambiar la ubicación precisa re-deriva la zona general
	if req.LocationFound != nil {
		general := GeneralArea(*req.LocationFound)
		input.LocationFoundGeneral = &general
	}

	changes := changesMap(input)

	var updated *repository.Case
	err = s.deps.Store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		updated, err = tx.Cases().Update(ctx, caseID, input)
		if err != nil {
			return err
		}
		if req.Status != nil && *req.Status != current.Status {
			_, err = tx.Activity().Append(ctx, repository.AppendActivityInput{
				CaseID:      caseID,
				UserID:      actor.ID,
				ActionType:  repository.ActionStatusChange,
				Description: fmt.Sprintf("Changed status from %s to %s", current.Status, *req.Status),
				IsPublic:    true,
			})
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info("case updated", logger.UserID(actor.ID), logger.Count(len(changes)))
	if updated.IsPublic {
		// El canal público no ve campos sensibles, tampoco en el diff
		for _, key := range sensitiveChangeKeys {
			delete(changes, key)
		}
	}
	s.invalidateStats(ctx)
	s.deps.Dispatcher.CaseUpdated(audience(updated, collabs), caseID, changes, publicView(updated))

	return viewFor(actor, updated), nil
}

func (s *service) Delete(ctx context.Context, actor policy.Actor, caseID string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("cases"),
		logger.Op("Delete"),
		logger.CaseID(caseID),
	)

	_, _, rel, err := s.loadMembers(ctx, actor, caseID)
	if err != nil {
		return err
	}
	if !policy.CanDelete(rel) {
		return ErrPermissionDenied
	}

	// Colaboradores, fotos y actividad caen por cascada de FKs
	if err := s.deps.Store.Cases().Delete(ctx, caseID); err != nil {
		if repository.IsNotFound(err) {
			return ErrCaseNotFound
		}
		return err
	}

	log.Info("case deleted", logger.UserID(actor.ID))
	s.invalidateStats(ctx)
	s.deps.Dispatcher.CaseDeleted(caseID)
	return nil
}

// sensitiveChangeKeys son los campos que la redacción pública elimina.
var sensitiveChangeKeys = []string{
	"location_found", "location_current", "condition_description",
	"injuries", "treatments", "medications", "special_needs",
	"dietary_requirements", "behavior_notes",
}

// changesMap lista los campos tocados por la actualización, con clave JSON.
func changesMap(in repository.UpdateCaseInput) map[string]any {
	out := map[string]any{}
	put := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}
	put("species", in.Species)
	put("description", in.Description)
	put("status", in.Status)
	put("urgency", in.Urgency)
	put("location_found", in.LocationFound)
	put("location_found_general", in.LocationFoundGeneral)
	put("location_current", in.LocationCurrent)
	put("condition_description", in.ConditionDescription)
	put("injuries", in.Injuries)
	put("treatments", in.Treatments)
	put("medications", in.Medications)
	put("special_needs", in.SpecialNeeds)
	put("dietary_requirements", in.DietaryRequirements)
	put("behavior_notes", in.BehaviorNotes)
	put("public_notes", in.PublicNotes)
	if in.DateRescued != nil {
		out["date_rescued"] = formatTime(*in.DateRescued)
	}
	if in.IsPublic != nil {
		out["is_public"] = *in.IsPublic
	}
	return out
}
