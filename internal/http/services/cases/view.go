package cases

import (
	"context"
	"strings"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
	dto "github.com/dropDatabas3/rescuetrack/internal/http/dto/cases"
	"github.com/dropDatabas3/rescuetrack/internal/policy"
)

// GeneralArea deriva la zona aproximada desde la ubicación precisa: el texto
// después de la última coma más " Area". Sin coma no hay zona que inferir.
func GeneralArea(precise string) string {
	if i := strings.LastIndex(precise, ","); i >= 0 {
		if part := strings.TrimSpace(precise[i+1:]); part != "" {
			return part + " Area"
		}
	}
	return "General Area"
}

// baseView construye la vista completa de un caso, sin redacción.
func baseView(c *repository.Case) *dto.CaseResponse {
	return &dto.CaseResponse{
		ID:                   c.ID,
		Species:              c.Species,
		Description:          c.Description,
		Status:               c.Status,
		Urgency:              c.Urgency,
		LocationFound:        c.LocationFound,
		LocationFoundGeneral: c.LocationFoundGeneral,
		LocationCurrent:      c.LocationCurrent,
		DateRescued:          formatTimePtr(c.DateRescued),
		ConditionDescription: c.ConditionDescription,
		Injuries:             c.Injuries,
		Treatments:           c.Treatments,
		Medications:          c.Medications,
		SpecialNeeds:         c.SpecialNeeds,
		DietaryRequirements:  c.DietaryRequirements,
		BehaviorNotes:        c.BehaviorNotes,
		PublicNotes:          c.PublicNotes,
		IsPublic:             c.IsPublic,
		PrimaryOwnerID:       c.PrimaryOwnerID,
		CreatedAt:            formatTime(c.CreatedAt),
		UpdatedAt:            formatTime(c.UpdatedAt),
	}
}

// redact borra de la vista lo que un lector anónimo no debe ver: ubicación
// precisa y campos clínicos. Queda la zona general y las notas públicas.
func redact(v *dto.CaseResponse) *dto.CaseResponse {
	v.LocationFound = ""
	v.LocationCurrent = ""
	v.ConditionDescription = ""
	v.Injuries = ""
	v.Treatments = ""
	v.Medications = ""
	v.SpecialNeeds = ""
	v.DietaryRequirements = ""
	v.BehaviorNotes = ""
	return v
}

// viewFor arma la vista según el actor.
func viewFor(actor policy.Actor, c *repository.Case) *dto.CaseResponse {
	v := baseView(c)
	if !policy.CanViewSensitive(actor) {
		v = redact(v)
	}
	return v
}

// publicView es la vista que viaja por el canal público del fan-out.
func publicView(c *repository.Case) *dto.CaseResponse {
	if c.IsPublic {
		return redact(baseView(c))
	}
	return baseView(c)
}

func photoView(p repository.Photo) dto.PhotoResponse {
	return dto.PhotoResponse{
		ID:           p.ID,
		CaseID:       p.CaseID,
		URL:          p.URL,
		ThumbnailURL: p.ThumbnailURL,
		OrderIndex:   p.OrderIndex,
		IsPrimary:    p.IsPrimary,
		UploadedAt:   formatTime(p.UploadedAt),
	}
}

func activityView(e repository.ActivityLogEntry) dto.ActivityResponse {
	return dto.ActivityResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		UserName:    e.UserName,
		ActionType:  e.ActionType,
		Description: e.Description,
		IsPublic:    e.IsPublic,
		CreatedAt:   formatTime(e.CreatedAt),
	}
}

func summaryView(s repository.CaseSummary) dto.CaseSummaryResponse {
	return dto.CaseSummaryResponse{
		ID:                   s.ID,
		Species:              s.Species,
		Description:          s.Description,
		Status:               s.Status,
		Urgency:              s.Urgency,
		LocationFoundGeneral: s.LocationFoundGeneral,
		DateRescued:          formatTimePtr(s.DateRescued),
		IsPublic:             s.IsPublic,
		OwnerName:            s.OwnerName,
		OwnerRole:            s.OwnerRole,
		PrimaryPhotoURL:      s.PrimaryPhotoURL,
		PrimaryThumbURL:      s.PrimaryThumbURL,
		CollaboratorCount:    s.CollaboratorCount,
		CreatedAt:            formatTime(s.CreatedAt),
		UpdatedAt:            formatTime(s.UpdatedAt),
	}
}

// collaboratorViews resuelve los nombres de los colaboradores.
func (s *service) collaboratorViews(ctx context.Context, collabs []repository.Collaborator) ([]dto.CollaboratorResponse, error) {
	out := make([]dto.CollaboratorResponse, 0, len(collabs))
	for _, col := range collabs {
		cv := dto.CollaboratorResponse{
			ID:        col.ID,
			UserID:    col.UserID,
			RoleLabel: col.RoleLabel,
			AddedAt:   formatTime(col.AddedAt),
		}
		if u, err := s.deps.Store.Users().GetByID(ctx, col.UserID); err == nil {
			cv.Name = u.Name
			cv.Role = u.Role
		}
		out = append(out, cv)
	}
	return out, nil
}
