package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
)

type caseRepo struct {
	s *Store
}

func (r *caseRepo) Create(_ context.Context, input repository.CreateCaseInput) (*repository.Case, error) {
	defer r.s.lock()()

	if _, ok := r.s.d.users[input.PrimaryOwnerID]; !ok {
		return nil, repository.ErrNotFound
	}

	now := time.Now().UTC()
	c := repository.Case{
		ID:                   uuid.NewString(),
		Species:              input.Species,
		Description:          input.Description,
		Status:               input.Status,
		Urgency:              input.Urgency,
		LocationFound:        input.LocationFound,
		LocationFoundGeneral: input.LocationFoundGeneral,
		LocationCurrent:      input.LocationCurrent,
		DateRescued:          input.DateRescued,
		ConditionDescription: input.ConditionDescription,
		Injuries:             input.Injuries,
		Treatments:           input.Treatments,
		Medications:          input.Medications,
		SpecialNeeds:         input.SpecialNeeds,
		DietaryRequirements:  input.DietaryRequirements,
		BehaviorNotes:        input.BehaviorNotes,
		PublicNotes:          input.PublicNotes,
		IsPublic:             input.IsPublic,
		PrimaryOwnerID:       input.PrimaryOwnerID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	r.s.d.cases[c.ID] = c
	return &c, nil
}

func (r *caseRepo) GetByID(_ context.Context, caseID string) (*repository.Case, error) {
	defer r.s.lock()()

	c, ok := r.s.d.cases[caseID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *caseRepo) Update(_ context.Context, caseID string, input repository.UpdateCaseInput) (*repository.Case, error) {
	defer r.s.lock()()

	c, ok := r.s.d.cases[caseID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setStr(&c.Species, input.Species)
	setStr(&c.Description, input.Description)
	setStr(&c.Status, input.Status)
	setStr(&c.Urgency, input.Urgency)
	setStr(&c.LocationFound, input.LocationFound)
	setStr(&c.LocationFoundGeneral, input.LocationFoundGeneral)
	setStr(&c.LocationCurrent, input.LocationCurrent)
	if input.DateRescued != nil {
		d := *input.DateRescued
		c.DateRescued = &d
	}
	setStr(&c.ConditionDescription, input.ConditionDescription)
	setStr(&c.Injuries, input.Injuries)
	setStr(&c.Treatments, input.Treatments)
	setStr(&c.Medications, input.Medications)
	setStr(&c.SpecialNeeds, input.SpecialNeeds)
	setStr(&c.DietaryRequirements, input.DietaryRequirements)
	setStr(&c.BehaviorNotes, input.BehaviorNotes)
	setStr(&c.PublicNotes, input.PublicNotes)
	if input.IsPublic != nil {
		c.IsPublic = *input.IsPublic
	}
	setStr(&c.PrimaryOwnerID, input.PrimaryOwnerID)
	c.UpdatedAt = time.Now().UTC()

	r.s.d.cases[caseID] = c
	return &c, nil
}

func (r *caseRepo) Delete(_ context.Context, caseID string) error {
	defer r.s.lock()()

	if _, ok := r.s.d.cases[caseID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.d.cases, caseID)

	// cascada, igual que las FKs de Postgres
	for id, col := range r.s.d.collaborators {
		if col.CaseID == caseID {
			delete(r.s.d.collaborators, id)
		}
	}
	for id, p := range r.s.d.photos {
		if p.CaseID == caseID {
			delete(r.s.d.photos, id)
		}
	}
	kept := r.s.d.activity[:0]
	for _, e := range r.s.d.activity {
		if e.CaseID != caseID {
			kept = append(kept, e)
		}
	}
	r.s.d.activity = kept
	return nil
}

func (r *caseRepo) Touch(_ context.Context, caseID string, now time.Time) error {
	defer r.s.lock()()

	c, ok := r.s.d.cases[caseID]
	if !ok {
		return repository.ErrNotFound
	}
	c.UpdatedAt = now
	r.s.d.cases[caseID] = c
	return nil
}

func (r *caseRepo) summarize(c repository.Case) repository.CaseSummary {
	s := repository.CaseSummary{Case: c}
	if owner, ok := r.s.d.users[c.PrimaryOwnerID]; ok {
		s.OwnerName = owner.Name
		s.OwnerRole = owner.Role
	}
	for _, p := range r.s.d.photos {
		if p.CaseID == c.ID && p.IsPrimary {
			s.PrimaryPhotoURL = p.URL
			s.PrimaryThumbURL = p.ThumbnailURL
			break
		}
	}
	for _, col := range r.s.d.collaborators {
		if col.CaseID == c.ID {
			s.CollaboratorCount++
		}
	}
	return s
}

func matchesSearch(c repository.Case, needle string) bool {
	needle = strings.ToLower(needle)
	for _, field := range []string{c.Description, c.LocationFoundGeneral, c.LocationCurrent} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

var urgencyRank = map[string]int{
	repository.UrgencyHigh:   3,
	repository.UrgencyMedium: 2,
	repository.UrgencyLow:    1,
}

func sortSummaries(out []repository.CaseSummary, sortBy, sortOrder string) {
	asc := strings.EqualFold(sortOrder, "asc")
	sort.SliceStable(out, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "created_at":
			less = out[i].CreatedAt.Before(out[j].CreatedAt)
		case "urgency":
			less = urgencyRank[out[i].Urgency] < urgencyRank[out[j].Urgency]
		default:
			less = out[i].UpdatedAt.Before(out[j].UpdatedAt)
		}
		if asc {
			return less
		}
		return !less
	})
}

func paginate(out []repository.CaseSummary, page, limit int) []repository.CaseSummary {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(out) {
		return nil
	}
	end := start + limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end]
}

func (r *caseRepo) List(_ context.Context, filter repository.ListCasesFilter) ([]repository.CaseSummary, int, error) {
	defer r.s.lock()()

	var out []repository.CaseSummary
	for _, c := range r.s.d.cases {
		if !c.IsPublic {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Species != "" && c.Species != filter.Species {
			continue
		}
		if filter.Urgency != "" && c.Urgency != filter.Urgency {
			continue
		}
		if filter.Search != "" && !matchesSearch(c, filter.Search) {
			continue
		}
		out = append(out, r.summarize(c))
	}

	sortSummaries(out, filter.SortBy, filter.SortOrder)
	total := len(out)
	return paginate(out, filter.Page, filter.Limit), total, nil
}

func (r *caseRepo) ListByUser(_ context.Context, userID string, filter repository.UserCasesFilter) ([]repository.CaseSummary, int, error) {
	defer r.s.lock()()

	collaborating := func(caseID string) bool {
		for _, col := range r.s.d.collaborators {
			if col.CaseID == caseID && col.UserID == userID {
				return true
			}
		}
		return false
	}

	var out []repository.CaseSummary
	for _, c := range r.s.d.cases {
		var member bool
		switch filter.Filter {
		case "my_cases":
			member = c.PrimaryOwnerID == userID
		case "collaborating":
			member = collaborating(c.ID)
		default:
			member = c.PrimaryOwnerID == userID || collaborating(c.ID)
		}
		if !member {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, r.summarize(c))
	}

	sortSummaries(out, "updated_at", "desc")
	total := len(out)
	return paginate(out, filter.Page, filter.Limit), total, nil
}

func (r *caseRepo) Stats(_ context.Context, monthStart time.Time) (*repository.CaseStats, error) {
	defer r.s.lock()()

	st := &repository.CaseStats{
		ByUrgency: map[string]int{},
		ByStatus:  map[string]int{},
		BySpecies: map[string]int{},
	}
	for _, c := range r.s.d.cases {
		if !c.IsPublic {
			continue
		}
		if c.Status != repository.StatusAdopted {
			st.ActiveCases++
			st.ByUrgency[c.Urgency]++
		}
		if c.DateRescued != nil && !c.DateRescued.Before(monthStart) {
			st.RescuedThisMonth++
		}
		if c.Status == repository.StatusAtFoster {
			st.InFosterCare++
		}
		if c.Status == repository.StatusAdopted && !c.UpdatedAt.Before(monthStart) {
			st.AdoptedThisMonth++
		}
		st.ByStatus[c.Status]++
		st.BySpecies[c.Species]++
	}
	return st, nil
}
