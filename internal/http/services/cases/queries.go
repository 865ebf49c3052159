package cases

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
	dto "github.com/dropDatabas3/rescuetrack/internal/http/dto/cases"
	"github.com/dropDatabas3/rescuetrack/internal/policy"
	"github.com/dropDatabas3/rescuetrack/internal/validation"
)

const maxPageLimit = 100

func clampPaging(page, limit *int) {
	if *page <= 0 {
		*page = 1
	}
	if *limit <= 0 {
		*limit = 20
	}
	if *limit > maxPageLimit {
		*limit = maxPageLimit
	}
}

func (s *service) Get(ctx context.Context, actor policy.Actor, caseID string) (*dto.CaseResponse, error) {
	c, collabs, _, err := s.loadMembers(ctx, actor, caseID)
	if err != nil {
		return nil, err
	}

	v := viewFor(actor, c)

	photos, err := s.deps.Store.Photos().ListByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	for _, p := range photos {
		v.Photos = append(v.Photos, photoView(p))
	}

	v.Collaborators, err = s.collaboratorViews(ctx, collabs)
	if err != nil {
		return nil, err
	}

	// Lectores anónimos solo ven las entradas públicas del historial
	entries, err := s.deps.Store.Activity().ListByCase(ctx, caseID, actor.Anonymous(), maxActivityEntries)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		v.Activity = append(v.Activity, activityView(e))
	}

	return v, nil
}

func (s *service) List(ctx context.Context, filter repository.ListCasesFilter) (*dto.ListCasesResponse, error) {
	var verr validation.Errors
	if filter.Status != "" && !validation.ValidStatus(filter.Status) {
		verr.Add("status", "is not a valid status")
	}
	if filter.Species != "" && !validation.ValidSpecies(filter.Species) {
		verr.Add("species", "is not a valid species")
	}
	if filter.Urgency != "" && !validation.ValidUrgency(filter.Urgency) {
		verr.Add("urgency", "is not a valid urgency")
	}
	if filter.SortBy != "" && !validation.ValidSortBy(filter.SortBy) {
		verr.Add("sort_by", "must be one of created_at, updated_at, urgency")
	}
	if !verr.Empty() {
		return nil, verr
	}
	clampPaging(&filter.Page, &filter.Limit)

	rows, total, err := s.deps.Store.Cases().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return listResponse(rows, total, filter.Page, filter.Limit), nil
}

func (s *service) UserCases(ctx context.Context, userID string, filter repository.UserCasesFilter) (*dto.ListCasesResponse, error) {
	var verr validation.Errors
	switch filter.Filter {
	case "", "all":
		filter.Filter = "all"
	case "my_cases", "collaborating":
	default:
		verr.Add("filter", "must be one of my_cases, collaborating, all")
	}
	if filter.Status != "" && !validation.ValidStatus(filter.Status) {
		verr.Add("status", "is not a valid status")
	}
	if !verr.Empty() {
		return nil, verr
	}
	clampPaging(&filter.Page, &filter.Limit)

	rows, total, err := s.deps.Store.Cases().ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return listResponse(rows, total, filter.Page, filter.Limit), nil
}

const (
	statsCacheKey = "stats:public"
	statsCacheTTL = time.Minute
)

func (s *service) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	if s.deps.Cache != nil {
		if raw, err := s.deps.Cache.Get(ctx, statsCacheKey); err == nil {
			var cached dto.StatsResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	st, err := s.deps.Store.Cases().Stats(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	resp := &dto.StatsResponse{
		ActiveCases:      st.ActiveCases,
		RescuedThisMonth: st.RescuedThisMonth,
		InFosterCare:     st.InFosterCare,
		AdoptedThisMonth: st.AdoptedThisMonth,
		ByUrgency:        st.ByUrgency,
		ByStatus:         st.ByStatus,
		BySpecies:        st.BySpecies,
	}

	if s.deps.Cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			_ = s.deps.Cache.Set(ctx, statsCacheKey, string(raw), statsCacheTTL)
		}
	}
	return resp, nil
}

// invalidateStats borra el agregado cacheado tras una mutación.
func (s *service) invalidateStats(ctx context.Context) {
	if s.deps.Cache != nil {
		_ = s.deps.Cache.Delete(ctx, statsCacheKey)
	}
}

func listResponse(rows []repository.CaseSummary, total, page, limit int) *dto.ListCasesResponse {
	out := &dto.ListCasesResponse{
		Cases: make([]dto.CaseSummaryResponse, 0, len(rows)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for _, row := range rows {
		out.Cases = append(out.Cases, summaryView(row))
	}
	return out
}
