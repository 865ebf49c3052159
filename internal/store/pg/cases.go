package pg

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
)

type caseRepo struct {
	q querier
}

const caseColumns = `c.id, c.species, COALESCE(c.description, ''), c.status, c.urgency,
	c.location_found, COALESCE(c.location_found_general, ''), COALESCE(c.location_current, ''),
	c.date_rescued, COALESCE(c.condition_description, ''), COALESCE(c.injuries, ''),
	COALESCE(c.treatments, ''), COALESCE(c.medications, ''), COALESCE(c.special_needs, ''),
	COALESCE(c.dietary_requirements, ''), COALESCE(c.behavior_notes, ''), COALESCE(c.public_notes, ''),
	c.is_public, c.primary_owner_id, c.created_at, c.updated_at`

// caseReturning es caseColumns sin el alias "c.", para cláusulas RETURNING
// donde la tabla no lleva alias.
var caseReturning = strings.ReplaceAll(caseColumns, "c.", "")

func scanCase(row pgx.Row) (*repository.Case, error) {
	var c repository.Case
	err := row.Scan(
		&c.ID, &c.Species, &c.Description, &c.Status, &c.Urgency,
		&c.LocationFound, &c.LocationFoundGeneral, &c.LocationCurrent,
		&c.DateRescued, &c.ConditionDescription, &c.Injuries,
		&c.Treatments, &c.Medications, &c.SpecialNeeds,
		&c.DietaryRequirements, &c.BehaviorNotes, &c.PublicNotes,
		&c.IsPublic, &c.PrimaryOwnerID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func (r *caseRepo) Create(ctx context.Context, input repository.CreateCaseInput) (*repository.Case, error) {
	q := `
		INSERT INTO cases (
			id, species, description, status, urgency,
			location_found, location_found_general, location_current, date_rescued,
			condition_description, injuries, treatments, medications,
			special_needs, dietary_requirements, behavior_notes, public_notes,
			is_public, primary_owner_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12, $13,
			$14, $15, $16, $17,
			$18, $19, NOW(), NOW()
		)
		RETURNING ` + caseReturning

	row := r.q.QueryRow(ctx, q,
		uuid.NewString(), input.Species, nullIfEmpty(input.Description), input.Status, input.Urgency,
		input.LocationFound, nullIfEmpty(input.LocationFoundGeneral), nullIfEmpty(input.LocationCurrent), input.DateRescued,
		nullIfEmpty(input.ConditionDescription), nullIfEmpty(input.Injuries), nullIfEmpty(input.Treatments), nullIfEmpty(input.Medications),
		nullIfEmpty(input.SpecialNeeds), nullIfEmpty(input.DietaryRequirements), nullIfEmpty(input.BehaviorNotes), nullIfEmpty(input.PublicNotes),
		input.IsPublic, input.PrimaryOwnerID,
	)
	return scanCase(row)
}

func (r *caseRepo) GetByID(ctx context.Context, caseID string) (*repository.Case, error) {
	const q = `SELECT ` + caseColumns + ` FROM cases c WHERE c.id = $1`
	return scanCase(r.q.QueryRow(ctx, q, caseID))
}

// columna por campo actualizable; solo los punteros no-nil entran al SET.
func (r *caseRepo) Update(ctx context.Context, caseID string, input repository.UpdateCaseInput) (*repository.Case, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{caseID}

	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if input.Species != nil {
		add("species", *input.Species)
	}
	if input.Description != nil {
		add("description", nullIfEmpty(*input.Description))
	}
	if input.Status != nil {
		add("status", *input.Status)
	}
	if input.Urgency != nil {
		add("urgency", *input.Urgency)
	}
	if input.LocationFound != nil {
		add("location_found", *input.LocationFound)
	}
	if input.LocationFoundGeneral != nil {
		add("location_found_general", nullIfEmpty(*input.LocationFoundGeneral))
	}
	if input.LocationCurrent != nil {
		add("location_current", nullIfEmpty(*input.LocationCurrent))
	}
	if input.DateRescued != nil {
		add("date_rescued", *input.DateRescued)
	}
	if input.ConditionDescription != nil {
		add("condition_description", nullIfEmpty(*input.ConditionDescription))
	}
	if input.Injuries != nil {
		add("injuries", nullIfEmpty(*input.Injuries))
	}
	if input.Treatments != nil {
		add("treatments", nullIfEmpty(*input.Treatments))
	}
	if input.Medications != nil {
		add("medications", nullIfEmpty(*input.Medications))
	}
	if input.SpecialNeeds != nil {
		add("special_needs", nullIfEmpty(*input.SpecialNeeds))
	}
	if input.DietaryRequirements != nil {
		add("dietary_requirements", nullIfEmpty(*input.DietaryRequirements))
	}
	if input.BehaviorNotes != nil {
		add("behavior_notes", nullIfEmpty(*input.BehaviorNotes))
	}
	if input.PublicNotes != nil {
		add("public_notes", nullIfEmpty(*input.PublicNotes))
	}
	if input.IsPublic != nil {
		add("is_public", *input.IsPublic)
	}
	if input.PrimaryOwnerID != nil {
		add("primary_owner_id", *input.PrimaryOwnerID)
	}

	q := fmt.Sprintf(`UPDATE cases SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(set, ", "), caseReturning)
	return scanCase(r.q.QueryRow(ctx, q, args...))
}

func (r *caseRepo) Delete(ctx context.Context, caseID string) error {
	const q = `DELETE FROM cases WHERE id = $1`
	ct, err := r.q.Exec(ctx, q, caseID)
	if err != nil {
		return translateError(err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *caseRepo) Touch(ctx context.Context, caseID string, now time.Time) error {
	const q = `UPDATE cases SET updated_at = $2 WHERE id = $1`
	_, err := r.q.Exec(ctx, q, caseID, now)
	return translateError(err)
}

var caseSortColumns = map[string]string{
	"created_at": "c.created_at",
	"updated_at": "c.updated_at",
	"urgency":    "c.urgency",
}

const summaryJoin = `
	JOIN users u ON u.id = c.primary_owner_id
	LEFT JOIN LATERAL (
		SELECT url, thumbnail_url FROM photos p
		WHERE p.case_id = c.id AND p.is_primary
		LIMIT 1
	) pp ON TRUE`

const summaryColumns = `, u.name, u.role,
	COALESCE(pp.url, ''), COALESCE(pp.thumbnail_url, ''),
	(SELECT COUNT(*) FROM case_collaborators cc WHERE cc.case_id = c.id)`

func scanSummaries(rows pgx.Rows) ([]repository.CaseSummary, error) {
	defer rows.Close()
	var out []repository.CaseSummary
	for rows.Next() {
		var s repository.CaseSummary
		err := rows.Scan(
			&s.ID, &s.Species, &s.Description, &s.Status, &s.Urgency,
			&s.LocationFound, &s.LocationFoundGeneral, &s.LocationCurrent,
			&s.DateRescued, &s.ConditionDescription, &s.Injuries,
			&s.Treatments, &s.Medications, &s.SpecialNeeds,
			&s.DietaryRequirements, &s.BehaviorNotes, &s.PublicNotes,
			&s.IsPublic, &s.PrimaryOwnerID, &s.CreatedAt, &s.UpdatedAt,
			&s.OwnerName, &s.OwnerRole,
			&s.PrimaryPhotoURL, &s.PrimaryThumbURL,
			&s.CollaboratorCount,
		)
		if err != nil {
			return nil, translateError(err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *caseRepo) List(ctx context.Context, filter repository.ListCasesFilter) ([]repository.CaseSummary, int, error) {
	where := []string{"c.is_public"}
	var args []any

	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		add("c.status = $%d", filter.Status)
	}
	if filter.Species != "" {
		add("c.species = $%d", filter.Species)
	}
	if filter.Urgency != "" {
		add("c.urgency = $%d", filter.Urgency)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(c.description ILIKE $%d OR c.location_found_general ILIKE $%d OR c.location_current ILIKE $%d)", n, n, n))
	}

	cond := strings.Join(where, " AND ")

	var total int
	countQ := "SELECT COUNT(*) FROM cases c WHERE " + cond
	if err := r.q.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, translateError(err)
	}

	sortCol, ok := caseSortColumns[filter.SortBy]
	if !ok {
		sortCol = "c.updated_at"
	}
	dir := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		dir = "ASC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	q := fmt.Sprintf(`SELECT %s%s FROM cases c %s WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		caseColumns, summaryColumns, summaryJoin, cond, sortCol, dir, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, translateError(err)
	}
	out, err := scanSummaries(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *caseRepo) ListByUser(ctx context.Context, userID string, filter repository.UserCasesFilter) ([]repository.CaseSummary, int, error) {
	var member string
	switch filter.Filter {
	case "my_cases":
		member = "c.primary_owner_id = $1"
	case "collaborating":
		member = "EXISTS (SELECT 1 FROM case_collaborators cc WHERE cc.case_id = c.id AND cc.user_id = $1)"
	default: // "all"
		member = "(c.primary_owner_id = $1 OR EXISTS (SELECT 1 FROM case_collaborators cc WHERE cc.case_id = c.id AND cc.user_id = $1))"
	}

	where := []string{member}
	args := []any{userID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("c.status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	countQ := "SELECT COUNT(*) FROM cases c WHERE " + cond
	if err := r.q.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, translateError(err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	q := fmt.Sprintf(`SELECT %s%s FROM cases c %s WHERE %s ORDER BY c.updated_at DESC LIMIT $%d OFFSET $%d`,
		caseColumns, summaryColumns, summaryJoin, cond, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, translateError(err)
	}
	out, err := scanSummaries(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *caseRepo) Stats(ctx context.Context, monthStart time.Time) (*repository.CaseStats, error) {
	st := &repository.CaseStats{
		ByUrgency: map[string]int{},
		ByStatus:  map[string]int{},
		BySpecies: map[string]int{},
	}

	const countsQ = `
		SELECT
			COUNT(*) FILTER (WHERE status <> 'adopted'),
			COUNT(*) FILTER (WHERE date_rescued >= $1),
			COUNT(*) FILTER (WHERE status = 'at_foster'),
			COUNT(*) FILTER (WHERE status = 'adopted' AND updated_at >= $1)
		FROM cases WHERE is_public`
	err := r.q.QueryRow(ctx, countsQ, monthStart).Scan(
		&st.ActiveCases, &st.RescuedThisMonth, &st.InFosterCare, &st.AdoptedThisMonth,
	)
	if err != nil {
		return nil, translateError(err)
	}

	groupInto := func(q string, dst map[string]int, args ...any) error {
		rows, err := r.q.Query(ctx, q, args...)
		if err != nil {
			return translateError(err)
		}
		defer rows.Close()
		for rows.Next() {
			var k string
			var n int
			if err := rows.Scan(&k, &n); err != nil {
				return translateError(err)
			}
			dst[k] = n
		}
		return rows.Err()
	}

	if err := groupInto(`SELECT urgency, COUNT(*) FROM cases WHERE is_public AND status <> 'adopted' GROUP BY urgency`, st.ByUrgency); err != nil {
		return nil, err
	}
	if err := groupInto(`SELECT status, COUNT(*) FROM cases WHERE is_public GROUP BY status`, st.ByStatus); err != nil {
		return nil, err
	}
	if err := groupInto(`SELECT species, COUNT(*) FROM cases WHERE is_public GROUP BY species`, st.BySpecies); err != nil {
		return nil, err
	}
	return st, nil
}
