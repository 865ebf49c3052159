package cases_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
	"github.com/dropDatabas3/rescuetrack/internal/events"
	dto "github.com/dropDatabas3/rescuetrack/internal/http/dto/cases"
	casessvc "github.com/dropDatabas3/rescuetrack/internal/http/services/cases"
	"github.com/dropDatabas3/rescuetrack/internal/policy"
	"github.com/dropDatabas3/rescuetrack/internal/store/memory"
	"github.com/dropDatabas3/rescuetrack/internal/validation"
)

type fixture struct {
	svc   casessvc.Service
	store *memory.Store
	rec   *events.Recorder
	owner policy.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	rec := &events.Recorder{}
	u, err := store.Users().Create(context.Background(), repository.CreateUserInput{
		Email: "owner@rescue.dev", Name: "Owner", Role: repository.RoleRescuer,
	})
	require.NoError(t, err)
	return &fixture{
		svc:   casessvc.New(casessvc.Deps{Store: store, Dispatcher: rec}),
		store: store,
		rec:   rec,
		owner: policy.Actor{ID: u.ID, Role: u.Role},
	}
}

func (f *fixture) addUser(t *testing.T, email string) policy.Actor {
	t.Helper()
	u, err := f.store.Users().Create(context.Background(), repository.CreateUserInput{
		Email: email, Name: "User", Role: repository.RoleVet,
	})
	require.NoError(t, err)
	return policy.Actor{ID: u.ID, Role: u.Role}
}

func (f *fixture) create(t *testing.T, mut func(*dto.CreateCaseRequest)) *dto.CaseResponse {
	t.Helper()
	req := dto.CreateCaseRequest{
		Species:       repository.SpeciesDog,
		Description:   "perro flaco en la banquina",
		Urgency:       repository.UrgencyHigh,
		LocationFound: "Ruta 9 km 42, Campana",
	}
	if mut != nil {
		mut(&req)
	}
	c, err := f.svc.Create(context.Background(), f.owner, req)
	require.NoError(t, err)
	return c
}

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

func TestGeneralArea(t *testing.T) {
	require.Equal(t, "Campana Area", casessvc.GeneralArea("Ruta 9 km 42, Campana"))
	require.Equal(t, "CABA Area", casessvc.GeneralArea("Callao 123, Balvanera, CABA"))
	require.Equal(t, "General Area", casessvc.GeneralArea("sin coma"))
	require.Equal(t, "General Area", casessvc.GeneralArea("termina en coma,  "))
}

func TestCreateDefaults(t *testing.T) {
	f := newFixture(t)

	c := f.create(t, nil)
	require.Equal(t, repository.StatusReported, c.Status)
	require.True(t, c.IsPublic)
	require.Equal(t, "Campana Area", c.LocationFoundGeneral)
	require.Equal(t, f.owner.ID, c.PrimaryOwnerID)

	// La creación registra actividad y despacha al canal público.
	require.Len(t, f.rec.Created, 1)
	require.True(t, f.rec.Created[0].Audience.Public)

	full, err := f.svc.Get(context.Background(), f.owner, c.ID)
	require.NoError(t, err)
	require.Len(t, full.Activity, 1)
	require.Equal(t, repository.ActionCaseCreated, full.Activity[0].ActionType)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.owner, dto.CreateCaseRequest{
		Species:     "dragon",
		Urgency:     "urgent",
		DateRescued: "ayer",
	})
	var verr validation.Errors
	require.ErrorAs(t, err, &verr)
	fields := map[string]bool{}
	for _, fe := range verr {
		fields[fe.Field] = true
	}
	require.True(t, fields["species"])
	require.True(t, fields["urgency"])
	require.True(t, fields["description"])
	require.True(t, fields["location_found"])
	require.True(t, fields["date_rescued"])
}

func TestAnonymousRedaction(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, func(req *dto.CreateCaseRequest) {
		req.Injuries = "fractura expuesta"
		req.Medications = "tramadol"
		req.PublicNotes = "muy manso"
	})

	anon, err := f.svc.Get(context.Background(), policy.Actor{}, c.ID)
	require.NoError(t, err)
	require.Empty(t, anon.LocationFound)
	require.Empty(t, anon.LocationCurrent)
	require.Empty(t, anon.Injuries)
	require.Empty(t, anon.Medications)
	require.Equal(t, "Campana Area", anon.LocationFoundGeneral)
	require.Equal(t, "muy manso", anon.PublicNotes)

	// Un usuario autenticado cualquiera ve el caso completo.
	stranger := f.addUser(t, "vet@rescue.dev")
	full, err := f.svc.Get(context.Background(), stranger, c.ID)
	require.NoError(t, err)
	require.Equal(t, "fractura expuesta", full.Injuries)
	require.Equal(t, "Ruta 9 km 42, Campana", full.LocationFound)
}

func TestPrivateCaseHidesExistence(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, func(req *dto.CreateCaseRequest) { req.IsPublic = boolp(false) })

	stranger := f.addUser(t, "vet@rescue.dev")
	_, err := f.svc.Get(context.Background(), stranger, c.ID)
	require.ErrorIs(t, err, casessvc.ErrCaseNotFound)
	_, err = f.svc.Get(context.Background(), policy.Actor{}, c.ID)
	require.ErrorIs(t, err, casessvc.ErrCaseNotFound)

	// El owner sí lo ve.
	_, err = f.svc.Get(context.Background(), f.owner, c.ID)
	require.NoError(t, err)
}

func TestUpdateStatusLogsActivity(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, nil)

	updated, err := f.svc.Update(context.Background(), f.owner, c.ID, dto.UpdateCaseRequest{
		Status: strp(repository.StatusAtVet),
	})
	require.NoError(t, err)
	require.Equal(t, repository.StatusAtVet, updated.Status)

	full, err := f.svc.Get(context.Background(), f.owner, c.ID)
	require.NoError(t, err)
	require.Len(t, full.Activity, 2)
	// Más reciente primero.
	require.Equal(t, repository.ActionStatusChange, full.Activity[0].ActionType)
	require.Contains(t, full.Activity[0].Description, "reported")
	require.Contains(t, full.Activity[0].Description, "at_vet")

	// Repetir el mismo status no agrega otra entrada.
	_, err = f.svc.Update(context.Background(), f.owner, c.ID, dto.UpdateCaseRequest{
		Status: strp(repository.StatusAtVet),
	})
	require.NoError(t, err)
	full, err = f.svc.Get(context.Background(), f.owner, c.ID)
	require.NoError(t, err)
	require.Len(t, full.Activity, 2)
}

func TestUpdateRederivesGeneralArea(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, nil)

	updated, err := f.svc.Update(context.Background(), f.owner, c.ID, dto.UpdateCaseRequest{
		LocationFound: strp("Av. San Martín 500, Zárate"),
	})
	require.NoError(t, err)
	require.Equal(t, "Zárate Area", updated.LocationFoundGeneral)
}

func TestUpdateAuthorization(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, nil)
	stranger := f.addUser(t, "vet@rescue.dev")

	// Un caso público es legible pero no editable por terceros.
	_, err := f.svc.Update(context.Background(), stranger, c.ID, dto.UpdateCaseRequest{
		Status: strp(repository.StatusRescued),
	})
	require.ErrorIs(t, err, casessvc.ErrPermissionDenied)

	// Como colaborador, la edición pasa.
	_, err = f.store.Collaborators().Add(context.Background(), repository.AddCollaboratorInput{
		CaseID: c.ID, UserID: stranger.ID, AddedBy: f.owner.ID,
	})
	require.NoError(t, err)
	_, err = f.svc.Update(context.Background(), stranger, c.ID, dto.UpdateCaseRequest{
		Status: strp(repository.StatusRescued),
	})
	require.NoError(t, err)
}

func TestUpdateStripsSensitiveChangesFromPublicFanOut(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, nil)

	_, err := f.svc.Update(context.Background(), f.owner, c.ID, dto.UpdateCaseRequest{
		Status:   strp(repository.StatusAtVet),
		Injuries: strp("fractura expuesta"),
	})
	require.NoError(t, err)

	require.Len(t, f.rec.Updated, 1)
	upd := f.rec.Updated[0]
	require.True(t, upd.Audience.Public)
	require.Equal(t, repository.StatusAtVet, upd.Changes["status"])
	require.NotContains(t, upd.Changes, "injuries")

	view, ok := upd.Case.(*dto.CaseResponse)
	require.True(t, ok)
	require.Empty(t, view.Injuries)
}

func TestPrivateCaseFanOutTargetsMembers(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, func(req *dto.CreateCaseRequest) { req.IsPublic = boolp(false) })
	helper := f.addUser(t, "vet@rescue.dev")
	_, err := f.store.Collaborators().Add(context.Background(), repository.AddCollaboratorInput{
		CaseID: c.ID, UserID: helper.ID, AddedBy: f.owner.ID,
	})
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), f.owner, c.ID, dto.UpdateCaseRequest{
		Injuries: strp("fractura"),
	})
	require.NoError(t, err)

	upd := f.rec.Updated[len(f.rec.Updated)-1]
	require.False(t, upd.Audience.Public)
	require.ElementsMatch(t, []string{f.owner.ID, helper.ID}, upd.Audience.UserIDs)
	// En canal privado el diff no se redacta.
	require.Equal(t, "fractura", upd.Changes["injuries"])
}

func TestDeleteOwnerOnly(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, nil)
	helper := f.addUser(t, "vet@rescue.dev")
	_, err := f.store.Collaborators().Add(context.Background(), repository.AddCollaboratorInput{
		CaseID: c.ID, UserID: helper.ID, AddedBy: f.owner.ID,
	})
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), helper, c.ID)
	require.ErrorIs(t, err, casessvc.ErrPermissionDenied)

	require.NoError(t, f.svc.Delete(context.Background(), f.owner, c.ID))
	require.Equal(t, []string{c.ID}, f.rec.Deleted)

	_, err = f.svc.Get(context.Background(), f.owner, c.ID)
	require.ErrorIs(t, err, casessvc.ErrCaseNotFound)
}

func TestListValidatesAndPaginates(t *testing.T) {
	f := newFixture(t)
	f.create(t, nil)
	f.create(t, func(req *dto.CreateCaseRequest) { req.Species = repository.SpeciesCat })

	_, err := f.svc.List(context.Background(), repository.ListCasesFilter{Status: "lost"})
	var verr validation.Errors
	require.ErrorAs(t, err, &verr)

	out, err := f.svc.List(context.Background(), repository.ListCasesFilter{Limit: 1})
	require.NoError(t, err)
	require.Equal(t, 2, out.Total)
	require.Len(t, out.Cases, 1)
	require.Equal(t, 1, out.Page)

	out, err = f.svc.List(context.Background(), repository.ListCasesFilter{Species: repository.SpeciesCat})
	require.NoError(t, err)
	require.Equal(t, 1, out.Total)
}

func TestUserCases(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, nil)
	helper := f.addUser(t, "vet@rescue.dev")
	_, err := f.store.Collaborators().Add(context.Background(), repository.AddCollaboratorInput{
		CaseID: c.ID, UserID: helper.ID, AddedBy: f.owner.ID,
	})
	require.NoError(t, err)

	out, err := f.svc.UserCases(context.Background(), helper.ID, repository.UserCasesFilter{Filter: "collaborating"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Total)

	out, err = f.svc.UserCases(context.Background(), helper.ID, repository.UserCasesFilter{Filter: "my_cases"})
	require.NoError(t, err)
	require.Zero(t, out.Total)

	_, err = f.svc.UserCases(context.Background(), helper.ID, repository.UserCasesFilter{Filter: "invento"})
	var verr validation.Errors
	require.ErrorAs(t, err, &verr)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC().Format(time.RFC3339)
	f.create(t, func(req *dto.CreateCaseRequest) {
		req.Status = repository.StatusAtFoster
		req.DateRescued = now
	})
	f.create(t, func(req *dto.CreateCaseRequest) { req.Status = repository.StatusAdopted })

	st, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, st.ActiveCases)
	require.Equal(t, 1, st.InFosterCare)
	require.Equal(t, 1, st.RescuedThisMonth)
	require.Equal(t, 1, st.ByUrgency[repository.UrgencyHigh])
}
