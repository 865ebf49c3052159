package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
	"github.com/dropDatabas3/rescuetrack/internal/store/memory"
)

func newUser(t *testing.T, s *memory.Store, email string) *repository.User {
	t.Helper()
	u, err := s.Users().Create(context.Background(), repository.CreateUserInput{
		Email:        email,
		PasswordHash: "$argon2id$...",
		Name:         "Test",
		Role:         repository.RoleRescuer,
	})
	require.NoError(t, err)
	return u
}

func newCase(t *testing.T, s *memory.Store, ownerID string, mut func(*repository.CreateCaseInput)) *repository.Case {
	t.Helper()
	in := repository.CreateCaseInput{
		Species:              repository.SpeciesDog,
		Description:          "perro encontrado en la ruta",
		Status:               repository.StatusReported,
		Urgency:              repository.UrgencyMedium,
		LocationFound:        "Ruta 9 km 42",
		LocationFoundGeneral: "Campana Area",
		IsPublic:             true,
		PrimaryOwnerID:       ownerID,
	}
	if mut != nil {
		mut(&in)
	}
	c, err := s.Cases().Create(context.Background(), in)
	require.NoError(t, err)
	return c
}

func TestUsersCreateAndConflict(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	u := newUser(t, s, "maria@rescue.dev")
	require.NotEmpty(t, u.ID)
	require.True(t, u.IsActive)

	got, err := s.Users().GetByEmail(ctx, "maria@rescue.dev")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	got, err = s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "maria@rescue.dev", got.Email)

	_, err = s.Users().Create(ctx, repository.CreateUserInput{Email: "maria@rescue.dev"})
	require.ErrorIs(t, err, repository.ErrConflict)

	_, err = s.Users().GetByEmail(ctx, "nadie@rescue.dev")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCasesCRUD(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	owner := newUser(t, s, "owner@rescue.dev")

	c := newCase(t, s, owner.ID, nil)
	require.NotEmpty(t, c.ID)
	require.False(t, c.CreatedAt.IsZero())

	status := repository.StatusAtVet
	updated, err := s.Cases().Update(ctx, c.ID, repository.UpdateCaseInput{Status: &status})
	require.NoError(t, err)
	require.Equal(t, repository.StatusAtVet, updated.Status)
	require.Equal(t, c.Description, updated.Description) // los nil no tocan

	require.NoError(t, s.Cases().Delete(ctx, c.ID))
	_, err = s.Cases().GetByID(ctx, c.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, s.Cases().Delete(ctx, c.ID), repository.ErrNotFound)
}

func TestCaseCreateRequiresOwner(t *testing.T) {
	s := memory.New()
	_, err := s.Cases().Create(context.Background(), repository.CreateCaseInput{
		Species:        repository.SpeciesCat,
		PrimaryOwnerID: "no-existe",
	})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCaseDeleteCascades(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	owner := newUser(t, s, "owner@rescue.dev")
	helper := newUser(t, s, "helper@rescue.dev")

	c := newCase(t, s, owner.ID, nil)
	_, err := s.Collaborators().Add(ctx, repository.AddCollaboratorInput{
		CaseID: c.ID, UserID: helper.ID, AddedBy: owner.ID,
	})
	require.NoError(t, err)
	_, err = s.Activity().Append(ctx, repository.AppendActivityInput{
		CaseID: c.ID, UserID: owner.ID, ActionType: repository.ActionCaseCreated, IsPublic: true,
	})
	require.NoError(t, err)
	_, err = s.Photos().Add(ctx, repository.AddPhotoInput{
		CaseID: c.ID, URL: "memory://cases/x", UploadedBy: owner.ID, IsPrimary: true,
	})
	require.NoError(t, err)

	require.NoError(t, s.Cases().Delete(ctx, c.ID))

	cols, err := s.Collaborators().ListByCase(ctx, c.ID)
	require.NoError(t, err)
	require.Empty(t, cols)
	acts, err := s.Activity().ListByCase(ctx, c.ID, false, 0)
	require.NoError(t, err)
	require.Empty(t, acts)
	photos, err := s.Photos().ListByCase(ctx, c.ID)
	require.NoError(t, err)
	require.Empty(t, photos)
}

func TestListFiltersSortPaging(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	owner := newUser(t, s, "owner@rescue.dev")

	newCase(t, s, owner.ID, func(in *repository.CreateCaseInput) {
		in.Species = repository.SpeciesDog
		in.Urgency = repository.UrgencyHigh
		in.Description = "galgo flaco cerca del puente"
	})
	newCase(t, s, owner.ID, func(in *repository.CreateCaseInput) {
		in.Species = repository.SpeciesCat
		in.Urgency = repository.UrgencyLow
	})
	newCase(t, s, owner.ID, func(in *repository.CreateCaseInput) {
		in.IsPublic = false // nunca aparece en el listado público
	})

	rows, total, err := s.Cases().List(ctx, repository.ListCasesFilter{})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, rows, 2)

	rows, total, err = s.Cases().List(ctx, repository.ListCasesFilter{Species: repository.SpeciesCat})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, repository.SpeciesCat, rows[0].Species)

	rows, total, err = s.Cases().List(ctx, repository.ListCasesFilter{Search: "GALGO"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Contains(t, rows[0].Description, "galgo")

	// Orden por urgencia descendente: high primero.
	rows, _, err = s.Cases().List(ctx, repository.ListCasesFilter{SortBy: "urgency", SortOrder: "desc"})
	require.NoError(t, err)
	require.Equal(t, repository.UrgencyHigh, rows[0].Urgency)

	// Paginación: página 2 de a 1.
	rows, total, err = s.Cases().List(ctx, repository.ListCasesFilter{Page: 2, Limit: 1})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, rows, 1)

	rows, _, err = s.Cases().List(ctx, repository.ListCasesFilter{Page: 9, Limit: 10})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestListByUser(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	owner := newUser(t, s, "owner@rescue.dev")
	helper := newUser(t, s, "helper@rescue.dev")

	mine := newCase(t, s, owner.ID, nil)
	theirs := newCase(t, s, helper.ID, nil)
	_, err := s.Collaborators().Add(ctx, repository.AddCollaboratorInput{
		CaseID: theirs.ID, UserID: owner.ID, AddedBy: helper.ID,
	})
	require.NoError(t, err)

	rows, total, err := s.Cases().ListByUser(ctx, owner.ID, repository.UserCasesFilter{Filter: "my_cases"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, mine.ID, rows[0].ID)

	rows, total, err = s.Cases().ListByUser(ctx, owner.ID, repository.UserCasesFilter{Filter: "collaborating"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, theirs.ID, rows[0].ID)

	_, total, err = s.Cases().ListByUser(ctx, owner.ID, repository.UserCasesFilter{})
	require.NoError(t, err)
	require.Equal(t, 2, total)
}

func TestSummaryEnrichment(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	owner := newUser(t, s, "owner@rescue.dev")
	helper := newUser(t, s, "helper@rescue.dev")

	c := newCase(t, s, owner.ID, nil)
	_, err := s.Collaborators().Add(ctx, repository.AddCollaboratorInput{
		CaseID: c.ID, UserID: helper.ID, AddedBy: owner.ID,
	})
	require.NoError(t, err)
	_, err = s.Photos().Add(ctx, repository.AddPhotoInput{
		CaseID: c.ID, URL: "memory://cases/p1", ThumbnailURL: "memory://cases/p1-thumb",
		UploadedBy: owner.ID, IsPrimary: true,
	})
	require.NoError(t, err)

	rows, _, err := s.Cases().List(ctx, repository.ListCasesFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Test", rows[0].OwnerName)
	require.Equal(t, repository.RoleRescuer, rows[0].OwnerRole)
	require.Equal(t, "memory://cases/p1", rows[0].PrimaryPhotoURL)
	require.Equal(t, 1, rows[0].CollaboratorCount)
}

func TestStats(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	owner := newUser(t, s, "owner@rescue.dev")

	rescued := time.Now().UTC().AddDate(0, 0, -2)
	newCase(t, s, owner.ID, func(in *repository.CreateCaseInput) {
		in.Status = repository.StatusAtFoster
		in.Urgency = repository.UrgencyHigh
		in.DateRescued = &rescued
	})
	newCase(t, s, owner.ID, func(in *repository.CreateCaseInput) {
		in.Status = repository.StatusAdopted
	})
	newCase(t, s, owner.ID, func(in *repository.CreateCaseInput) {
		in.IsPublic = false // los privados no cuentan
	})

	monthStart := time.Now().UTC().AddDate(0, 0, -10)
	st, err := s.Cases().Stats(ctx, monthStart)
	require.NoError(t, err)
	require.Equal(t, 1, st.ActiveCases) // adopted no es activo
	require.Equal(t, 1, st.RescuedThisMonth)
	require.Equal(t, 1, st.InFosterCare)
	require.Equal(t, 1, st.AdoptedThisMonth)
	require.Equal(t, 1, st.ByUrgency[repository.UrgencyHigh])
	require.Equal(t, 1, st.ByStatus[repository.StatusAdopted])
	require.Equal(t, 2, st.BySpecies[repository.SpeciesDog])
}

func TestTokensConsumeOnce(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	u := newUser(t, s, "owner@rescue.dev")

	id, err := s.Tokens().Create(ctx, repository.CreateRefreshTokenInput{
		UserID: u.ID, TokenHash: "hash-1", ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	tok, err := s.Tokens().ConsumeByHash(ctx, "hash-1")
	require.NoError(t, err)
	require.Equal(t, u.ID, tok.UserID)

	// Segunda presentación del mismo hash falla.
	_, err = s.Tokens().ConsumeByHash(ctx, "hash-1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	// DeleteByHash es idempotente.
	require.NoError(t, s.Tokens().DeleteByHash(ctx, "hash-1"))
}

func TestTokensDeleteExpired(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	u := newUser(t, s, "owner@rescue.dev")

	now := time.Now().UTC()
	_, err := s.Tokens().Create(ctx, repository.CreateRefreshTokenInput{
		UserID: u.ID, TokenHash: "vivo", ExpiresAt: now.Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = s.Tokens().Create(ctx, repository.CreateRefreshTokenInput{
		UserID: u.ID, TokenHash: "vencido", ExpiresAt: now.Add(-time.Hour),
	})
	require.NoError(t, err)

	n, err := s.Tokens().DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = s.Tokens().ConsumeByHash(ctx, "vivo")
	require.NoError(t, err)
}

func TestCollaboratorsAddRemove(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	owner := newUser(t, s, "owner@rescue.dev")
	helper := newUser(t, s, "helper@rescue.dev")
	c := newCase(t, s, owner.ID, nil)

	col, err := s.Collaborators().Add(ctx, repository.AddCollaboratorInput{
		CaseID: c.ID, UserID: helper.ID, RoleLabel: "Treating Vet", AddedBy: owner.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "Treating Vet", col.RoleLabel)

	_, err = s.Collaborators().Add(ctx, repository.AddCollaboratorInput{
		CaseID: c.ID, UserID: helper.ID, AddedBy: owner.ID,
	})
	require.ErrorIs(t, err, repository.ErrConflict)

	got, err := s.Collaborators().Get(ctx, c.ID, helper.ID)
	require.NoError(t, err)
	require.Equal(t, col.ID, got.ID)

	require.NoError(t, s.Collaborators().Remove(ctx, c.ID, helper.ID))
	require.ErrorIs(t, s.Collaborators().Remove(ctx, c.ID, helper.ID), repository.ErrNotFound)
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	owner := newUser(t, s, "owner@rescue.dev")
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Cases().Create(ctx, repository.CreateCaseInput{
			Species: repository.SpeciesDog, PrimaryOwnerID: owner.ID, IsPublic: true,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, total, err := s.Cases().List(ctx, repository.ListCasesFilter{})
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestWithinTxCommits(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	owner := newUser(t, s, "owner@rescue.dev")

	err := s.WithinTx(ctx, func(tx repository.Store) error {
		c, err := tx.Cases().Create(ctx, repository.CreateCaseInput{
			Species: repository.SpeciesDog, PrimaryOwnerID: owner.ID, IsPublic: true,
		})
		if err != nil {
			return err
		}
		_, err = tx.Activity().Append(ctx, repository.AppendActivityInput{
			CaseID: c.ID, UserID: owner.ID, ActionType: repository.ActionCaseCreated, IsPublic: true,
		})
		return err
	})
	require.NoError(t, err)

	_, total, err := s.Cases().List(ctx, repository.ListCasesFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
}
