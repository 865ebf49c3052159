// Package cases implementa el pipeline de mutación de casos: autorizar via
// policy, validar, aplicar + registrar actividad en una transacción, y
// despachar el fan-out después del commit.
package cases

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/rescuetrack/internal/cache"
	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
	"github.com/dropDatabas3/rescuetrack/internal/events"
	dto "github.com/dropDatabas3/rescuetrack/internal/http/dto/cases"
	"github.com/dropDatabas3/rescuetrack/internal/policy"
)

// Errores del service, mapeados a HTTP por el controller.
var (
	// ErrCaseNotFound cubre tanto el caso inexistente como el caso privado
	// leído por un no-miembro: la existencia no se revela.
	ErrCaseNotFound     = errors.New("cases: case not found")
	ErrPermissionDenied = errors.New("cases: permission denied")
)

// maxActivityEntries limita el historial devuelto en la vista de detalle.
const maxActivityEntries = 50

// Service define las operaciones sobre casos.
type Service interface {
	Create(ctx context.Context, actor policy.Actor, req dto.CreateCaseRequest) (*dto.CaseResponse, error)
	Update(ctx context.Context, actor policy.Actor, caseID string, req dto.UpdateCaseRequest) (*dto.CaseResponse, error)
	Delete(ctx context.Context, actor policy.Actor, caseID string) error
	Get(ctx context.Context, actor policy.Actor, caseID string) (*dto.CaseResponse, error)
	List(ctx context.Context, filter repository.ListCasesFilter) (*dto.ListCasesResponse, error)
	UserCases(ctx context.Context, userID string, filter repository.UserCasesFilter) (*dto.ListCasesResponse, error)
	Stats(ctx context.Context) (*dto.StatsResponse, error)
}

// Deps contiene las dependencias del service.
type Deps struct {
	Store      repository.Store
	Dispatcher events.Dispatcher
	Cache      cache.Client // opcional; cachea agregados públicos
}

type service struct {
	deps Deps
}

// New crea el Service de casos.
func New(deps Deps) Service {
	if deps.Dispatcher == nil {
		deps.Dispatcher = events.Noop{}
	}
	return &service{deps: deps}
}

// loadMembers trae caso + colaboradores y calcula la relación del actor.
// El RESOURCE_NOT_FOUND por caso privado se decide acá.
func (s *service) loadMembers(ctx context.Context, actor policy.Actor, caseID string) (*repository.Case, []repository.Collaborator, policy.Relationship, error) {
	c, err := s.deps.Store.Cases().GetByID(ctx, caseID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, policy.RelationNone, ErrCaseNotFound
		}
		return nil, nil, policy.RelationNone, err
	}

	collabs, err := s.deps.Store.Collaborators().ListByCase(ctx, caseID)
	if err != nil {
		return nil, nil, policy.RelationNone, err
	}

	rel := policy.Relate(actor, c, collabs)
	if !policy.CanRead(rel, c.IsPublic) {
		return nil, nil, policy.RelationNone, ErrCaseNotFound
	}
	return c, collabs, rel, nil
}

// audience calcula a quién llega el fan-out de un caso.
func audience(c *repository.Case, collabs []repository.Collaborator) events.Audience {
	if c.IsPublic {
		return events.PublicAudience()
	}
	ids := []string{c.PrimaryOwnerID}
	for _, col := range collabs {
		ids = append(ids, col.UserID)
	}
	return events.PrivateAudience(ids...)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
