package repository

import (
	"context"
	"time"
)

// Especies válidas.
const (
	SpeciesDog      = "dog"
	SpeciesCat      = "cat"
	SpeciesSquirrel = "squirrel"
	SpeciesIguana   = "iguana"
	SpeciesOther    = "other"
)

// Estados del ciclo de vida de un caso. El campo status es una etiqueta
// libre dentro de este conjunto: cualquier editor autorizado puede asignar
// cualquier valor, sin grafo de transiciones validado.
const (
	StatusReported      = "reported"
	StatusRescued       = "rescued"
	StatusAtVet         = "at_vet"
	StatusSurgery       = "surgery"
	StatusAtFoster      = "at_foster"
	StatusAdoptionTalks = "adoption_talks"
	StatusAdopted       = "adopted"
)

// Urgencias válidas.
const (
	UrgencyHigh   = "high"
	UrgencyMedium = "medium"
	UrgencyLow    = "low"
)

// Case representa un caso de rescate. locationFound es la ubicación precisa;
// locationFoundGeneral es la derivación saneada que ven lectores anónimos.
type Case struct {
	ID                   string
	Species              string
	Description          string
	Status               string
	Urgency              string
	LocationFound        string
	LocationFoundGeneral string
	LocationCurrent      string
	DateRescued          *time.Time
	ConditionDescription string
	Injuries             string
	Treatments           string
	Medications          string
	SpecialNeeds         string
	DietaryRequirements  string
	BehaviorNotes        string
	PublicNotes          string
	IsPublic             bool
	PrimaryOwnerID       string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// CaseSummary es la fila enriquecida de un listado (owner + foto + conteo).
type CaseSummary struct {
	Case
	OwnerName         string
	OwnerRole         string
	PrimaryPhotoURL   string
	PrimaryThumbURL   string
	CollaboratorCount int
}

// CreateCaseInput contiene los datos para crear un caso.
type CreateCaseInput struct {
	Species              string
	Description          string
	Status               string
	Urgency              string
	LocationFound        string
	LocationFoundGeneral string
	LocationCurrent      string
	DateRescued          *time.Time
	ConditionDescription string
	Injuries             string
	Treatments           string
	Medications          string
	SpecialNeeds         string
	DietaryRequirements  string
	BehaviorNotes        string
	PublicNotes          string
	IsPublic             bool
	PrimaryOwnerID       string
}

// UpdateCaseInput contiene los campos actualizables de un caso.
// Solo los punteros no-nil se aplican.
type UpdateCaseInput struct {
	Species              *string
	Description          *string
	Status               *string
	Urgency              *string
	LocationFound        *string
	LocationFoundGeneral *string
	LocationCurrent      *string
	DateRescued          *time.Time
	ConditionDescription *string
	Injuries             *string
	Treatments           *string
	Medications          *string
	SpecialNeeds         *string
	DietaryRequirements  *string
	BehaviorNotes        *string
	PublicNotes          *string
	IsPublic             *bool
	PrimaryOwnerID       *string
}

// ListCasesFilter opciones para el listado público.
type ListCasesFilter struct {
	Status    string
	Species   string
	Urgency   string
	Search    string // busca en description / location_found_general / location_current
	Page      int    // 1-based
	Limit     int    // default 20, max 100
	SortBy    string // created_at | updated_at | urgency
	SortOrder string // asc | desc
}

// UserCasesFilter opciones para el listado por usuario.
type UserCasesFilter struct {
	Filter string // my_cases | collaborating | all
	Status string
	Page   int
	Limit  int
}

// CaseStats agrupa los contadores públicos agregados.
type CaseStats struct {
	ActiveCases      int
	RescuedThisMonth int
	InFosterCare     int
	AdoptedThisMonth int
	ByUrgency        map[string]int
	ByStatus         map[string]int
	BySpecies        map[string]int
}

// CaseRepository define operaciones sobre casos.
type CaseRepository interface {
	// Create crea un nuevo caso.
	Create(ctx context.Context, input CreateCaseInput) (*Case, error)

	// GetByID busca un caso por ID. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, caseID string) (*Case, error)

	// Update aplica los campos no-nil y retorna el caso actualizado.
	Update(ctx context.Context, caseID string, input UpdateCaseInput) (*Case, error)

	// Delete elimina un caso. Colaboradores, fotos y actividad caen en
	// cascada. Retorna ErrNotFound si no existe.
	Delete(ctx context.Context, caseID string) error

	// Touch actualiza updated_at (usado al agregar notas).
	Touch(ctx context.Context, caseID string, now time.Time) error

	// List lista casos públicos con filtros y paginación.
	// Retorna las filas de la página y el total sin paginar.
	List(ctx context.Context, filter ListCasesFilter) ([]CaseSummary, int, error)

	// ListByUser lista casos donde el usuario es owner y/o colaborador.
	ListByUser(ctx context.Context, userID string, filter UserCasesFilter) ([]CaseSummary, int, error)

	// Stats calcula los contadores públicos agregados.
	Stats(ctx context.Context, monthStart time.Time) (*CaseStats, error)
}

// Collaborator representa la membresía (case, user) con derechos de edición.
type Collaborator struct {
	ID        string
	CaseID    string
	UserID    string
	RoleLabel string
	AddedBy   string
	AddedAt   time.Time
}

// AddCollaboratorInput contiene los datos para agregar un colaborador.
type AddCollaboratorInput struct {
	CaseID    string
	UserID    string
	RoleLabel string
	AddedBy   string
}

// CollaboratorRepository define operaciones sobre colaboradores.
type CollaboratorRepository interface {
	// Add agrega un colaborador. Retorna ErrConflict si el par
	// (case, user) ya existe.
	Add(ctx context.Context, input AddCollaboratorInput) (*Collaborator, error)

	// Get busca la membresía de un usuario en un caso.
	// Retorna ErrNotFound si no existe.
	Get(ctx context.Context, caseID, userID string) (*Collaborator, error)

	// Remove elimina la membresía. Retorna ErrNotFound si no existe.
	Remove(ctx context.Context, caseID, userID string) error

	// ListByCase lista los colaboradores de un caso.
	ListByCase(ctx context.Context, caseID string) ([]Collaborator, error)
}
