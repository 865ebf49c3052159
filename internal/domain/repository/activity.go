package repository

import (
	"context"
	"time"
)

// Tipos de acción del registro de actividad.
const (
	ActionCaseCreated          = "case_created"
	ActionStatusChange         = "status_change"
	ActionNoteAdded            = "note_added"
	ActionCollaboratorAdded    = "collaborator_added"
	ActionCollaboratorRemoved  = "collaborator_removed"
	ActionOwnershipTransferred = "ownership_transferred"
	ActionPhotoAdded           = "photo_added"
	ActionPhotoDeleted         = "photo_deleted"
)

// ActivityLogEntry es una entrada append-only del historial de un caso.
// Nunca se muta ni se elimina (salvo cascada al borrar el caso).
type ActivityLogEntry struct {
	ID          string
	CaseID      string
	UserID      string
	UserName    string // denormalizado en lecturas; vacío en escrituras
	ActionType  string
	Description string
	IsPublic    bool
	CreatedAt   time.Time
}

// AppendActivityInput contiene los datos de una nueva entrada.
type AppendActivityInput struct {
	CaseID      string
	UserID      string
	ActionType  string
	Description string
	IsPublic    bool
}

// ActivityRepository define operaciones sobre el registro de actividad.
type ActivityRepository interface {
	// Append agrega una entrada al final del historial del caso.
	Append(ctx context.Context, input AppendActivityInput) (*ActivityLogEntry, error)

	// ListByCase lista las entradas más recientes primero. Si publicOnly,
	// filtra las entradas privadas (lectores anónimos).
	ListByCase(ctx context.Context, caseID string, publicOnly bool, limit int) ([]ActivityLogEntry, error)
}
