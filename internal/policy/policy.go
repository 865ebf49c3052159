// Package policy es el motor de decisiones de acceso: funciones puras sobre
// el estado actual del caso, sin efectos secundarios. Los dos niveles de
// derechos (owner-only vs. cualquier editor) se modelan como una enumeración
// chica consumida por funciones de decisión, no como jerarquía de tipos.
package policy

import "github.com/dropDatabas3/rescuetrack/internal/domain/repository"

// Actor identifica a quien intenta la operación. ID vacío = anónimo.
type Actor struct {
	ID   string
	Role string
}

// Anonymous retorna true si el actor no está autenticado.
func (a Actor) Anonymous() bool { return a.ID == "" }

// Relationship es la relación del actor con un caso.
type Relationship int

const (
	// RelationNone: sin vínculo con el caso (incluye anónimos).
	RelationNone Relationship = iota
	// RelationCollaborator: miembro con derechos de edición.
	RelationCollaborator
	// RelationOwner: dueño primario, responsable último del caso.
	RelationOwner
)

// Relate calcula la relación del actor con el caso dado su set actual de
// colaboradores.
func Relate(a Actor, c *repository.Case, collaborators []repository.Collaborator) Relationship {
	if a.Anonymous() {
		return RelationNone
	}
	if c.PrimaryOwnerID == a.ID {
		return RelationOwner
	}
	for _, col := range collaborators {
		if col.UserID == a.ID {
			return RelationCollaborator
		}
	}
	return RelationNone
}

// CanRead: los casos públicos los lee cualquiera; los privados solo el owner
// o un colaborador. Un lector sin derechos sobre un caso privado no debe
// enterarse de que el caso existe.
func CanRead(rel Relationship, isPublic bool) bool {
	return isPublic || rel != RelationNone
}

// CanEdit: owner o colaborador.
func CanEdit(rel Relationship) bool {
	return rel == RelationOwner || rel == RelationCollaborator
}

// CanDelete: solo el owner. Estrictamente más angosto que editar.
func CanDelete(rel Relationship) bool {
	return rel == RelationOwner
}

// CanTransferOwnership: solo el owner.
func CanTransferOwnership(rel Relationship) bool {
	return rel == RelationOwner
}

// CanRemoveCollaborator: solo el owner.
func CanRemoveCollaborator(rel Relationship) bool {
	return rel == RelationOwner
}

// CanAddCollaborator: cualquier editor puede extender el set de
// colaboradores. La existencia del usuario agregado y la unicidad de la
// membresía las verifica la pipeline, no este motor.
func CanAddCollaborator(rel Relationship) bool {
	return CanEdit(rel)
}

// CanViewSensitive decide la proyección de lectura: los viewers autenticados
// de un caso legible ven la ubicación precisa y los campos clínicos
// (lesiones, tratamientos, medicación) y las entradas privadas del historial.
// Los anónimos reciben la ubicación saneada y el historial público.
func CanViewSensitive(a Actor) bool {
	return !a.Anonymous()
}
