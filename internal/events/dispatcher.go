// Package events implementa el fan-out de mutaciones a suscriptores vivos.
//
// El hub mantiene un canal público y un canal privado por usuario
// autenticado. Publicar es best-effort: un suscriptor lento pierde el evento
// (se loguea y se descarta); un fallo de publicación jamás revierte ni
// bloquea la mutación, que ya commiteó.
package events

// Nombres de eventos entregados a los suscriptores.
const (
	EventCaseCreated = "case_created"
	EventCaseUpdated = "case_updated"
	EventCaseDeleted = "case_deleted"
)

// Event es el sobre que recibe cada suscriptor.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// Audience define a quién se entrega un evento: el canal público o un set
// de canales privados (owner + colaboradores), nunca ambos.
type Audience struct {
	Public  bool
	UserIDs []string
}

// PublicAudience arma la audiencia del canal público.
func PublicAudience() Audience { return Audience{Public: true} }

// PrivateAudience arma la audiencia de canales privados.
func PrivateAudience(userIDs ...string) Audience { return Audience{UserIDs: userIDs} }

// Dispatcher es el handle que reciben los servicios de mutación. Se inyecta
// por constructor para que los tests sustituyan un no-op o un recorder.
type Dispatcher interface {
	// CaseCreated notifica un caso nuevo a la audiencia dada.
	CaseCreated(aud Audience, caseView any)

	// CaseUpdated notifica un diff más el estado completo post-update.
	CaseUpdated(aud Audience, caseID string, changes map[string]any, caseView any)

	// CaseDeleted notifica la eliminación. Siempre va al canal público:
	// el aviso de borrado en sí no se considera sensible.
	CaseDeleted(caseID string)
}

// Noop es un Dispatcher que descarta todo. Útil en tests y tooling.
type Noop struct{}

func (Noop) CaseCreated(Audience, any)                        {}
func (Noop) CaseUpdated(Audience, string, map[string]any, any) {}
func (Noop) CaseDeleted(string)                               {}
