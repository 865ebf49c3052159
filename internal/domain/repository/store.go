package repository

import "context"

// Store agrupa todos los repositorios sobre una misma fuente de datos.
//
// WithinTx ejecuta fn con un Store ligado a una transacción: toda mutación
// multi-paso (escritura + entrada de actividad) debe correr adentro para que
// ambas persistan o ninguna.
type Store interface {
	Users() UserRepository
	Tokens() TokenRepository
	Cases() CaseRepository
	Collaborators() CollaboratorRepository
	Activity() ActivityRepository
	Photos() PhotoRepository

	// WithinTx ejecuta fn dentro de una transacción. Si fn retorna error,
	// la transacción se revierte y el error se propaga sin modificar.
	WithinTx(ctx context.Context, fn func(Store) error) error
}
