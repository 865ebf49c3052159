// Package memory implementa repository.Store en memoria. Se usa en tests y
// en modo desarrollo sin Postgres. Las transacciones trabajan sobre una copia
// del estado que solo se publica si fn retorna nil.
package memory

import (
	"context"
	"sync"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
)

type data struct {
	users         map[string]repository.User         // by ID
	tokens        map[string]repository.RefreshToken // by token hash
	cases         map[string]repository.Case         // by ID
	collaborators map[string]repository.Collaborator // by ID
	activity      []repository.ActivityLogEntry
	photos        map[string]repository.Photo // by ID
	seq           int64
}

func newData() *data {
	return &data{
		users:         make(map[string]repository.User),
		tokens:        make(map[string]repository.RefreshToken),
		cases:         make(map[string]repository.Case),
		collaborators: make(map[string]repository.Collaborator),
		photos:        make(map[string]repository.Photo),
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.tokens {
		c.tokens[k] = v
	}
	for k, v := range d.cases {
		c.cases[k] = v
	}
	for k, v := range d.collaborators {
		c.collaborators[k] = v
	}
	c.activity = append(c.activity, d.activity...)
	for k, v := range d.photos {
		c.photos[k] = v
	}
	c.seq = d.seq
	return c
}

// Store implementa repository.Store en memoria.
type Store struct {
	mu   *sync.Mutex
	d    *data
	inTx bool
}

// New crea un Store vacío.
func New() *Store {
	return &Store{mu: &sync.Mutex{}, d: newData()}
}

// lock toma el lock global salvo dentro de una tx, donde el Store padre
// ya lo sostiene.
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Users() repository.UserRepository                 { return &userRepo{s: s} }
func (s *Store) Tokens() repository.TokenRepository               { return &tokenRepo{s: s} }
func (s *Store) Cases() repository.CaseRepository                 { return &caseRepo{s: s} }
func (s *Store) Collaborators() repository.CollaboratorRepository { return &collaboratorRepo{s: s} }
func (s *Store) Activity() repository.ActivityRepository          { return &activityRepo{s: s} }
func (s *Store) Photos() repository.PhotoRepository               { return &photoRepo{s: s} }

// WithinTx ejecuta fn sobre una copia del estado; si fn retorna nil la copia
// reemplaza al estado visible, si no se descarta completa.
func (s *Store) WithinTx(_ context.Context, fn func(repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{mu: s.mu, d: s.d.clone(), inTx: true}
	if err := fn(tx); err != nil {
		return err
	}
	s.d = tx.d
	return nil
}
