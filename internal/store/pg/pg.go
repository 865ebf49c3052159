// Package pg implementa repository.Store sobre PostgreSQL.
// Usa pgxpool directamente. Los repositorios corren sobre el pool o sobre
// una transacción según cómo se obtuvo el Store (ver WithinTx).
package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
)

// querier es el subconjunto común de *pgxpool.Pool y pgx.Tx que usan los
// repositorios. Permite que el mismo código corra dentro o fuera de una tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store implementa repository.Store.
type Store struct {
	pool *pgxpool.Pool // nil cuando el Store está ligado a una tx
	q    querier
}

// Config del pool de conexiones.
type Config struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// Connect abre el pool y verifica la conexión.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	} else {
		poolCfg.MinConns = 2
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}

	return &Store{pool: pool, q: pool}, nil
}

// Close cierra el pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Pool expone el pool subyacente (métricas). Nil en un Store transaccional.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Ping verifica la conexión (readiness).
func (s *Store) Ping(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Ping(ctx)
}

func (s *Store) Users() repository.UserRepository                 { return &userRepo{q: s.q} }
func (s *Store) Tokens() repository.TokenRepository               { return &tokenRepo{q: s.q} }
func (s *Store) Cases() repository.CaseRepository                 { return &caseRepo{q: s.q} }
func (s *Store) Collaborators() repository.CollaboratorRepository { return &collaboratorRepo{q: s.q} }
func (s *Store) Activity() repository.ActivityRepository          { return &activityRepo{q: s.q} }
func (s *Store) Photos() repository.PhotoRepository               { return &photoRepo{q: s.q} }

// WithinTx ejecuta fn con un Store ligado a una transacción. Llamado sobre
// un Store ya transaccional, fn corre en la misma tx (sin anidar).
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.pool == nil {
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pg: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&Store{q: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// translateError mapea errores de Postgres a los sentinelas del repositorio.
// Las violaciones de unicidad nunca se filtran crudas hacia arriba.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return repository.ErrConflict
		case "23503": // foreign_key_violation
			return repository.ErrNotFound
		}
	}
	return err
}

// nullIfEmpty convierte "" en NULL para columnas opcionales.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}