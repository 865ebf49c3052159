package pg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ====================== MIGRACIONES ======================

const migrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	name       TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// RunMigrations aplica en orden los *_up.sql de dir que no figuren en
// schema_migrations. Cada archivo se registra al aplicarse.
func (s *Store) RunMigrations(ctx context.Context, dir string) error {
	if s.pool == nil {
		return fmt.Errorf("pg: migrations require a pool-backed store")
	}
	if _, err := s.pool.Exec(ctx, migrationsTable); err != nil {
		return fmt.Errorf("pg: create schema_migrations: %w", err)
	}

	applied := map[string]bool{}
	rows, err := s.pool.Query(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		applied[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	files, err := migrationFiles(dir, "_up.sql")
	if err != nil {
		return err
	}
	for _, f := range files {
		name := filepath.Base(f)
		if applied[name] {
			continue
		}
		b, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		if _, err := s.pool.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("pg: exec %s: %w", name, err)
		}
		if _, err := s.pool.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
			return fmt.Errorf("pg: record %s: %w", name, err)
		}
	}
	return nil
}

// RunMigrationsDown aplica los *_down.sql en orden inverso y borra sus
// registros. Pensado para dev; en prod no se baja esquema.
func (s *Store) RunMigrationsDown(ctx context.Context, dir string) error {
	if s.pool == nil {
		return fmt.Errorf("pg: migrations require a pool-backed store")
	}
	files, err := migrationFiles(dir, "_down.sql")
	if err != nil {
		return err
	}
	for i := len(files) - 1; i >= 0; i-- {
		f := files[i]
		b, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		if _, err := s.pool.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("pg: exec %s: %w", filepath.Base(f), err)
		}
		upName := strings.Replace(filepath.Base(f), "_down.sql", "_up.sql", 1)
		_, _ = s.pool.Exec(ctx, `DELETE FROM schema_migrations WHERE name = $1`, upName)
	}
	return nil
}

func migrationFiles(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(strings.ToLower(e.Name()), suffix) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
