// Package cache abstrae un cache clave/valor con backend intercambiable:
// memoria in-process para desarrollo y tests, Redis para producción.
// Lo usamos para agregados públicos costosos como /v1/stats.
package cache

import (
	"context"
	"errors"
	"time"
)

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor. Con ttl 0 la entrada no expira.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete elimina una key; no es error que no exista.
	Delete(ctx context.Context, key string) error

	// Exists verifica si una key existe y no expiró.
	Exists(ctx context.Context, key string) (bool, error)

	// Ping verifica la conexión con el backend.
	Ping(ctx context.Context) error

	// Close libera recursos del cliente.
	Close() error

	// Stats retorna estadísticas del backend.
	Stats(ctx context.Context) (Stats, error)
}

// Stats contiene estadísticas del cache.
type Stats struct {
	Driver     string
	Keys       int64
	UsedMemory string
	Hits       int64
	Misses     int64
}

// Config describe el backend a usar.
type Config struct {
	Driver   string // "memory" | "redis"
	Addr     string // host:port (solo redis)
	Password string
	DB       int
	Prefix   string // prefijo para todas las keys
}

// ErrNotFound indica que la key no existe o expiró.
var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si el error corresponde a una key inexistente.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// New crea el cliente según cfg.Driver. Drivers desconocidos caen al backend
// de memoria; la validación fuerte del driver vive en config.
func New(cfg Config) (Client, error) {
	if cfg.Driver == "redis" {
		return NewRedis(cfg)
	}
	return NewMemory(cfg.Prefix), nil
}
