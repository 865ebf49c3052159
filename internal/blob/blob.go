// Package blob abstrae el almacenamiento de binarios (fotos de casos).
// El contrato es mínimo: subir bytes bajo una key y obtener una URL estable.
package blob

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store es el contrato del blob store.
type Store interface {
	// Put sube los bytes bajo key y devuelve la URL pública estable.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)

	// Delete elimina el objeto. Idempotente.
	Delete(ctx context.Context, key string) error
}

// NewKey genera una key única particionada por fecha:
// cases/<año>/<mes>/<día>/<uuid>
func NewKey() string {
	d := time.Now().UTC()
	return fmt.Sprintf("cases/%d/%02d/%02d/%s", d.Year(), d.Month(), d.Day(), uuid.New())
}

// KeyFromURL recorta la key de una URL emitida por Put. Las keys de este
// paquete siempre empiezan con "cases/"; si la URL no contiene una, se
// devuelve entera.
func KeyFromURL(url string) string {
	if i := strings.Index(url, "cases/"); i >= 0 {
		return url[i:]
	}
	return url
}
