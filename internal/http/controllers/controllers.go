// Package controllers contiene los handlers HTTP. Cada controller deserializa
// la solicitud, delega al service y mapea los errores de este a la taxonomía
// HTTP. La lógica de negocio vive en los services.
package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	httperr "github.com/dropDatabas3/rescuetrack/internal/http/errors"
	"github.com/dropDatabas3/rescuetrack/internal/observability/logger"
	"github.com/dropDatabas3/rescuetrack/internal/validation"
)

// maxBodyBytes limita los cuerpos JSON. Subidas de fotos tienen su propio tope.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httperr.WriteError(w, httperr.ErrInvalidJSON)
		return false
	}
	return true
}

// writeServiceError mapea los errores transversales (validación, genéricos)
// y deja los sentinelas específicos a cada controller.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr validation.Errors
	if errors.As(err, &verr) {
		fields := make([]httperr.FieldDetail, len(verr))
		for i, fe := range verr {
			fields[i] = httperr.FieldDetail{Field: fe.Field, Message: fe.Message}
		}
		httperr.WriteError(w, httperr.ErrValidation.WithFields(fields))
		return
	}

	logger.From(r.Context()).Error("unexpected service error", logger.Err(err))
	httperr.WriteError(w, httperr.ErrInternal)
}
