package errors

import (
	"encoding/json"
	"net/http"
)

// errorBody estructura interna para la serialización JSON.
// Controla exactamente qué campos se envían al cliente.
type errorBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Detail  string        `json:"detail,omitempty"`
	Details []FieldDetail `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// WriteError escribe una respuesta HTTP basada en el error proporcionado.
// Maneja automáticamente errores de tipo *AppError y errores genéricos.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	resp := errorEnvelope{Error: errorBody{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
		Details: appErr.Fields,
	}}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}
