package logger

import (
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/rescuetrack/internal/util"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(v int64) zap.Field {
	return zap.Int64("duration_ms", v)
}

// Bytes crea un campo para los bytes de respuesta.
func Bytes(v int) zap.Field {
	return zap.Int("bytes", v)
}

// ClientIP crea un campo para la IP del cliente.
func ClientIP(v string) zap.Field {
	return zap.String("client_ip", v)
}

// Duration crea un campo para una duración.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - NEGOCIO
// =================================================================================

// UserID crea un campo para el ID del usuario.
func UserID(v string) zap.Field {
	return zap.String("user_id", v)
}

// CaseID crea un campo para el ID del caso de rescate.
func CaseID(v string) zap.Field {
	return zap.String("case_id", v)
}

// Email loguea el email enmascarado; nunca el valor completo.
func Email(v string) zap.Field {
	return zap.String("email", util.MaskEmail(v))
}

// PhotoID crea un campo para el ID de una foto.
func PhotoID(v string) zap.Field {
	return zap.String("photo_id", v)
}

// Event crea un campo para el nombre de un evento de fan-out.
func Event(v string) zap.Field {
	return zap.String("event", v)
}

// Subscribers crea un campo para la cantidad de suscriptores notificados.
func Subscribers(v int) zap.Field {
	return zap.Int("subscribers", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - INFRAESTRUCTURA
// =================================================================================

// Layer crea un campo para la capa (controller, service, store).
func Layer(v string) zap.Field {
	return zap.String("layer", v)
}

// Component crea un campo para el componente.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación en curso.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Count crea un campo numérico genérico.
func Count(v int) zap.Field {
	return zap.Int("count", v)
}
