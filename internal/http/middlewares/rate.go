package middlewares

import (
	"net/http"
	"strconv"
	"time"

	httperr "github.com/dropDatabas3/rescuetrack/internal/http/errors"
	"github.com/dropDatabas3/rescuetrack/internal/observability/logger"
	"github.com/dropDatabas3/rescuetrack/internal/rate"
)

// RateKeyFunc define cómo generar la clave de rate limiting.
type RateKeyFunc func(r *http.Request) string

// IPRateKey genera una clave basada solo en IP. Es la clave por defecto
// para endpoints anónimos (login, register, listados públicos).
func IPRateKey(r *http.Request) string {
	return ClientIP(r)
}

// UserRateKey genera una clave basada en el user ID autenticado, con
// fallback a IP para requests anónimos. Para cuotas por usuario
// (creación de casos, subida de fotos).
func UserRateKey(r *http.Request) string {
	if uid := GetUserID(r.Context()); uid != "" {
		return uid
	}
	return ClientIP(r)
}

// RateBucket describe una cuota: nombre (prefijo de clave), límite y ventana.
type RateBucket struct {
	Name   string
	Limit  int
	Window time.Duration
	Key    RateKeyFunc
}

// WithRateLimit aplica una cuota de ventana fija sobre el limiter dado.
// Con limiter nil el middleware es un no-op (rate limiting deshabilitado).
// Expone X-RateLimit-Limit / X-RateLimit-Remaining y Retry-After al rechazar.
func WithRateLimit(limiter rate.Limiter, bucket RateBucket) Middleware {
	if limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	keyFn := bucket.Key
	if keyFn == nil {
		keyFn = IPRateKey
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := bucket.Name + ":" + keyFn(r)

			res, err := limiter.Allow(r.Context(), key, bucket.Limit, bucket.Window)
			if err != nil {
				// Limiter caído: dejamos pasar antes que negar servicio
				logger.From(r.Context()).Warn("rate limiter unavailable",
					logger.Component("rate"),
					logger.Err(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(bucket.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))

			if !res.Allowed {
				retry := int(res.RetryAfter / time.Second)
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				httperr.WriteError(w, httperr.ErrRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
