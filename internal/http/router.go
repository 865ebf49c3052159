// Package http arma el router, el server y las métricas del servicio.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/rescuetrack/internal/http/controllers"
	httperr "github.com/dropDatabas3/rescuetrack/internal/http/errors"
	mw "github.com/dropDatabas3/rescuetrack/internal/http/middlewares"
	jwtx "github.com/dropDatabas3/rescuetrack/internal/jwt"
	"github.com/dropDatabas3/rescuetrack/internal/rate"
)

// Cuotas por bucket. La general aplica a todo /v1; las específicas se suman.
var (
	generalBucket = mw.RateBucket{Name: "general", Limit: 100, Window: time.Minute}
	authBucket    = mw.RateBucket{Name: "auth", Limit: 5, Window: time.Minute}
	createBucket  = mw.RateBucket{Name: "case_create", Limit: 10, Window: time.Hour, Key: mw.UserRateKey}
	uploadBucket  = mw.RateBucket{Name: "photo_upload", Limit: 20, Window: time.Hour, Key: mw.UserRateKey}
)

// RouterDeps contiene todo lo que el router necesita para armar las rutas.
type RouterDeps struct {
	Issuer  *jwtx.Issuer
	Limiter rate.Limiter // nil deshabilita rate limiting

	Auth          *controllers.AuthController
	Cases         *controllers.CasesController
	Collaboration *controllers.CollaborationController
	Photos        *controllers.PhotosController
	Realtime      *controllers.RealtimeController
	Health        *controllers.HealthController

	Metrics        http.Handler // handler de /metrics; nil lo omite
	AllowedOrigins []string
}

// NewRouter arma el árbol de rutas completo.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	requireAuth := mw.RequireAuth(deps.Issuer)
	optionalAuth := mw.OptionalAuth(deps.Issuer)
	rateAuth := mw.WithRateLimit(deps.Limiter, authBucket)
	rateCreate := mw.WithRateLimit(deps.Limiter, createBucket)
	rateUpload := mw.WithRateLimit(deps.Limiter, uploadBucket)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperr.WriteError(w, httperr.ErrNotFound.WithDetail("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperr.WriteError(w, httperr.ErrNotFound.WithDetail("method not allowed"))
	})

	// Infraestructura, fuera del rate limit general
	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(mw.WithRateLimit(deps.Limiter, generalBucket))

		v1.Route("/auth", func(ar chi.Router) {
			ar.With(rateAuth).Post("/register", deps.Auth.Register)
			ar.With(rateAuth).Post("/login", deps.Auth.Login)
			ar.With(rateAuth).Post("/refresh", deps.Auth.Refresh)
			ar.With(requireAuth).Post("/logout", deps.Auth.Logout)
			ar.With(requireAuth).Get("/me", deps.Auth.Me)
		})

		v1.Route("/cases", func(cr chi.Router) {
			cr.Get("/", deps.Cases.List)
			cr.With(optionalAuth).Get("/{id}", deps.Cases.Get)

			cr.Group(func(pr chi.Router) {
				pr.Use(requireAuth)
				pr.With(rateCreate).Post("/", deps.Cases.Create)
				pr.Put("/{id}", deps.Cases.Update)
				pr.Delete("/{id}", deps.Cases.Delete)
				pr.Post("/{id}/collaborators", deps.Collaboration.Add)
				pr.Delete("/{id}/collaborators/{userId}", deps.Collaboration.Remove)
				pr.Post("/{id}/transfer", deps.Collaboration.Transfer)
				pr.Post("/{id}/notes", deps.Collaboration.AddNote)
				pr.With(rateUpload).Post("/{id}/photos", deps.Photos.Upload)
			})
		})

		v1.With(requireAuth).Delete("/photos/{photoId}", deps.Photos.Delete)
		v1.With(requireAuth).Get("/users/me/cases", deps.Cases.UserCases)
		v1.Get("/stats", deps.Cases.Stats)
		v1.With(optionalAuth).Get("/events", deps.Realtime.Stream)
	})

	// Cadena externa: request id -> CORS -> métricas -> logging -> recover
	return mw.Chain(r,
		mw.WithRequestID(),
		mw.WithCORS(deps.AllowedOrigins),
		WithMetrics,
		mw.WithLogging(),
		mw.WithRecover(),
	)
}
