package controllers

import (
	"context"
	"net/http"
	"time"
)

// Pinger verifica la disponibilidad de una dependencia (base de datos).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController maneja /healthz y /readyz.
type HealthController struct {
	db Pinger
}

// NewHealthController crea el controller de salud.
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Healthz maneja GET /healthz: el proceso está vivo.
func (c *HealthController) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz maneja GET /readyz: el proceso puede servir tráfico.
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	if c.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := c.db.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"db":     "unreachable",
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
