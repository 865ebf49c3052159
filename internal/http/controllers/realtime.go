package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dropDatabas3/rescuetrack/internal/events"
	httperr "github.com/dropDatabas3/rescuetrack/internal/http/errors"
	"github.com/dropDatabas3/rescuetrack/internal/http/middlewares"
	"github.com/dropDatabas3/rescuetrack/internal/observability/logger"
)

// heartbeatInterval mantiene vivas conexiones a través de proxies.
const heartbeatInterval = 25 * time.Second

// RealtimeController sirve el stream de eventos por SSE.
type RealtimeController struct {
	hub *events.Hub
}

// NewRealtimeController crea el controller de tiempo real.
func NewRealtimeController(hub *events.Hub) *RealtimeController {
	return &RealtimeController{hub: hub}
}

// Stream maneja GET /v1/events. Auth opcional: con bearer válido el cliente
// queda unido también a su canal privado; sin token, solo al público.
func (c *RealtimeController) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httperr.WriteError(w, httperr.ErrInternal.WithDetail("streaming unsupported"))
		return
	}

	userID := middlewares.GetUserID(r.Context())
	sub := c.hub.Subscribe(userID)
	defer sub.Close()

	log := logger.From(r.Context()).With(logger.Component("realtime"))
	log.Debug("subscriber connected", logger.UserID(userID))

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	// Comentario inicial: confirma la conexión antes del primer evento
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug("subscriber disconnected", logger.UserID(userID))
			return

		case <-heartbeat.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()

		case evt, open := <-sub.C:
			if !open {
				// Hub cerrado: shutdown del proceso
				return
			}
			payload, err := json.Marshal(evt.Data)
			if err != nil {
				log.Warn("event marshal failed", logger.Event(evt.Name), logger.Err(err))
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Name, payload)
			flusher.Flush()
		}
	}
}
