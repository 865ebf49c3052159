package events

import (
	"sync"

	"github.com/dropDatabas3/rescuetrack/internal/observability/logger"
)

// subscriberBuffer es el tamaño del buffer por suscriptor. Un suscriptor que
// no drena a tiempo pierde eventos en vez de frenar al publicador.
const subscriberBuffer = 16

type subscriber struct {
	id     uint64
	userID string // vacío = solo canal público
	ch     chan Event
}

// Hub es el registro de suscriptores vivos y el dispatcher sobre ellos.
// El registro lo mutan solo connect/disconnect; publish solo lo lee.
// El hub no cachea ningún dato de casos.
type Hub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]*subscriber
	closed bool
}

// NewHub crea un hub vacío.
func NewHub() *Hub {
	initMetrics()
	return &Hub{subs: make(map[uint64]*subscriber)}
}

// Subscription es la membresía viva de un cliente conectado.
type Subscription struct {
	C <-chan Event

	hub *Hub
	id  uint64
}

// Close da de baja la suscripción. Idempotente.
func (s *Subscription) Close() {
	if s.hub != nil {
		s.hub.unsubscribe(s.id)
		s.hub = nil
	}
}

// Subscribe registra un cliente. Todo suscriptor queda unido al canal
// público; si userID no es vacío, también a su canal privado.
func (h *Hub) Subscribe(userID string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &subscriber{
		id:     h.nextID,
		userID: userID,
		ch:     make(chan Event, subscriberBuffer),
	}
	if h.closed {
		// Hub apagado: devolver una suscripción ya cerrada.
		close(sub.ch)
		return &Subscription{C: sub.ch}
	}
	h.subs[sub.id] = sub
	trackSubscriber(1)
	return &Subscription{C: sub.ch, hub: h, id: sub.id}
}

func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.ch)
		trackSubscriber(-1)
	}
}

// Close cierra el hub y todos los canales de suscriptores.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
		trackSubscriber(-1)
	}
}

// publish entrega el evento a la audiencia. Envío no bloqueante: si el
// buffer del suscriptor está lleno, el evento se descarta con un warn.
func (h *Hub) publish(aud Audience, evt Event) {
	var targets map[string]struct{}
	if !aud.Public {
		targets = make(map[string]struct{}, len(aud.UserIDs))
		for _, id := range aud.UserIDs {
			if id != "" {
				targets[id] = struct{}{}
			}
		}
		if len(targets) == 0 {
			return
		}
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}

	delivered := 0
	for _, sub := range h.subs {
		if !aud.Public {
			if _, ok := targets[sub.userID]; !ok {
				continue
			}
		}
		select {
		case sub.ch <- evt:
			delivered++
		default:
			countDropped(evt.Name)
			logger.L().Warn("event dropped, subscriber buffer full",
				logger.Component("events.hub"),
				logger.Event(evt.Name),
				logger.UserID(sub.userID),
			)
		}
	}

	countPublished(evt.Name)
	logger.L().Debug("event published",
		logger.Component("events.hub"),
		logger.Event(evt.Name),
		logger.Subscribers(delivered),
	)
}

// --- Dispatcher ---

type createdData struct {
	Case any `json:"case"`
}

type updatedData struct {
	CaseID  string         `json:"case_id"`
	Changes map[string]any `json:"changes"`
	Case    any            `json:"case"`
}

type deletedData struct {
	CaseID string `json:"case_id"`
}

// CaseCreated implementa Dispatcher.
func (h *Hub) CaseCreated(aud Audience, caseView any) {
	h.publish(aud, Event{Name: EventCaseCreated, Data: createdData{Case: caseView}})
}

// CaseUpdated implementa Dispatcher.
func (h *Hub) CaseUpdated(aud Audience, caseID string, changes map[string]any, caseView any) {
	h.publish(aud, Event{Name: EventCaseUpdated, Data: updatedData{CaseID: caseID, Changes: changes, Case: caseView}})
}

// CaseDeleted implementa Dispatcher. El aviso va siempre al canal público.
func (h *Hub) CaseDeleted(caseID string) {
	h.publish(PublicAudience(), Event{Name: EventCaseDeleted, Data: deletedData{CaseID: caseID}})
}
