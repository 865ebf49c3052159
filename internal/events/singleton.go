package events

import "sync"

var (
	mu         sync.Mutex
	defaultHub *Hub
)

// Init inicializa el hub singleton del proceso. Idempotente: llamadas
// posteriores devuelven el hub ya inicializado. El handle devuelto se inyecta
// por constructor en los servicios; el singleton existe solo para el
// lifecycle (main arranca y apaga exactamente un hub).
func Init() *Hub {
	mu.Lock()
	defer mu.Unlock()
	if defaultHub == nil {
		defaultHub = NewHub()
	}
	return defaultHub
}

// Shutdown apaga el hub singleton y desconecta a todos los suscriptores.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	if defaultHub != nil {
		defaultHub.Close()
		defaultHub = nil
	}
}
