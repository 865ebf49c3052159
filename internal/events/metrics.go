package events

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricsOnce sync.Once

	publishedTotal *prometheus.CounterVec
	droppedTotal   *prometheus.CounterVec
	subscribers    prometheus.Gauge
)

// initMetrics registra los collectors del hub en el registry global.
// Los duplicados (tests que crean varios hubs) se ignoran.
func initMetrics() {
	metricsOnce.Do(func() {
		publishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "case_events_published_total",
			Help: "Eventos de casos despachados por tipo",
		}, []string{"event"})

		droppedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "case_events_dropped_total",
			Help: "Eventos descartados por buffer de suscriptor lleno",
		}, []string{"event"})

		subscribers = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sse_subscribers",
			Help: "Suscriptores conectados al hub",
		})

		for _, c := range []prometheus.Collector{publishedTotal, droppedTotal, subscribers} {
			if err := prometheus.Register(c); err != nil {
				if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
					// Registro best-effort: el hub funciona sin métricas
					return
				}
			}
		}
	})
}

func countPublished(event string) {
	if publishedTotal != nil {
		publishedTotal.WithLabelValues(event).Inc()
	}
}

func countDropped(event string) {
	if droppedTotal != nil {
		droppedTotal.WithLabelValues(event).Inc()
	}
}

func trackSubscriber(delta float64) {
	if subscribers != nil {
		subscribers.Add(delta)
	}
}
