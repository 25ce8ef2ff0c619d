package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WSConnections tracks currently open websocket connections
	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "starguide_ws_connections",
		Help: "Currently open websocket connections.",
	})

	// PodMessages counts chat messages broadcast to pods
	PodMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "starguide_pod_messages_total",
		Help: "Chat messages broadcast to learning pods.",
	})

	// BattlesStarted counts battle sessions created
	BattlesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "starguide_battles_started_total",
		Help: "Battle sessions created.",
	})

	// AILatency observes AI tutor round-trip time per provider
	AILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "starguide_ai_request_seconds",
		Help:    "AI tutor request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
