package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	RoomsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_rooms_created_total",
			Help: "Total relay rooms created",
		},
	)

	RoomsAlive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_rooms_alive",
			Help: "Relay rooms currently held in memory",
		},
	)

	MessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_messages_sent_total",
			Help: "Total messages accepted into channel buffers",
		},
		[]string{"channel"},
	)

	Polls = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_polls_total",
			Help: "Total poll requests served",
		},
	)

	Heartbeats = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_heartbeats_total",
			Help: "Total heartbeats by role",
		},
		[]string{"role"},
	)

	Broadcasts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_broadcasts_total",
			Help: "Total store-wide broadcasts",
		},
	)

	RoomsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_rooms_swept_total",
			Help: "Total rooms removed by the TTL sweep",
		},
	)

	SignalsRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_signals_relayed_total",
			Help: "Total pairing signals relayed by type",
		},
		[]string{"type"},
	)
)

// Handler returns the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
