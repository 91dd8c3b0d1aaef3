// Package metrics registers the Prometheus instruments exposed on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "housemate_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "pattern", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "housemate_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "pattern"},
	)

	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "housemate_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"outcome"},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "housemate_websocket_clients",
			Help: "Number of connected websocket clients",
		},
	)

	PushNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "housemate_push_notifications_total",
			Help: "Total number of push notifications sent",
		},
		[]string{"type"},
	)

	BackupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "housemate_backups_total",
			Help: "Total number of backup runs",
		},
		[]string{"outcome"},
	)
)

// Handler serves the Prometheus exposition endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordLogin counts a login attempt by outcome ("success" or "failure").
func RecordLogin(outcome string) {
	LoginAttemptsTotal.WithLabelValues(outcome).Inc()
}
