// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assistant_active_sessions",
			Help: "Number of live sessions",
		},
	)

	ChatIntents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_chat_intents_total",
			Help: "Chat messages by classified intent",
		},
		[]string{"intent"},
	)

	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_auth_failures_total",
			Help: "Rejected sign-in and sign-up attempts by error kind",
		},
		[]string{"kind"},
	)
)

// SetActiveSessions is a session.Options.OnChange hook.
func SetActiveSessions(n int) {
	ActiveSessions.Set(float64(n))
}

// ObserveIntent counts one classified chat message.
func ObserveIntent(intent string) {
	ChatIntents.WithLabelValues(intent).Inc()
}
