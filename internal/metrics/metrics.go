// Package metrics expone los contadores Prometheus del servicio.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LoginsStarted cuenta los inicios de login por proveedor.
	LoginsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "littlejohn_logins_started_total",
		Help: "Login flows started, by provider.",
	}, []string{"provider"})

	// CallbacksCompleted cuenta los callbacks procesados por resultado.
	CallbacksCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "littlejohn_callbacks_total",
		Help: "OAuth callbacks processed, by provider and outcome.",
	}, []string{"provider", "outcome"})

	// RequestDuration mide la latencia por ruta.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "littlejohn_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Resultados de callback para CallbacksCompleted.
const (
	OutcomeSuccess  = "success"
	OutcomeDenied   = "denied"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Handler expone el endpoint /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
