package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ezoic/plantcare/advisor"
)

// metrics are registered on a per-server registry so several servers can
// live in one process.
type metrics struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	diagnoses *prometheus.CounterVec
	cacheHits prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plantcare_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "plantcare_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"route"},
		),
		diagnoses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plantcare_diagnoses_total",
				Help: "Total number of diagnoses by predicted health and risk",
			},
			[]string{"health", "risk"},
		),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plantcare_diagnosis_cache_hits_total",
			Help: "Diagnoses served from the cache",
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.latency,
		m.diagnoses,
		m.cacheHits,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) observeRequest(route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route).Observe(d.Seconds())
}

func (m *metrics) recordDiagnosis(p advisor.Prediction) {
	m.diagnoses.WithLabelValues(p.HealthStatus, p.RiskLevel).Inc()
}
