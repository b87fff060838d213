package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Authorization metrics
	AuthzDecisionsTotal *prometheus.CounterVec

	// Role graph metrics
	ClosureCacheHitsTotal   prometheus.Counter
	ClosureCacheMissesTotal prometheus.Counter
	RolesRegistered         prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		AuthzDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatehouse_authz_decisions_total",
				Help: "Total number of authorization decisions",
			},
			[]string{"outcome", "reason"},
		),
		ClosureCacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gatehouse_rolegraph_closure_cache_hits_total",
				Help: "Total number of role closure cache hits",
			},
		),
		ClosureCacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gatehouse_rolegraph_closure_cache_misses_total",
				Help: "Total number of role closure cache misses",
			},
		),
		RolesRegistered: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "gatehouse_rolegraph_roles",
				Help: "Number of registered roles",
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.AuthzDecisionsTotal,
		m.ClosureCacheHitsTotal,
		m.ClosureCacheMissesTotal,
		m.RolesRegistered,
	)

	return m
}

// ObserveDecision records one authorization decision. reason is empty for
// allowed decisions.
func (m *Metrics) ObserveDecision(allowed bool, reason string) {
	outcome := "deny"
	if allowed {
		outcome = "allow"
		reason = ""
	}
	m.AuthzDecisionsTotal.WithLabelValues(outcome, reason).Inc()
}

// Hit implements rolegraph.CacheObserver.
func (m *Metrics) Hit() {
	m.ClosureCacheHitsTotal.Inc()
}

// Miss implements rolegraph.CacheObserver.
func (m *Metrics) Miss() {
	m.ClosureCacheMissesTotal.Inc()
}

// SetRolesRegistered updates the registered-role gauge.
func (m *Metrics) SetRolesRegistered(n int) {
	m.RolesRegistered.Set(float64(n))
}

// Handler returns an HTTP handler that serves the metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
