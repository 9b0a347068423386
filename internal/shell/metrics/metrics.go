// Package metrics exposes Prometheus instrumentation for the invitation
// service. Collectors are registered on a private registry so tests can
// create handlers without duplicate-registration panics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// =============================================================================
// Metrics
// =============================================================================

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	// ConfirmationsTotal counts successful public confirmations by host side.
	ConfirmationsTotal *prometheus.CounterVec

	// GuestsConfirmedTotal counts individual guests confirmed through the
	// public path.
	GuestsConfirmedTotal prometheus.Counter

	// LoginAttemptsTotal counts admin login attempts by outcome.
	LoginAttemptsTotal *prometheus.CounterVec

	// RequestsTotal counts HTTP requests by method and status class.
	RequestsTotal *prometheus.CounterVec
}

// New creates the service metrics on a fresh registry, including the
// standard Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		ConfirmationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "invitations_confirmations_total",
			Help: "Successful public confirmations, labeled by host side.",
		}, []string{"host"}),
		GuestsConfirmedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "invitations_guests_confirmed_total",
			Help: "Individual guests confirmed through the public path.",
		}),
		LoginAttemptsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "invitations_login_attempts_total",
			Help: "Admin login attempts, labeled by outcome.",
		}, []string{"outcome"}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "invitations_http_requests_total",
			Help: "HTTP requests, labeled by method and status class.",
		}, []string{"method", "class"}),
	}
}

// Handler returns the HTTP handler serving this registry in the standard
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
