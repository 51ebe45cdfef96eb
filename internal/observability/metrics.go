package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes the service's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpErrors          *prometheus.CounterVec
	triageRuns          *prometheus.CounterVec
	notificationsSent   prometheus.Counter
	notificationsDedup  prometheus.Counter
	slaBreaches         prometheus.Counter
	httpRequestDuration *prometheus.HistogramVec
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_http_requests_total",
			Help: "HTTP requests handled, by path, method and status.",
		}, []string{"path", "method", "status"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_http_errors_total",
			Help: "Requests rejected with a domain error, by error code.",
		}, []string{"path", "method", "code"}),
		triageRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_triage_runs_total",
			Help: "Completed triage invocations, by resulting action.",
		}, []string{"action"}),
		notificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "helpdesk_notifications_sent_total",
			Help: "Persisted notifications created by the dispatcher.",
		}),
		notificationsDedup: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "helpdesk_notifications_deduplicated_total",
			Help: "Dispatch calls skipped because the dedup key was fresh.",
		}),
		slaBreaches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "helpdesk_sla_breaches_total",
			Help: "Tickets flagged as SLA-breached by the sweep.",
		}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "helpdesk_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
	}

	registry.MustRegister(
		m.httpRequests,
		m.httpErrors,
		m.triageRuns,
		m.notificationsSent,
		m.notificationsDedup,
		m.slaBreaches,
		m.httpRequestDuration,
	)
	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest increments request counters.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.httpErrors.WithLabelValues(path, method, code).Inc()
}

// RecordTriage counts a finished triage run.
func (m *Metrics) RecordTriage(action string) {
	if m == nil {
		return
	}
	m.triageRuns.WithLabelValues(action).Inc()
}

// RecordNotificationSent counts a persisted notification.
func (m *Metrics) RecordNotificationSent() {
	if m == nil {
		return
	}
	m.notificationsSent.Inc()
}

// RecordNotificationDeduplicated counts a skipped duplicate dispatch.
func (m *Metrics) RecordNotificationDeduplicated() {
	if m == nil {
		return
	}
	m.notificationsDedup.Inc()
}

// RecordSLABreach counts a ticket flagged by the sweep.
func (m *Metrics) RecordSLABreach() {
	if m == nil {
		return
	}
	m.slaBreaches.Inc()
}
