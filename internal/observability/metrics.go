package observability

import (
	"database/sql"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

// Metrics owns a private prometheus registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	activitySaves         *prometheus.CounterVec
	invitationValidations *prometheus.CounterVec
	invitationUseFailures prometheus.Counter
	registrations         *prometheus.CounterVec
	logins                *prometheus.CounterVec
	mediaUploads          *prometheus.CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Current returns the process-wide metrics set by Init, or nil.
func Current() *Metrics {
	return instance
}

// Init builds the process-wide metrics once.
func Init(log *logger.Logger) *Metrics {
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("prometheus metrics initialized")
		}
	})
	return instance
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
		activitySaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activity_saves_total",
			Help: "Lesson activity saves by result.",
		}, []string{"result"}),
		invitationValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "invitation_validations_total",
			Help: "Invitation code validations by result.",
		}, []string{"result"}),
		invitationUseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "invitation_use_record_failures_total",
			Help: "Registrations whose invitation code use could not be recorded.",
		}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Invitation registrations by result.",
		}, []string{"result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		mediaUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "media_uploads_total",
			Help: "Media uploads by kind and result.",
		}, []string{"kind", "result"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.activitySaves,
		m.invitationValidations,
		m.invitationUseFailures,
		m.registrations,
		m.logins,
		m.mediaUploads,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer exposes the registry for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

// RegisterDB exports database/sql pool stats for db.
func (m *Metrics) RegisterDB(log *logger.Logger, db *sql.DB, name string) {
	if m == nil || db == nil {
		return
	}
	if err := m.registry.Register(collectors.NewDBStatsCollector(db, name)); err != nil && log != nil {
		log.Warn("db stats collector registration failed", "error", err)
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) IncActivitySave(result string) {
	if m == nil {
		return
	}
	m.activitySaves.WithLabelValues(result).Inc()
}

func (m *Metrics) IncInvitationValidation(result string) {
	if m == nil {
		return
	}
	m.invitationValidations.WithLabelValues(result).Inc()
}

func (m *Metrics) IncInvitationUseRecordFailure() {
	if m == nil {
		return
	}
	m.invitationUseFailures.Inc()
}

func (m *Metrics) IncRegistration(result string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(result).Inc()
}

func (m *Metrics) IncLogin(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) IncMediaUpload(kind, result string) {
	if m == nil {
		return
	}
	m.mediaUploads.WithLabelValues(kind, result).Inc()
}
