package landing

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eringen/landing/contact"
)

// metrics holds the Prometheus collectors served on /metrics. Each App
// owns a private registry so several apps can live in one process.
type metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	loginsTotal     *prometheus.CounterVec
	editsTotal      *prometheus.CounterVec
	contactTotal    *prometheus.CounterVec
	lockoutsTotal   prometheus.Counter
	loginLockActive prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{registry: prometheus.NewRegistry()}

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "landing_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "landing_http_request_duration_seconds",
			Help:    "Time taken for HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	m.loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "landing_login_attempts_total",
			Help: "Admin login and code attempts by result",
		},
		[]string{"result"}, // ok, code, failed, bad_code, locked
	)
	m.editsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "landing_content_edits_total",
			Help: "Content changes applied from the admin panel",
		},
		[]string{"kind"}, // edit, undo, redo, reset
	)
	m.contactTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "landing_contact_submissions_total",
			Help: "Contact form submissions by outcome",
		},
		[]string{"status"},
	)
	m.lockoutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "landing_login_lockouts_total",
		Help: "Times the admin login was locked after repeated failures",
	})
	m.loginLockActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "landing_login_locked",
		Help: "1 while the admin login is locked",
	})

	m.registry.MustRegister(
		m,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Describe implements the Collector interface
func (m *metrics) Describe(ch chan<- *prometheus.Desc) {
	m.httpRequestsTotal.Describe(ch)
	m.httpRequestDuration.Describe(ch)
	m.loginsTotal.Describe(ch)
	m.editsTotal.Describe(ch)
	m.contactTotal.Describe(ch)
	m.lockoutsTotal.Describe(ch)
	m.loginLockActive.Describe(ch)
}

// Collect implements the Collector interface
func (m *metrics) Collect(ch chan<- prometheus.Metric) {
	m.httpRequestsTotal.Collect(ch)
	m.httpRequestDuration.Collect(ch)
	m.loginsTotal.Collect(ch)
	m.editsTotal.Collect(ch)
	m.contactTotal.Collect(ch)
	m.lockoutsTotal.Collect(ch)
	m.loginLockActive.Collect(ch)
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// observe records one request. path is the route pattern, not the raw URL,
// to keep label cardinality bounded.
func (m *metrics) observe(method, path string, status int, latency time.Duration) {
	if m == nil {
		return
	}
	if path == "" {
		path = "unmatched"
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(latency.Seconds())
}

func (m *metrics) login(result string) {
	if m == nil {
		return
	}
	m.loginsTotal.WithLabelValues(result).Inc()
}

func (m *metrics) edit(kind string) {
	if m == nil {
		return
	}
	m.editsTotal.WithLabelValues(kind).Inc()
}

func (m *metrics) contact(status contact.Status) {
	if m == nil {
		return
	}
	m.contactTotal.WithLabelValues(string(status)).Inc()
}

func (m *metrics) locked(on bool) {
	if m == nil {
		return
	}
	if on {
		m.lockoutsTotal.Inc()
		m.loginLockActive.Set(1)
		return
	}
	m.loginLockActive.Set(0)
}
