// Package prometheus exposes polychain's operational metrics on a dedicated
// registry. The API server mounts Handler() at /metrics; the CLI never
// constructs a Metrics instance.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values shared by all operation counters.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Config holds metrics construction parameters.
type Config struct {
	// Namespace prefixes every metric name; defaults to "polychain".
	Namespace string

	// EnableProcessMetrics and EnableGoMetrics register the standard
	// process and Go runtime collectors on the registry.
	EnableProcessMetrics bool
	EnableGoMetrics      bool
}

// Metrics aggregates all application metric instruments on one registry.
type Metrics struct {
	registry *prometheus.Registry

	// Chain construction
	buildsTotal   *prometheus.CounterVec
	buildDuration prometheus.Histogram
	repeatsTotal  *prometheus.CounterVec

	// XYZ codec
	parsesTotal  *prometheus.CounterVec
	skippedLines prometheus.Counter

	// HTTP layer
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New constructs a Metrics instance with every instrument registered.
func New(cfg Config) *Metrics {
	if cfg.Namespace == "" {
		cfg.Namespace = "polychain"
	}

	reg := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{
			Namespace: cfg.Namespace,
		}))
	}
	if cfg.EnableGoMetrics {
		reg.MustRegister(prometheus.NewGoCollector())
	}

	m := &Metrics{
		registry: reg,
		buildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "chain_builds_total",
			Help:      "Procedural chain builds by outcome.",
		}, []string{"outcome"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "chain_build_duration_seconds",
			Help:      "Wall time of procedural chain builds.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		repeatsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "monomer_repeats_total",
			Help:      "Monomer repeat operations by outcome.",
		}, []string{"outcome"}),
		parsesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "xyz_parses_total",
			Help:      "XYZ document parses by mode and outcome.",
		}, []string{"mode", "outcome"}),
		skippedLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "xyz_skipped_lines_total",
			Help:      "Malformed body lines dropped by lenient XYZ parses.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.buildsTotal,
		m.buildDuration,
		m.repeatsTotal,
		m.parsesTotal,
		m.skippedLines,
		m.httpRequestsTotal,
		m.httpRequestDuration,
	)
	return m
}

// Handler returns the exposition endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// ObserveBuild records one procedural build.
func (m *Metrics) ObserveBuild(d time.Duration, err error) {
	m.buildsTotal.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		m.buildDuration.Observe(d.Seconds())
	}
}

// ObserveRepeat records one monomer repeat operation.
func (m *Metrics) ObserveRepeat(err error) {
	m.repeatsTotal.WithLabelValues(outcome(err)).Inc()
}

// ObserveParse records one XYZ parse and the number of lines a lenient parse
// dropped.
func (m *Metrics) ObserveParse(mode string, skipped int, err error) {
	m.parsesTotal.WithLabelValues(mode, outcome(err)).Inc()
	if skipped > 0 {
		m.skippedLines.Add(float64(skipped))
	}
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
