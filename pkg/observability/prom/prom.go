// Package prom exports observability hooks as Prometheus metrics.
//
//	m := prom.New()
//	m.Register()                       // install as global hooks
//	http.Handle("/metrics", m.Handler())
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/storyboard/pkg/observability"
)

const namespace = "storyboard"

// Option configures Metrics.
type Option func(*Metrics)

// WithRegistry uses reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(m *Metrics) { m.registry = reg }
}

// Metrics implements every observability hook interface on top of a
// Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	renders          *prometheus.CounterVec
	renderDuration   *prometheus.HistogramVec
	settleIterations prometheus.Histogram
	settleDiverged   prometheus.Counter
	itemCount        prometheus.Histogram

	cacheEvents *prometheus.CounterVec
	cacheBytes  prometheus.Counter

	uploads        *prometheus.CounterVec
	uploadDuration prometheus.Histogram

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	httpErrors    *prometheus.CounterVec
	serveRequests *prometheus.CounterVec
	serveDuration *prometheus.HistogramVec
}

// New creates the metrics on a new registry holding the Go and process
// collectors.
func New(opts ...Option) *Metrics {
	m := &Metrics{}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	auto := promauto.With(m.registry)

	m.renders = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "render",
		Name:      "total",
		Help:      "Renders by template and outcome.",
	}, []string{"template", "status"})
	m.renderDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "render",
		Name:      "duration_seconds",
		Help:      "Render duration including all sinks.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"template"})
	m.settleIterations = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "render",
		Name:      "settle_iterations",
		Help:      "Layout passes until the measurement loop settled.",
		Buckets:   prometheus.LinearBuckets(1, 1, 6),
	})
	m.settleDiverged = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "render",
		Name:      "settle_unconverged_total",
		Help:      "Measurement loops that hit the iteration cap.",
	})
	m.itemCount = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "render",
		Name:      "schedule_items",
		Help:      "Schedule items per render.",
		Buckets:   []float64{0, 1, 3, 6, 9, 12, 15, 18, 20},
	})

	m.cacheEvents = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "events_total",
		Help:      "Cache hits, misses and writes by key type.",
	}, []string{"key_type", "event"})
	m.cacheBytes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "written_bytes_total",
		Help:      "Bytes written to the cache.",
	})

	m.uploads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "editor",
		Name:      "uploads_total",
		Help:      "Image uploads by outcome.",
	}, []string{"status"})
	m.uploadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "editor",
		Name:      "upload_duration_seconds",
		Help:      "Image upload duration.",
		Buckets:   prometheus.DefBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http_client",
		Name:      "requests_total",
		Help:      "Outgoing HTTP requests by host and status code.",
	}, []string{"host", "code"})
	m.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http_client",
		Name:      "duration_seconds",
		Help:      "Outgoing HTTP request duration.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"host"})
	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http_client",
		Name:      "errors_total",
		Help:      "Outgoing HTTP requests that failed without a response.",
	}, []string{"host"})

	m.serveRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Served HTTP requests by route and status code.",
	}, []string{"route", "code"})
	m.serveDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Served HTTP request duration.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	return m
}

// Register installs m as the global observability hooks.
func (m *Metrics) Register() {
	observability.SetRenderHooks(m)
	observability.SetCacheHooks(m)
	observability.SetEditorHooks(m)
	observability.SetHTTPHooks(m)
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records a served request.
func (m *Metrics) ObserveRequest(route string, status int, duration time.Duration) {
	m.serveRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.serveDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *Metrics) OnRenderStart(_ context.Context, _ string, itemCount int) {
	m.itemCount.Observe(float64(itemCount))
}

func (m *Metrics) OnSettle(_ context.Context, _ string, iterations int, converged bool) {
	m.settleIterations.Observe(float64(iterations))
	if !converged {
		m.settleDiverged.Inc()
	}
}

func (m *Metrics) OnRenderComplete(_ context.Context, templateID string, _ []string, duration time.Duration, err error) {
	m.renders.WithLabelValues(templateID, status(err)).Inc()
	m.renderDuration.WithLabelValues(templateID).Observe(duration.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.Add(float64(size))
}

func (m *Metrics) OnUpload(_ context.Context, _ string, duration time.Duration, err error) {
	m.uploads.WithLabelValues(status(err)).Inc()
	m.uploadDuration.Observe(duration.Seconds())
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, statusCode int, duration time.Duration) {
	m.httpRequests.WithLabelValues(host, strconv.Itoa(statusCode)).Inc()
	m.httpDuration.WithLabelValues(host).Observe(duration.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.httpErrors.WithLabelValues(host).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ observability.RenderHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.EditorHooks = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)
