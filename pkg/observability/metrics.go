package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsHooks records events as Prometheus metrics.
type MetricsHooks struct {
	graphs      *prometheus.CounterVec
	graphTime   prometheus.Histogram
	graphNodes  prometheus.Histogram
	renders     *prometheus.CounterVec
	renderTime  *prometheus.HistogramVec
	renderBytes *prometheus.CounterVec
	cacheEvents *prometheus.CounterVec
	requests    *prometheus.CounterVec
	requestTime *prometheus.HistogramVec
}

// NewMetricsHooks creates the dirdeps metrics and registers them with reg.
func NewMetricsHooks(reg prometheus.Registerer) *MetricsHooks {
	f := promauto.With(reg)
	return &MetricsHooks{
		graphs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dirdeps_graphs_total",
			Help: "Directory graphs generated, by result.",
		}, []string{"result"}),
		graphTime: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dirdeps_graph_duration_seconds",
			Help:    "Time to generate one directory graph.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		graphNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dirdeps_graph_nodes",
			Help:    "Directories drawn per graph.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dirdeps_renders_total",
			Help: "Graphviz renders, by format and result.",
		}, []string{"format", "result"}),
		renderTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dirdeps_render_duration_seconds",
			Help:    "Time to render one graph.",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		renderBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dirdeps_render_bytes_total",
			Help: "Bytes of rendered output, by format.",
		}, []string{"format"}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dirdeps_cache_events_total",
			Help: "Cache lookups and writes, by key type and event.",
		}, []string{"type", "event"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dirdeps_http_requests_total",
			Help: "HTTP responses, by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dirdeps_http_request_duration_seconds",
			Help:    "HTTP request latency, by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Register installs h for every hook category.
func (h *MetricsHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *MetricsHooks) OnGraphStart(context.Context, string) {}

func (h *MetricsHooks) OnGraphComplete(_ context.Context, _ string, nodes, _ int, d time.Duration, err error) {
	h.graphs.WithLabelValues(result(err)).Inc()
	if err == nil {
		h.graphTime.Observe(d.Seconds())
		h.graphNodes.Observe(float64(nodes))
	}
}

func (h *MetricsHooks) OnRenderStart(context.Context, string, string) {}

func (h *MetricsHooks) OnRenderComplete(_ context.Context, _ string, format string, size int, d time.Duration, err error) {
	h.renders.WithLabelValues(format, result(err)).Inc()
	if err == nil {
		h.renderTime.WithLabelValues(format).Observe(d.Seconds())
		h.renderBytes.WithLabelValues(format).Add(float64(size))
	}
}

func (h *MetricsHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h *MetricsHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h *MetricsHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.cacheEvents.WithLabelValues(keyType, "set").Inc()
}

func (h *MetricsHooks) OnRequest(context.Context, string, string) {}

func (h *MetricsHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.requestTime.WithLabelValues(route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*MetricsHooks)(nil)
	_ CacheHooks    = (*MetricsHooks)(nil)
	_ HTTPHooks     = (*MetricsHooks)(nil)
)
