package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks records layout, cache and HTTP events as Prometheus
// metrics. It implements LayoutHooks, CacheHooks and HTTPHooks.
type PrometheusHooks struct {
	LayoutsTotal        *prometheus.CounterVec
	LayoutDuration      *prometheus.HistogramVec
	LayoutNodes         *prometheus.HistogramVec
	ConfigurationsTotal prometheus.Counter
	FallbacksTotal      prometheus.Counter
	EdgesRoutedTotal    *prometheus.CounterVec

	CacheRequestsTotal *prometheus.CounterVec
	CacheWriteBytes    *prometheus.HistogramVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPInFlight        prometheus.Gauge
}

var (
	_ LayoutHooks = (*PrometheusHooks)(nil)
	_ CacheHooks  = (*PrometheusHooks)(nil)
	_ HTTPHooks   = (*PrometheusHooks)(nil)
)

// NewPrometheusHooks creates the metrics and registers them with reg.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		LayoutsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nestlayout_layouts_total",
				Help: "Total number of layout runs",
			},
			[]string{"engine", "status"}, // ok, error
		),
		LayoutDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nestlayout_layout_duration_seconds",
				Help:    "Duration of layout runs in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"engine"},
		),
		LayoutNodes: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nestlayout_layout_nodes",
				Help:    "Number of nodes per layout run",
				Buckets: prometheus.ExponentialBuckets(1, 4, 7),
			},
			[]string{"engine"},
		),
		ConfigurationsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "nestlayout_layered_configurations_total",
			Help: "Total number of layered configurations tried",
		}),
		FallbacksTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "nestlayout_layered_grid_fallbacks_total",
			Help: "Total number of containers placed on the fallback grid",
		}),
		EdgesRoutedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nestlayout_edges_routed_total",
				Help: "Total number of edges seen by the handle router",
			},
			[]string{"result"}, // routed, invalid
		),
		CacheRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nestlayout_cache_requests_total",
				Help: "Total number of cache lookups",
			},
			[]string{"key_type", "result"}, // hit, miss
		),
		CacheWriteBytes: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nestlayout_cache_write_bytes",
				Help:    "Size of cache writes in bytes",
				Buckets: prometheus.ExponentialBuckets(256, 4, 8),
			},
			[]string{"key_type"},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nestlayout_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nestlayout_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "nestlayout_http_requests_in_flight",
			Help: "Number of HTTP requests being served",
		}),
	}
}

func (h *PrometheusHooks) OnLayoutStart(_ context.Context, engine string, nodeCount int) {
	h.LayoutNodes.WithLabelValues(engine).Observe(float64(nodeCount))
}

func (h *PrometheusHooks) OnLayoutComplete(_ context.Context, engine string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	h.LayoutsTotal.WithLabelValues(engine, status).Inc()
	h.LayoutDuration.WithLabelValues(engine).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnSearch(_ context.Context, configurations, fallbacks int) {
	h.ConfigurationsTotal.Add(float64(configurations))
	h.FallbacksTotal.Add(float64(fallbacks))
}

func (h *PrometheusHooks) OnEdgesRouted(_ context.Context, routed, invalid int) {
	h.EdgesRoutedTotal.WithLabelValues("routed").Add(float64(routed))
	h.EdgesRoutedTotal.WithLabelValues("invalid").Add(float64(invalid))
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.CacheRequestsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.CacheRequestsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.CacheWriteBytes.WithLabelValues(keyType).Observe(float64(size))
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string) {
	h.HTTPInFlight.Inc()
}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, statusCode int, d time.Duration) {
	h.HTTPInFlight.Dec()
	h.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	h.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
