package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roomfinder",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "roomfinder",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "roomfinder",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Campus-specific metrics
	SearchQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roomfinder",
		Subsystem: "search",
		Name:      "queries_total",
		Help:      "Total room search queries",
	}, []string{"mode"}) // browse (empty query) | query

	GeofenceChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roomfinder",
		Subsystem: "geofence",
		Name:      "checks_total",
		Help:      "Total geofence access checks by outcome",
	}, []string{"outcome"}) // allowed | no_location | no_boundary | outside

	RouteRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roomfinder",
		Subsystem: "routing",
		Name:      "requests_total",
		Help:      "Total walking-route requests by status",
	}, []string{"status"}) // ok | unavailable

	RouteRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "roomfinder",
		Subsystem: "routing",
		Name:      "request_duration_seconds",
		Help:      "Duration of outbound routing service calls",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	DatasetRowsLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roomfinder",
		Subsystem: "ingest",
		Name:      "rows_loaded_total",
		Help:      "Total dataset rows successfully loaded",
	}, []string{"dataset"}) // rooms | boundary

	DatasetRowsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roomfinder",
		Subsystem: "ingest",
		Name:      "rows_skipped_total",
		Help:      "Total dataset rows skipped as unparseable",
	}, []string{"dataset"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "roomfinder",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roomfinder",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roomfinder",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
