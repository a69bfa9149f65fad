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
		Namespace: "sentinelguard",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sentinelguard",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Map and routing metrics
	RouteResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentinelguard",
		Subsystem: "routing",
		Name:      "resolutions_total",
		Help:      "Total route resolutions by outcome",
	}, []string{"outcome"})

	RouteResolutionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sentinelguard",
		Subsystem: "routing",
		Name:      "resolution_duration_seconds",
		Help:      "Duration of route resolution including fallback",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 15},
	})

	LocationLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentinelguard",
		Subsystem: "location",
		Name:      "lookups_total",
		Help:      "Total device location lookups by outcome",
	}, []string{"outcome"})

	DevicesRendered = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sentinelguard",
		Subsystem: "map",
		Name:      "devices_rendered",
		Help:      "Devices currently rendered after filtering",
	})

	SimulatorTicks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sentinelguard",
		Subsystem: "simulator",
		Name:      "ticks_total",
		Help:      "Total telemetry simulator ticks",
	})

	AlertsRaised = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentinelguard",
		Subsystem: "alerts",
		Name:      "raised_total",
		Help:      "Total alerts raised by severity",
	}, []string{"severity"})

	AlertsEnhanced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentinelguard",
		Subsystem: "alerts",
		Name:      "enhanced_total",
		Help:      "Total AI alert enhancements by outcome",
	}, []string{"outcome"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sentinelguard",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentinelguard",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentinelguard",
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
