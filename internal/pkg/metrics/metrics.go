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
		Namespace: "planner",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "planner",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Trip metrics
	TripsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "planner",
		Subsystem: "trips",
		Name:      "created_total",
		Help:      "Total trips created",
	})

	TripsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "planner",
		Subsystem: "trips",
		Name:      "confirmed_total",
		Help:      "Total trips confirmed",
	})

	InvitesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "planner",
		Subsystem: "participants",
		Name:      "invites_total",
		Help:      "Total participants invited after trip creation",
	})

	ParticipantsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "planner",
		Subsystem: "participants",
		Name:      "confirmed_total",
		Help:      "Total participants that confirmed presence",
	})

	// Mail metrics
	EmailsSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "planner",
		Subsystem: "mail",
		Name:      "sent_total",
		Help:      "Total emails handed to the mailer successfully",
	})

	EmailsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "planner",
		Subsystem: "mail",
		Name:      "failed_total",
		Help:      "Total emails the mailer rejected",
	})

	// Cache metrics
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "planner",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "planner",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// WebSocket relay
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "planner",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})
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
