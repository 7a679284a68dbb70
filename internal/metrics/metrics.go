package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Cache lookups partitioned by outcome (hit/miss).",
		},
		[]string{"outcome"},
	)

	upstreamRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "upstream_retries_total",
		Help: "Failed upstream attempts that triggered a retry or exhaustion.",
	})

	activeSubscriptions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "realtime_active_subscriptions",
		Help: "Currently active realtime assistant subscriptions.",
	})
)

// Init registers all metrics with the default registry.
// Call once from main; the increment helpers are safe without registration
// (tests exercise them unregistered).
func Init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		cacheLookups,
		upstreamRetries,
		activeSubscriptions,
	)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Middleware records request counts and latencies per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := strconv.Itoa(c.Writer.Status())
		dur := time.Since(start).Seconds()

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(dur)
	}
}

func CacheHit()  { cacheLookups.WithLabelValues("hit").Inc() }
func CacheMiss() { cacheLookups.WithLabelValues("miss").Inc() }

func UpstreamRetry() { upstreamRetries.Inc() }

func SubscriptionStarted() { activeSubscriptions.Inc() }
func SubscriptionEnded()   { activeSubscriptions.Dec() }
