package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks total HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "endpoint", "status"},
	)

	// RequestDuration tracks HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "endpoint"},
	)

	// CircuitBreakerState tracks circuit breaker state (0=closed, 1=open, 2=half-open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"service", "circuit_name"},
	)

	// CircuitBreakerFailures tracks calls that failed through a circuit breaker
	CircuitBreakerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of circuit breaker failures",
		},
		[]string{"service", "circuit_name"},
	)

	// BackendRequestDuration tracks remote backend latency per operation
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Remote backend request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "outcome"},
	)

	// CheckoutsTotal counts order submissions by outcome
	CheckoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkouts_total",
			Help: "Total number of checkout submissions",
		},
		[]string{"status", "invoice_type"},
	)

	// CheckoutAmount tracks submitted grand totals
	CheckoutAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkout_grand_total",
			Help:    "Grand total of accepted checkouts",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000},
		},
	)

	// CartRejections counts cart mutations refused by stock rules
	CartRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_rejections_total",
			Help: "Cart changes rejected because of stock",
		},
		[]string{"reason"},
	)

	// ActiveTerminals tracks logged-in terminal sessions
	ActiveTerminals = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_terminal_sessions",
			Help: "Number of logged-in terminal sessions",
		},
	)

	// PrintJobsTotal counts thermal receipt jobs by outcome
	PrintJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receipt_print_jobs_total",
			Help: "Thermal receipt print jobs",
		},
		[]string{"outcome"},
	)
)

// PrometheusMiddleware creates a Gin middleware for automatic metrics collection
func PrometheusMiddleware(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestsTotal.WithLabelValues(serviceName, c.Request.Method, endpoint, status).Inc()
		RequestDuration.WithLabelValues(serviceName, c.Request.Method, endpoint).Observe(duration)
	}
}

// ObserveBackend records one remote call
func ObserveBackend(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	BackendRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}
