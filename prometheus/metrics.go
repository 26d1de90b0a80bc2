package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// EntityOperationCounter counts repository operations by entity and
	// business
	EntityOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvesthub_entity_operations_total",
			Help: "Total number of entity operations",
		},
		[]string{"entity", "operation", "business"},
	)

	// MigrationCounter counts migration step outcomes
	MigrationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvesthub_migrations_total",
			Help: "Total number of migration step runs by outcome",
		},
		[]string{"outcome"}, // "applied", "skipped", "failed"
	)

	// StoreErrorCounter counts store-level errors by kind
	StoreErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvesthub_store_errors_total",
			Help: "Total number of store errors",
		},
		[]string{"kind"}, // "busy", "validation", "not_found", "other"
	)

	// HTTPRequestCounter counts HTTP requests by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvesthub_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// RequestDuration records HTTP request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "harvesthub_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// DBOperationDuration records store operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "harvesthub_db_operation_duration_seconds",
			Help:    "Duration of store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(
		EntityOperationCounter,
		MigrationCounter,
		StoreErrorCounter,
		HTTPRequestCounter,
		RequestDuration,
		DBOperationDuration,
	)
}

// RecordEntityOperation increments the entity operation counter.
func RecordEntityOperation(entity, operation, business string) {
	EntityOperationCounter.WithLabelValues(entity, operation, business).Inc()
}

// RecordMigration increments the migration counter for an outcome.
func RecordMigration(outcome string) {
	MigrationCounter.WithLabelValues(outcome).Inc()
}

// RecordStoreError increments the store error counter.
func RecordStoreError(kind string) {
	StoreErrorCounter.WithLabelValues(kind).Inc()
}

// TrackDBOperation returns a deferred-friendly timer for store operations:
//
//	defer prometheus.TrackDBOperation("insert")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		DBOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// Middleware records HTTP request metrics.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method
			endpoint := c.Path()

			HTTPRequestCounter.WithLabelValues(endpoint, method, status).Inc()
			RequestDuration.WithLabelValues(endpoint, method, status).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
