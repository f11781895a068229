package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"water360/backend/libs/httpx"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "water360_http_requests_total",
			Help: "Total HTTP requests by service, method, route and status code",
		},
		[]string{"service", "method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "water360_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "route"},
	)

	// Readings
	ReadingsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "water360_readings_ingested_total",
			Help: "Sensor readings accepted by the store",
		},
	)

	WarningsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "water360_warnings_emitted_total",
			Help: "Threshold warnings returned, by metric",
		},
		[]string{"metric"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "water360_store_errors_total",
			Help: "Reading store failures by operation",
		},
		[]string{"operation"},
	)

	// Auth
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "water360_login_attempts_total",
			Help: "Login attempts by outcome (success, failure, locked)",
		},
		[]string{"outcome"},
	)

	// Gateway
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "water360_upstream_requests_total",
			Help: "Gateway upstream calls by upstream and outcome",
		},
		[]string{"upstream", "outcome"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "water360_circuit_breaker_state",
			Help: "Circuit breaker state per upstream (0 closed, 1 half-open, 2 open)",
		},
		[]string{"upstream"},
	)
)

// Middleware records request count and latency under the matched route pattern.
func Middleware(service string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := httpx.RoutePattern(r)
			HTTPRequestsTotal.WithLabelValues(service, r.Method, route, strconv.Itoa(status)).Inc()
			HTTPRequestDuration.WithLabelValues(service, r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
