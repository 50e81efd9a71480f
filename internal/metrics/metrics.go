package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current Number of HTTP requests being processed.",
		},
	)

	checkoutsInitiated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_initiated_total",
			Help: "Total number of gateway checkouts started.",
		},
	)

	ordersMaterialized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_orders_materialized_total",
			Help: "Orders resolved from gateway callbacks, split by whether the callback was a replay.",
		},
		[]string{"duplicate"},
	)

	checkoutFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_failures_total",
			Help: "Gateway callbacks that did not produce an order.",
		},
		[]string{"failure_class", "reason"},
	)

	pendingPayments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_pending_payments_total",
			Help: "Pending payment cache operations by result.",
		},
		[]string{"result"},
	)
)

const (
	FailureClassUnrecoverable = "unrecoverable_checkout_failure"
	FailureClassUserCancelled = "user_cancelled"
	FailureClassReplay        = "idempotent_replay"
)

func RecordCheckoutInitiated() {
	checkoutsInitiated.Inc()
}

func RecordOrderMaterialized(duplicate bool) {
	ordersMaterialized.WithLabelValues(strconv.FormatBool(duplicate)).Inc()
}

func RecordCheckoutFailure(class, reason string) {
	checkoutFailures.WithLabelValues(class, reason).Inc()
}

// RecordPendingPayment counts a pending cache result: put, hit, miss or consumed.
func RecordPendingPayment(result string) {
	pendingPayments.WithLabelValues(result).Inc()
}

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

// wrapper around http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := newResponseWriter(w)

		defer func() {

			duration := time.Since(start)
			statusCodeStr := strconv.Itoa(rw.statusCode)
			pathPattern := routePattern(r)

			httpRequestsTotal.WithLabelValues(statusCodeStr, r.Method, pathPattern).Inc()
			httpRequestsDuration.WithLabelValues(r.Method, pathPattern).Observe(duration.Seconds())
			httpRequestsInFlight.Dec()

		}()

		next.ServeHTTP(rw, r)

	})
}

// routePattern labels a request by the mux pattern it matched, so ids do not
// explode label cardinality. Unmatched requests share one label.
func routePattern(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}

	if _, path, ok := strings.Cut(r.Pattern, " "); ok {
		return path
	}

	return r.Pattern
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {

	return promhttp.Handler()
}
