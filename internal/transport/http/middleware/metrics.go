package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "identity_service",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "identity_service",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "identity_service",
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "identity_service",
			Name:      "registrations_total",
			Help:      "Total number of registration attempts",
		},
		[]string{"status"}, // success, email_taken, invalid, error
	)

	AuthenticationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "identity_service",
			Name:      "authentications_total",
			Help:      "Total number of authentication attempts",
		},
		[]string{"status"}, // success, invalid_credentials, error
	)

	ProfileUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "identity_service",
			Name:      "profile_updates_total",
			Help:      "Total number of profile update attempts",
		},
		[]string{"status"},
	)

	EventPublishFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "identity_service",
			Name:      "event_publish_failures_total",
			Help:      "Events that could not be published after a committed write",
		},
		[]string{"event"},
	)
)

// Metrics records HTTP RED metrics labelled by chi route pattern.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
