// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	gobreaker "github.com/sony/gobreaker/v2"

	obserrors "github.com/esm-labs/paddock/internal/observability/errors"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// Session clear reasons.
const (
	ClearLogout       = "logout"
	ClearUnauthorized = "unauthorized"
)

var (
	// LoginAttempts counts credential exchanges by outcome.
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paddock_login_attempts_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	// SessionClears counts sessions destroyed by logout or a backend 401.
	SessionClears = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paddock_session_clears_total",
			Help: "Total number of cleared browser sessions by reason",
		},
		[]string{"reason"},
	)

	// BackendRequestDuration observes REST API latency.
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "paddock_backend_request_duration_seconds",
			Help:    "Backend API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	// BackendErrors counts failed backend calls by error class.
	BackendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paddock_backend_errors_total",
			Help: "Total number of failed backend API calls",
		},
		[]string{"endpoint", "class"},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "paddock_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paddock_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// HTTPRequests counts browser-facing requests.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paddock_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "status"},
	)

	// RateLimitHits counts requests rejected by the login limiter.
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paddock_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)
)

// ObserveBackend records one backend call. status is 0 when no response arrived.
func ObserveBackend(method, endpoint string, status int, d time.Duration, err error) {
	label := "none"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	BackendRequestDuration.WithLabelValues(method, endpoint, label).Observe(d.Seconds())
	if err != nil {
		BackendErrors.WithLabelValues(endpoint, obserrors.Classify(err)).Inc()
	}
}

// RecordBreakerTransition updates breaker gauges on a state change.
func RecordBreakerTransition(name string, from, to gobreaker.State) {
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
	CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
