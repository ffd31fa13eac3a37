package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Current number of active HTTP requests",
		},
	)

	// Database metrics
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "collection"},
	)

	// Plan metrics
	PlanOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_operations_total",
			Help: "Total number of plan operations",
		},
		[]string{"operation"}, // import, add_task, remove_task, toggle, subtask
	)

	TaskCompletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "task_completions_total",
			Help: "Total number of tasks marked complete",
		},
	)

	// Authentication metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status", "type"}, // success/failure, login/refresh/register
	)

	// Session metrics
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions_total",
			Help: "Total number of active sessions",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors by type and cause",
		},
		[]string{"type", "cause"},
	)
)

// TrackDBOperation times one database operation; observe via the returned
// timer's ObserveDuration.
func TrackDBOperation(operation, collection string) *prometheus.Timer {
	return prometheus.NewTimer(DBOperationDuration.WithLabelValues(operation, collection))
}

// TrackPlanOperation increments the plan operation counter.
func TrackPlanOperation(operation string) {
	PlanOperationsTotal.WithLabelValues(operation).Inc()
}

// TrackTaskCompletion counts a task flipped to complete.
func TrackTaskCompletion() {
	TaskCompletionsTotal.Inc()
}

// TrackAuthAttempt records an authentication attempt.
func TrackAuthAttempt(status, authType string) {
	AuthAttempts.WithLabelValues(status, authType).Inc()
}

// TrackError increments the error counter for a type/cause pair.
func TrackError(errorType, cause string) {
	ErrorsTotal.WithLabelValues(errorType, cause).Inc()
}
