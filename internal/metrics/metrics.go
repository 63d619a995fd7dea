// Package metrics exposes Prometheus instrumentation for the allocation
// service. Metrics live in a private registry so the /metrics endpoint
// serves only what this package registers.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "facalloc"
	subsystem = "allocator"
)

var registry = prometheus.NewRegistry()

var (
	runsTotal = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "runs_total",
		Help:      "Total number of completed allocation runs",
	})

	runErrorsTotal = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "run_errors_total",
		Help:      "Total number of allocation runs that failed",
	})

	runsRejectedTotal = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "runs_rejected_total",
		Help:      "Total number of runs rejected because every slot was busy",
	})

	runDurationMs = promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "run_duration_milliseconds",
		Help:      "Wall-clock duration of allocation runs in milliseconds",
		Buckets:   prometheus.DefBuckets,
	})

	studentsAllocatedTotal = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "students_allocated_total",
		Help:      "Total number of students allocated across all runs",
	})

	storedRuns = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "stored_runs",
		Help:      "Number of completed runs currently retained in memory",
	})

	httpRequestsTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	httpRequestDurationMs = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds by route, method and status",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
)

// Registry returns the registry backing the /metrics endpoint.
func Registry() *prometheus.Registry {
	return registry
}

// RecordRun counts a completed run and observes its duration.
func RecordRun(d time.Duration) {
	runsTotal.Inc()
	runDurationMs.Observe(d.Seconds() * 1000)
}

// RecordRunError counts a failed run.
func RecordRunError() {
	runErrorsTotal.Inc()
}

// RecordRunRejected counts a run turned away by the limiter.
func RecordRunRejected() {
	runsRejectedTotal.Inc()
}

// RecordStudentsAllocated adds a run's student count to the running total.
func RecordStudentsAllocated(n int) {
	studentsAllocatedTotal.Add(float64(n))
}

// UpdateStoredRuns sets the gauge of runs retained in memory.
func UpdateStoredRuns(n int) {
	storedRuns.Set(float64(n))
}

// RecordHTTPRequest counts one HTTP request and observes its duration.
func RecordHTTPRequest(route, method, status string, d time.Duration) {
	httpRequestsTotal.WithLabelValues(route, method, status).Inc()
	httpRequestDurationMs.WithLabelValues(route, method, status).Observe(d.Seconds() * 1000)
}
