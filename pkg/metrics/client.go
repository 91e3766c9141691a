package metrics

import (
	"time"

	"github.com/marmos91/bigsqs/pkg/client"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// clientMetrics is the Prometheus implementation of client.Metrics.
type clientMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	offloadedBytes    prometheus.Counter
	resolvedBytes     prometheus.Counter
	offloadsTotal     prometheus.Counter
	resolvesTotal     prometheus.Counter
	cleanupFailures   prometheus.Counter
}

// NewClientMetrics creates a Prometheus-backed client.Metrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called); passing
// nil to the client results in zero overhead.
func NewClientMetrics() client.Metrics {
	if !IsEnabled() {
		return nil
	}

	reg := GetRegistry()

	return &clientMetrics{
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "bigsqs_operations_total",
				Help: "Total number of client operations by operation and status",
			},
			[]string{"operation", "status"},
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "bigsqs_operation_duration_milliseconds",
				Help: "Duration of client operations in milliseconds",
				Buckets: []float64{
					10,    // 10ms - queue round trip
					50,    // 50ms
					100,   // 100ms
					500,   // 500ms - small offloads
					1000,  // 1s
					5000,  // 5s - large offloads
					30000, // 30s - long-poll receives
				},
			},
			[]string{"operation"},
		),
		offloadedBytes: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "bigsqs_offloaded_bytes_total",
				Help: "Total payload bytes written to object storage",
			},
		),
		resolvedBytes: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "bigsqs_resolved_bytes_total",
				Help: "Total payload bytes read back from object storage",
			},
		),
		offloadsTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "bigsqs_offloads_total",
				Help: "Total number of payloads offloaded to object storage",
			},
		),
		resolvesTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "bigsqs_resolves_total",
				Help: "Total number of pointers resolved from object storage",
			},
		),
		cleanupFailures: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "bigsqs_cleanup_failures_total",
				Help: "Object deletions that failed after the queue entry was removed",
			},
		),
	}
}

func (m *clientMetrics) ObserveOperation(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "error"
	}
	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(float64(duration.Milliseconds()))
}

func (m *clientMetrics) RecordOffload(bytes int64) {
	if m == nil {
		return
	}
	m.offloadsTotal.Inc()
	m.offloadedBytes.Add(float64(bytes))
}

func (m *clientMetrics) RecordResolve(bytes int64) {
	if m == nil {
		return
	}
	m.resolvesTotal.Inc()
	m.resolvedBytes.Add(float64(bytes))
}

func (m *clientMetrics) RecordCleanupFailure() {
	if m == nil {
		return
	}
	m.cleanupFailures.Inc()
}
