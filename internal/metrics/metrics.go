package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "notes"

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Note server function calls by operation and outcome",
		},
		[]string{"op", "outcome"},
	)
	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of note server functions",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	connectionAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connection_attempts_total",
			Help:      "Attempts to open the store connection pool",
		},
		[]string{"result"},
	)
)

// ObserveOperation records one server function call. Outcome is the error
// kind name, or "ok".
func ObserveOperation(op, outcome string, started time.Time) {
	operationsTotal.WithLabelValues(op, outcome).Inc()
	operationDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

func ObserveConnectionAttempt(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	connectionAttempts.WithLabelValues(result).Inc()
}
