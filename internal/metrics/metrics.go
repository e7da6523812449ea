// Package metrics holds the prometheus collectors for store operations.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Registry is private to the module so tests and the CLI dump see only our collectors.
var Registry = prometheus.NewRegistry()

var (
	// StoreOperations counts save/list/load calls by backend and outcome.
	StoreOperations = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resultmon",
			Name:      "store_operations_total",
			Help:      "Total number of record store operations.",
		},
		[]string{"backend", "op", "status"},
	)

	// ListedRecords is the size of the most recent listing per backend.
	ListedRecords = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "resultmon",
			Name:      "listed_records",
			Help:      "Number of records returned by the last list call.",
		},
		[]string{"backend"},
	)

	// OperationSeconds tracks store call latency.
	OperationSeconds = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "resultmon",
			Name:      "store_operation_seconds",
			Help:      "Latency of record store operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
		[]string{"backend", "op"},
	)
)

// ObserveStoreOp records one finished operation.
func ObserveStoreOp(backend, op string, seconds float64, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	StoreOperations.WithLabelValues(backend, op, status).Inc()
	OperationSeconds.WithLabelValues(backend, op).Observe(seconds)
}

// WriteText dumps the registry in the prometheus text exposition format.
func WriteText(w io.Writer) error {
	families, err := Registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
