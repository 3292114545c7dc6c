// Package prometheus provides the Prometheus-backed implementation of
// metrics.ResolverMetrics.
package prometheus

import (
	"time"

	"github.com/marmos91/mountattr/pkg/metrics"
	"github.com/marmos91/mountattr/pkg/mounterr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// resolverMetrics is the Prometheus implementation of metrics.ResolverMetrics.
type resolverMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	classifications   *prometheus.CounterVec
	tableLoads        *prometheus.CounterVec
	tableEntries      prometheus.Gauge
}

// NewResolverMetrics creates a new Prometheus-backed ResolverMetrics instance.
//
// Returns a no-op implementation if metrics are not enabled (InitRegistry not called).
func NewResolverMetrics() metrics.ResolverMetrics {
	if !metrics.IsEnabled() {
		return metrics.NewNoopResolverMetrics()
	}

	reg := metrics.GetRegistry()

	return &resolverMetrics{
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "mountattr_operations_total",
				Help: "Total number of resolver operations by operation and status",
			},
			[]string{"operation", "status", "error_code"},
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "mountattr_operation_duration_microseconds",
				Help: "Duration of resolver operations in microseconds",
				Buckets: []float64{
					1,     // 1us
					10,    // 10us
					100,   // 100us
					1000,  // 1ms
					10000, // 10ms
				},
			},
			[]string{"operation"},
		),
		classifications: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "mountattr_classifications_total",
				Help: "Locality decisions by filesystem type",
			},
			[]string{"fs_type", "locality"},
		),
		tableLoads: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "mountattr_table_loads_total",
				Help: "Mount table loads by source and status",
			},
			[]string{"source", "status"},
		),
		tableEntries: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "mountattr_table_entries",
				Help: "Number of mount points in the current table",
			},
		),
	}
}

func (m *resolverMetrics) RecordOperation(operation string, duration time.Duration, err error) {
	status, code := "success", ""
	if err != nil {
		status = "error"
		code = mounterr.CodeOf(err).String()
	}

	m.operationsTotal.WithLabelValues(operation, status, code).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(float64(duration.Microseconds()))
}

func (m *resolverMetrics) RecordClassification(fsType string, locality string) {
	m.classifications.WithLabelValues(fsType, locality).Inc()
}

func (m *resolverMetrics) RecordTableLoad(source string, entries int, err error) {
	if err != nil {
		m.tableLoads.WithLabelValues(source, "error").Inc()
		return
	}
	m.tableLoads.WithLabelValues(source, "success").Inc()
	m.tableEntries.Set(float64(entries))
}
