package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusExporter exports collector snapshots to Prometheus format.
type PrometheusExporter struct {
	collector *Collector

	operations *prometheus.GaugeVec
	errors     *prometheus.GaugeVec
	queries    *prometheus.GaugeVec
	durations  *prometheus.GaugeVec
}

// NewPrometheusExporter creates a new Prometheus exporter.
func NewPrometheusExporter(collector *Collector) *PrometheusExporter {
	return &PrometheusExporter{
		collector: collector,
		operations: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gakumu_store_operations_total",
			Help: "Total number of entity store operations",
		}, []string{"operation"}),
		errors: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gakumu_store_errors_total",
			Help: "Total number of failed entity store operations",
		}, []string{"operation"}),
		queries: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gakumu_store_queries_total",
			Help: "Total number of database queries issued by the entity store",
		}, []string{"operation"}),
		durations: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gakumu_store_duration_seconds_total",
			Help: "Cumulative duration of entity store operations in seconds",
		}, []string{"operation"}),
	}
}

// Update pushes the current collector snapshot into the Prometheus metrics.
// This should be called periodically (e.g., every 10 seconds).
func (e *PrometheusExporter) Update() {
	snapshot := e.collector.GetStoreMetrics()

	for operation, count := range snapshot.OperationCounts {
		e.operations.WithLabelValues(operation).Set(float64(count))
	}
	for operation, count := range snapshot.ErrorCounts {
		e.errors.WithLabelValues(operation).Set(float64(count))
	}
	for operation, count := range snapshot.QueryCounts {
		e.queries.WithLabelValues(operation).Set(float64(count))
	}
	for operation, seconds := range snapshot.TotalDurationSeconds {
		e.durations.WithLabelValues(operation).Set(seconds)
	}
}
