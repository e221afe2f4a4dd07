package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for predictions, batches and exports.
type Metrics struct {
	// Predictions by outcome: "success" or "error"
	Predictions *prometheus.CounterVec

	// Batch rows by outcome: "success", "validation_error", "inference_error", "store_error"
	BatchRows *prometheus.CounterVec

	// Completed batch uploads
	Batches prometheus.Counter

	// Exports by format: "csv" or "xlsx"
	Exports *prometheus.CounterVec

	// Oracle call latency
	OracleLatency prometheus.Histogram
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// New creates a Metrics instance registered with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Predictions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "geomed_predictions_total",
			Help: "Total country predictions by outcome",
		}, []string{"outcome"}),

		BatchRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "geomed_batch_rows_total",
			Help: "Total batch rows processed by outcome",
		}, []string{"outcome"}),

		Batches: factory.NewCounter(prometheus.CounterOpts{
			Name: "geomed_batches_total",
			Help: "Total batch uploads processed",
		}),

		Exports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "geomed_exports_total",
			Help: "Total history exports by format",
		}, []string{"format"}),

		OracleLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "geomed_oracle_duration_seconds",
			Help:    "Duration of prediction oracle calls including PubMed lookups",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 45, 90},
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// IncrementPrediction records a single-search or batch prediction outcome.
func (m *Metrics) IncrementPrediction(outcome string) {
	if m != nil {
		m.Predictions.WithLabelValues(outcome).Inc()
	}
}

// IncrementBatchRow records the outcome of one batch row.
func (m *Metrics) IncrementBatchRow(outcome string) {
	if m != nil {
		m.BatchRows.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementBatch() {
	if m != nil {
		m.Batches.Inc()
	}
}

func (m *Metrics) IncrementExport(format string) {
	if m != nil {
		m.Exports.WithLabelValues(format).Inc()
	}
}

// ObserveOracleLatency records the duration of one oracle call.
func (m *Metrics) ObserveOracleLatency(d time.Duration) {
	if m != nil {
		m.OracleLatency.Observe(d.Seconds())
	}
}
