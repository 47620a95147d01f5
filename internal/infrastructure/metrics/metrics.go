package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus collectors for the export pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	exports       *prometheus.CounterVec
	fieldRepairs  *prometheus.CounterVec
	sheetSchemas  *prometheus.CounterVec
	sheetsLatency *prometheus.HistogramVec
}

// New registers the export collectors with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		exports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardexport_exports_total",
				Help: "Total number of export calls by sink and result",
			},
			[]string{"sink", "result"},
		),

		fieldRepairs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardexport_field_repairs_total",
				Help: "Total number of generated-field defects repaired before export",
			},
			[]string{"defect"},
		),

		sheetSchemas: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardexport_sheet_schema_total",
				Help: "Destination sheet header classifications",
			},
			[]string{"schema"},
		),

		sheetsLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cardexport_sheets_api_duration_seconds",
				Help:    "Duration of spreadsheet API calls in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
			},
			[]string{"operation"},
		),
	}
}

// RecordExport counts one export call
func (m *Metrics) RecordExport(sink string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.exports.WithLabelValues(sink, result).Inc()
}

// RecordRepair counts one repaired defect
func (m *Metrics) RecordRepair(defect string) {
	if m == nil {
		return
	}
	m.fieldRepairs.WithLabelValues(defect).Inc()
}

// RecordSchema counts one header classification
func (m *Metrics) RecordSchema(schema string) {
	if m == nil {
		return
	}
	m.sheetSchemas.WithLabelValues(schema).Inc()
}

// ObserveSheetsCall records the latency of a spreadsheet API call
func (m *Metrics) ObserveSheetsCall(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.sheetsLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
