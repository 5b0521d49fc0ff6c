// Package obs holds the Prometheus metrics of the validator.
package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "regvalidate"

// Metrics holds all Prometheus metrics for the service. It implements
// validation.Observer.
type Metrics struct {
	RunsTotal                   *prometheus.CounterVec
	RunDuration                 *prometheus.HistogramVec
	RowsTotal                   *prometheus.CounterVec
	ColumnErrorsTotal           *prometheus.CounterVec
	CrossReferenceDegradedTotal *prometheus.CounterVec
	FileErrorsTotal             *prometheus.CounterVec
	MessagesTotal               *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg. Pass
// prometheus.DefaultRegisterer to expose them on the default /metrics handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Validation runs by file type and result",
		}, []string{"type", "valid"}),
		RunDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Time from message receipt to published outcome",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
		RowsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Data rows parsed by file type",
		}, []string{"type"}),
		ColumnErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "column_errors_total",
			Help:      "Column errors reported by validation phase",
		}, []string{"phase"}),
		CrossReferenceDegradedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cross_reference_degraded_total",
			Help:      "Cross-reference phases skipped because the organisation directory failed",
		}, []string{"mode"}),
		FileErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "file_errors_total",
			Help:      "Files rejected before row validation, by error code",
		}, []string{"code"}),
		MessagesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Inbound messages by handling result",
		}, []string{"result"}),
	}
}

// PhaseErrors implements validation.Observer.
func (m *Metrics) PhaseErrors(phase string, n int) {
	if n > 0 {
		m.ColumnErrorsTotal.WithLabelValues(phase).Add(float64(n))
	}
}

// CrossReferenceDegraded implements validation.Observer.
func (m *Metrics) CrossReferenceDegraded(mode string) {
	m.CrossReferenceDegradedTotal.WithLabelValues(mode).Inc()
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(eventType string, valid bool, rows int, seconds float64) {
	v := "false"
	if valid {
		v = "true"
	}
	m.RunsTotal.WithLabelValues(eventType, v).Inc()
	m.RowsTotal.WithLabelValues(eventType).Add(float64(rows))
	m.RunDuration.WithLabelValues(eventType).Observe(seconds)
}

// FileError counts a file rejected with a file level code.
func (m *Metrics) FileError(code string) {
	m.FileErrorsTotal.WithLabelValues(code).Inc()
}

// Message counts an inbound message by result: processed, failed or skipped.
func (m *Metrics) Message(result string) {
	m.MessagesTotal.WithLabelValues(result).Inc()
}
