// Package metrics provides Prometheus metrics for ranking requests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics names as constants for consistency.
const (
	MetricRankRequestsTotal = "epitope_rank_requests_total"
	MetricRankDuration      = "epitope_rank_duration_seconds"
	MetricRankErrorsTotal   = "epitope_rank_errors_total"
)

// Operation constants for labeling.
const (
	OperationRankPeptides   = "rank_peptides"
	OperationRankEpitopes   = "rank_epitopes"
	OperationOverlapping    = "overlapping"
	OperationImportDataset  = "import_dataset"
	OperationSetThreshold   = "set_threshold"
	OperationValidateInputs = "validate"
)

// Status constants for request completion.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Error type constants for the errors counter.
const (
	ErrorTypeInvalidAttribute = "invalid_attribute"
	ErrorTypeValidation       = "validation_error"
	ErrorTypeNotFound         = "not_found"
	ErrorTypeDatabase         = "database_error"
	ErrorTypeInternal         = "internal_error"
)

// Metrics contains Prometheus metrics for ranking operations.
// All operations are thread-safe.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
}

// NewMetrics creates and returns a new Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRankRequestsTotal,
				Help: "Total number of ranking requests by operation and status",
			},
			[]string{"operation", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricRankDuration,
				Help:    "Histogram of ranking request duration in seconds by operation",
				Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"operation"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRankErrorsTotal,
				Help: "Total number of ranking errors by operation and error type",
			},
			[]string{"operation", "error_type"},
		),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncRequests increments the requests counter.
func (m *Metrics) IncRequests(operation, status string) {
	m.requestsTotal.WithLabelValues(operation, status).Inc()
}

// ObserveDuration records a request duration sample.
func (m *Metrics) ObserveDuration(operation string, seconds float64) {
	m.requestDuration.WithLabelValues(operation).Observe(seconds)
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors(operation, errorType string) {
	m.errorsTotal.WithLabelValues(operation, errorType).Inc()
}

// Observe records one finished request. An empty errorType means success.
func (m *Metrics) Observe(operation string, start time.Time, errorType string) {
	m.ObserveDuration(operation, time.Since(start).Seconds())
	if errorType == "" {
		m.IncRequests(operation, StatusSuccess)
		return
	}
	m.IncRequests(operation, StatusFailure)
	m.IncErrors(operation, errorType)
}

// Collectors returns all Prometheus collectors for testing.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.requestsTotal,
		m.requestDuration,
		m.errorsTotal,
	}
}
