package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the back-office. Entity-level
// counters share a vector labelled by entity type; lifecycle operations with
// business significance get dedicated counters.
type Metrics struct {
	RequestDuration   *prometheus.HistogramVec
	EntitiesCreated   *prometheus.CounterVec
	EntitiesDeleted   *prometheus.CounterVec
	LicensesRenewed   prometheus.Counter
	PaymentsRefunded  prometheus.Counter
	SeminarsCancelled prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aikifed_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method and route pattern",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route"}),
		EntitiesCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aikifed_entities_created_total",
			Help: "Total number of entities created, by entity type",
		}, []string{"entity"}),
		EntitiesDeleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aikifed_entities_deleted_total",
			Help: "Total number of entities deleted, by entity type",
		}, []string{"entity"}),
		LicensesRenewed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aikifed_licenses_renewed_total",
			Help: "Total number of successful license renewals",
		}),
		PaymentsRefunded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aikifed_payments_refunded_total",
			Help: "Total number of refunded payments",
		}),
		SeminarsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aikifed_seminars_cancelled_total",
			Help: "Total number of cancelled seminars",
		}),
	}
}

// IncrementCreated records a successful entity creation. Nil-safe so services
// can run without metrics in tests.
func (m *Metrics) IncrementCreated(entity string) {
	if m == nil {
		return
	}
	m.EntitiesCreated.WithLabelValues(entity).Inc()
}

// IncrementDeleted records a successful entity deletion.
func (m *Metrics) IncrementDeleted(entity string) {
	if m == nil {
		return
	}
	m.EntitiesDeleted.WithLabelValues(entity).Inc()
}

// IncrementLicenseRenewed records a successful license renewal.
func (m *Metrics) IncrementLicenseRenewed() {
	if m == nil {
		return
	}
	m.LicensesRenewed.Inc()
}

// IncrementPaymentRefunded records a refunded payment.
func (m *Metrics) IncrementPaymentRefunded() {
	if m == nil {
		return
	}
	m.PaymentsRefunded.Inc()
}

// IncrementSeminarCancelled records a cancelled seminar.
func (m *Metrics) IncrementSeminarCancelled() {
	if m == nil {
		return
	}
	m.SeminarsCancelled.Inc()
}

// ObserveRequest records the duration of a handled HTTP request.
func (m *Metrics) ObserveRequest(method, route string, start time.Time) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}
