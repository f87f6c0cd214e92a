package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the scraper core
type Metrics struct {
	// Session metrics
	ActiveSessions  prometheus.Gauge
	LoginsTotal     *prometheus.CounterVec
	LoginErrors     *prometheus.CounterVec
	LoginDuration   prometheus.Histogram
	SessionsRemoved *prometheus.CounterVec
	ReleaseFailures prometheus.Counter
	SweepsTotal     prometheus.Counter
	SweepDuration   prometheus.Histogram

	// Taxonomy metrics
	ClassificationFailures *prometheus.CounterVec

	// Kafka metrics
	KafkaMessagesProduced prometheus.Counter
	KafkaProduceErrors    *prometheus.CounterVec
	KafkaProduceDuration  prometheus.Histogram
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return DefaultMetrics
}

// NewMetrics registers all metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scraper_core_active_sessions",
			Help: "Current number of registered auth sessions",
		}),
		LoginsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_core_logins_total",
				Help: "Total number of login attempts by result",
			},
			[]string{"result"},
		),
		LoginErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_core_login_errors_total",
				Help: "Total number of failed logins",
			},
			[]string{"error_type"},
		),
		LoginDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scraper_core_login_duration_seconds",
			Help:    "Duration of remote login flows in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SessionsRemoved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_core_sessions_removed_total",
				Help: "Total number of sessions removed from the registry",
			},
			[]string{"reason"},
		),
		ReleaseFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "scraper_core_release_failures_total",
			Help: "Total number of requester close failures",
		}),
		SweepsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "scraper_core_sweeps_total",
			Help: "Total number of invalidation sweeps",
		}),
		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scraper_core_sweep_duration_seconds",
			Help:    "Duration of invalidation sweeps in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),

		ClassificationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_core_classification_failures_total",
				Help: "Total number of taxonomy lookups that failed closed",
			},
			[]string{"taxonomy"},
		),

		KafkaMessagesProduced: factory.NewCounter(prometheus.CounterOpts{
			Name: "scraper_core_kafka_messages_produced_total",
			Help: "Total number of messages produced to Kafka",
		}),
		KafkaProduceErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_core_kafka_produce_errors_total",
				Help: "Total number of Kafka produce errors",
			},
			[]string{"error_type"},
		),
		KafkaProduceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scraper_core_kafka_produce_duration_seconds",
			Help:    "Duration of Kafka produce operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// RecordLogin records a finished login flow
func (m *Metrics) RecordLogin(result string, duration float64) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(result).Inc()
	m.LoginDuration.Observe(duration)
}

// RecordLoginError records a failed login with error type
func (m *Metrics) RecordLoginError(errorType string) {
	if m == nil {
		return
	}
	if errorType == "" {
		errorType = "unknown"
	}
	m.LoginErrors.WithLabelValues(errorType).Inc()
}

// UpdateActiveSessions updates the registered sessions gauge
func (m *Metrics) UpdateActiveSessions(count int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(count))
}

// RecordSessionRemoved records a registry removal
func (m *Metrics) RecordSessionRemoved(reason string) {
	if m == nil {
		return
	}
	m.SessionsRemoved.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordReleaseFailure() {
	if m == nil {
		return
	}
	m.ReleaseFailures.Inc()
}

// RecordSweep records a finished invalidation sweep
func (m *Metrics) RecordSweep(duration float64) {
	if m == nil {
		return
	}
	m.SweepsTotal.Inc()
	m.SweepDuration.Observe(duration)
}

// RecordClassificationFailure records a taxonomy lookup that failed closed
func (m *Metrics) RecordClassificationFailure(taxonomy string) {
	if m == nil {
		return
	}
	m.ClassificationFailures.WithLabelValues(taxonomy).Inc()
}

// RecordKafkaMessage records a Kafka message production with duration
func (m *Metrics) RecordKafkaMessage(duration float64) {
	if m == nil {
		return
	}
	m.KafkaMessagesProduced.Inc()
	m.KafkaProduceDuration.Observe(duration)
}

// RecordKafkaError records a Kafka production error with error type
func (m *Metrics) RecordKafkaError(errorType string) {
	if m == nil {
		return
	}
	if errorType == "" {
		errorType = "unknown"
	}
	m.KafkaProduceErrors.WithLabelValues(errorType).Inc()
}
