// Package metrics provides Prometheus metrics collection for the experiment harness.
// It defines the counters and histograms exposed via the metrics endpoint: how many
// experiments were trained and tested, prediction counts and latency, training
// duration, and how often capability negotiation degraded or failed.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the harness.
type Metrics struct {
	// Lifecycle metrics
	ExperimentsTrained prometheus.Counter   // Completed train() calls
	ExperimentsTested  prometheus.Counter   // Completed test() calls
	TrainDuration      prometheus.Histogram // Wall time of the classifier's Train call

	// Prediction metrics
	Predictions       prometheus.Counter   // Total test-set predictions
	PredictionLatency prometheus.Histogram // Per-prediction latency in seconds
	TestAccuracy      prometheus.Gauge     // Accuracy of the most recent test run

	// Capability negotiation metrics
	CapabilityWarnings  *prometheus.CounterVec // Optional capability missing, run continued
	ConfigurationErrors *prometheus.CounterVec // Required capability missing, run aborted
}

// New creates and registers all metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry (useful for testing).
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		ExperimentsTrained: factory.NewCounter(prometheus.CounterOpts{
			Name: "experiments_trained_total",
			Help: "Total number of experiments trained",
		}),
		ExperimentsTested: factory.NewCounter(prometheus.CounterOpts{
			Name: "experiments_tested_total",
			Help: "Total number of experiments tested",
		}),
		TrainDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "train_duration_seconds",
			Help:    "Duration of classifier training in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 12),
		}),
		Predictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of test-set predictions made",
		}),
		PredictionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_latency_seconds",
			Help:    "Prediction latency in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
		TestAccuracy: factory.NewGauge(prometheus.GaugeOpts{
			Name: "test_accuracy",
			Help: "Accuracy of the most recent test run",
		}),
		CapabilityWarnings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "capability_warnings_total",
			Help: "Optional capabilities missing from a classifier",
		}, []string{"capability"}),
		ConfigurationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "configuration_errors_total",
			Help: "Requested features a classifier could not serve",
		}, []string{"capability"}),
	}
}
