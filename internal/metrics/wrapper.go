package metrics

import "time"

// ExperimentWrapper adapts Metrics to the narrow interface the experiment package uses,
// so that package does not import Prometheus.
type ExperimentWrapper struct {
	m *Metrics
}

func NewWrapper(m *Metrics) *ExperimentWrapper {
	return &ExperimentWrapper{m: m}
}

func (w *ExperimentWrapper) TrainedInc() {
	w.m.ExperimentsTrained.Inc()
}

func (w *ExperimentWrapper) TestedInc() {
	w.m.ExperimentsTested.Inc()
}

func (w *ExperimentWrapper) TrainDurationObserve(d time.Duration) {
	w.m.TrainDuration.Observe(d.Seconds())
}

func (w *ExperimentWrapper) PredictionObserve(latency time.Duration) {
	w.m.Predictions.Inc()
	w.m.PredictionLatency.Observe(latency.Seconds())
}

func (w *ExperimentWrapper) TestAccuracySet(accuracy float64) {
	w.m.TestAccuracy.Set(accuracy)
}

func (w *ExperimentWrapper) CapabilityWarningInc(capability string) {
	w.m.CapabilityWarnings.WithLabelValues(capability).Inc()
}

func (w *ExperimentWrapper) ConfigurationErrorInc(capability string) {
	w.m.ConfigurationErrors.WithLabelValues(capability).Inc()
}
