package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newTestMetrics() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

func TestNewWrapper(t *testing.T) {
	m := newTestMetrics()
	wrapper := NewWrapper(m)
	if wrapper == nil {
		t.Fatal("NewWrapper returned nil")
	}
	if wrapper.m != m {
		t.Error("Wrapper does not contain the correct metrics instance")
	}
}

func TestExperimentWrapper_LifecycleCounters(t *testing.T) {
	m := newTestMetrics()
	w := NewWrapper(m)

	w.TrainedInc()
	w.TrainedInc()
	w.TestedInc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ExperimentsTrained))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExperimentsTested))
}

func TestExperimentWrapper_Predictions(t *testing.T) {
	m := newTestMetrics()
	w := NewWrapper(m)

	latencies := []time.Duration{time.Microsecond, time.Millisecond, 10 * time.Millisecond}
	for _, l := range latencies {
		w.PredictionObserve(l)
	}

	assert.Equal(t, float64(len(latencies)), testutil.ToFloat64(m.Predictions))
	assert.Equal(t, 1, testutil.CollectAndCount(m.PredictionLatency))

	w.TestAccuracySet(0.875)
	assert.Equal(t, 0.875, testutil.ToFloat64(m.TestAccuracy))
}

func TestExperimentWrapper_CapabilityCounters(t *testing.T) {
	m := newTestMetrics()
	w := NewWrapper(m)

	w.CapabilityWarningInc("checkpoint_interval")
	w.CapabilityWarningInc("checkpoint_interval")
	w.CapabilityWarningInc("memory_contract")
	w.ConfigurationErrorInc("seed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CapabilityWarnings.WithLabelValues("checkpoint_interval")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CapabilityWarnings.WithLabelValues("memory_contract")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConfigurationErrors.WithLabelValues("seed")))
}

func TestNewWithRegistry_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewWithRegistry(reg)
	assert.Panics(t, func() { NewWithRegistry(reg) })
}
