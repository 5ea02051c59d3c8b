package experiment

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"tsexp/internal/dataset"
	"tsexp/internal/params"
)

// plainClassifier implements only the mandatory methods. It records what it saw.
type plainClassifier struct {
	trainedOn *dataset.Dataset
	seen      []dataset.Instance
	trainErr  error
	testErr   error
}

func (c *plainClassifier) Train(d *dataset.Dataset) error {
	c.trainedOn = d
	return c.trainErr
}

func (c *plainClassifier) Distribution(in dataset.Instance) ([]float64, error) {
	c.seen = append(c.seen, in)
	if c.testErr != nil {
		return nil, c.testErr
	}
	sum := 0.0
	for _, v := range in.Values {
		sum += v
	}
	if sum > 0 {
		return []float64{0.25, 0.75}, nil
	}
	return []float64{0.75, 0.25}, nil
}

// seededClassifier adds seeding and structured parameters.
type seededClassifier struct {
	plainClassifier
	seed      int64
	threshold float64
}

func (c *seededClassifier) SetSeed(seed int64) { c.seed = seed }
func (c *seededClassifier) Seed() int64        { return c.seed }

func (c *seededClassifier) Params() *params.Set {
	return params.New().Put("threshold", c.threshold)
}

func (c *seededClassifier) SetParams(set *params.Set) error {
	return params.SetParam(set, "threshold", func(v float64) { c.threshold = v })
}

func (c *seededClassifier) Distribution(in dataset.Instance) ([]float64, error) {
	c.seen = append(c.seen, in)
	sum := 0.0
	for _, v := range in.Values {
		sum += v
	}
	if sum > c.threshold {
		return []float64{0.1, 0.9}, nil
	}
	return []float64{0.9, 0.1}, nil
}

// recordingMetrics implements MetricsInterface for testing
type recordingMetrics struct {
	trained, tested int
	predictions     int
	trainDurations  []time.Duration
	accuracy        float64
	warnings        map[string]int
	configErrors    map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{warnings: map[string]int{}, configErrors: map[string]int{}}
}

func (m *recordingMetrics) TrainedInc()                     { m.trained++ }
func (m *recordingMetrics) TestedInc()                      { m.tested++ }
func (m *recordingMetrics) PredictionObserve(time.Duration) { m.predictions++ }
func (m *recordingMetrics) TestAccuracySet(a float64)       { m.accuracy = a }

func (m *recordingMetrics) TrainDurationObserve(d time.Duration) {
	m.trainDurations = append(m.trainDurations, d)
}

func (m *recordingMetrics) CapabilityWarningInc(capability string) {
	m.warnings[capability]++
}

func (m *recordingMetrics) ConfigurationErrorInc(capability string) {
	m.configErrors[capability]++
}

var errBoom = errors.New("boom")

// makeData builds n two-class instances; odd indices are positive class 1.
func makeData(t *testing.T, name string, n int) *dataset.Dataset {
	t.Helper()
	d := dataset.New(name, "neg", "pos")
	for i := 0; i < n; i++ {
		class := i % 2
		v := -1.0
		if class == 1 {
			v = 1.0
		}
		require.NoError(t, d.Add([]float64{v, v * 2, math.Abs(v)}, class))
	}
	return d
}

func quietLogger() zerolog.Logger {
	return zerolog.Nop()
}
