// Package results collects the prediction records produced by an experiment and
// renders them as summaries and report files.
package results

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Prediction is one record per test case.
type Prediction struct {
	TrueClass    float64       `json:"true_class"`
	Distribution []float64     `json:"distribution"`
	Predicted    int           `json:"predicted"`
	Latency      time.Duration `json:"latency_ns"`
	Note         string        `json:"note,omitempty"`
}

// Correct reports whether the arg-max prediction matches a known true class.
func (p Prediction) Correct() bool {
	return !math.IsNaN(p.TrueClass) && int(p.TrueClass) == p.Predicted
}

// Details identifies what produced a Results.
type Details struct {
	ClassifierName string `json:"classifier_name"`
	DatasetName    string `json:"dataset_name"`
	Seed           int64  `json:"seed"`
	RunID          string `json:"run_id"`
	Params         string `json:"params,omitempty"`
	NumClasses     int    `json:"num_classes"`
	NumInstances   int    `json:"num_instances"`
}

// Results accumulates predictions in the order they were made.
type Results struct {
	Details     Details       `json:"details"`
	Predictions []Prediction  `json:"predictions"`
	BuildTime   time.Duration `json:"build_time_ns,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// New creates an empty collector.
func New() *Results {
	return &Results{
		Predictions: make([]Prediction, 0),
		CreatedAt:   time.Now(),
	}
}

// AddPrediction appends a prediction record.
func (r *Results) AddPrediction(trueClass float64, distribution []float64, predicted int, latency time.Duration, note string) {
	r.Predictions = append(r.Predictions, Prediction{
		TrueClass:    trueClass,
		Distribution: distribution,
		Predicted:    predicted,
		Latency:      latency,
		Note:         note,
	})
}

// SetDetails attaches descriptive metadata.
func (r *Results) SetDetails(d Details) {
	r.Details = d
}

// Len returns the number of predictions.
func (r *Results) Len() int {
	return len(r.Predictions)
}

// Accuracy is the fraction of correct predictions among those with a known true class.
func (r *Results) Accuracy() float64 {
	var known, correct int
	for _, p := range r.Predictions {
		if math.IsNaN(p.TrueClass) {
			continue
		}
		known++
		if p.Correct() {
			correct++
		}
	}
	if known == 0 {
		return 0
	}
	return float64(correct) / float64(known)
}

// MeanLatency returns the average prediction latency.
func (r *Results) MeanLatency() time.Duration {
	if len(r.Predictions) == 0 {
		return 0
	}
	var total time.Duration
	for _, p := range r.Predictions {
		total += p.Latency
	}
	return total / time.Duration(len(r.Predictions))
}

// ConfusionMatrix returns counts indexed by [true][predicted]. Records with an unknown
// or out-of-range class are skipped.
func (r *Results) ConfusionMatrix() [][]int {
	n := r.Details.NumClasses
	for _, p := range r.Predictions {
		if p.Predicted+1 > n {
			n = p.Predicted + 1
		}
	}
	m := make([][]int, n)
	for i := range m {
		m[i] = make([]int, n)
	}
	for _, p := range r.Predictions {
		if math.IsNaN(p.TrueClass) || p.Predicted < 0 {
			continue
		}
		t := int(p.TrueClass)
		if t < 0 || t >= n {
			continue
		}
		m[t][p.Predicted]++
	}
	return m
}

// Summary renders a one-line summary suitable for logs.
func (r *Results) Summary() string {
	return fmt.Sprintf("%s on %s (seed %d): acc=%.4f n=%d mean_latency=%s",
		r.Details.ClassifierName, r.Details.DatasetName, r.Details.Seed,
		r.Accuracy(), r.Len(), r.MeanLatency())
}

// String renders a multi-line summary.
func (r *Results) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Classifier: %s\n", r.Details.ClassifierName)
	fmt.Fprintf(&b, "Dataset: %s\n", r.Details.DatasetName)
	fmt.Fprintf(&b, "Seed: %d\n", r.Details.Seed)
	if r.Details.Params != "" {
		fmt.Fprintf(&b, "Params: %s\n", r.Details.Params)
	}
	fmt.Fprintf(&b, "Predictions: %d\n", r.Len())
	fmt.Fprintf(&b, "Accuracy: %.4f\n", r.Accuracy())
	fmt.Fprintf(&b, "Mean latency: %s\n", r.MeanLatency())
	if r.BuildTime > 0 {
		fmt.Fprintf(&b, "Build time: %s\n", r.BuildTime)
	}
	return b.String()
}

// ArgMax returns the index of the largest value, the first one on ties. NaN entries
// are ignored; -1 is returned when there is no comparable value.
func ArgMax(values []float64) int {
	best := -1
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if best < 0 || v > values[best] {
			best = i
		}
	}
	return best
}
