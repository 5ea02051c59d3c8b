// Package ml defines the contract between the experiment harness and the classifiers it
// runs, the optional capabilities a classifier may implement, and the probe that
// resolves those capabilities once per attached classifier.
//
// Only Classifier is mandatory. Everything else (seeding, structured parameters,
// checkpointing, time and memory contracts, train-error self-estimation and log level
// propagation) is discovered by interface checks in Probe.
package ml

import (
	"time"

	"github.com/rs/zerolog"

	"tsexp/internal/dataset"
	"tsexp/internal/results"
)

// Classifier is the component under test.
type Classifier interface {
	// Train builds the classifier from labeled data. The harness passes a private copy.
	Train(data *dataset.Dataset) error

	// Distribution returns class probabilities for one instance. The instance label
	// is always stripped.
	Distribution(instance dataset.Instance) ([]float64, error)
}

// Randomizable classifiers accept a seed.
type Randomizable interface {
	SetSeed(seed int64)
	Seed() int64
}

// Loggable classifiers accept the harness log level.
type Loggable interface {
	SetLogLevel(level zerolog.Level)
	LogLevel() zerolog.Level
}

// TrainEstimateable classifiers can estimate their own training-set performance.
type TrainEstimateable interface {
	SetEstimateOwnPerformance(estimate bool)
	EstimateOwnPerformance() bool
	// TrainResults returns the self-estimate produced by the last Train call.
	TrainResults() *results.Results
}

// Checkpointable classifiers can resume from and persist intermediate training state.
type Checkpointable interface {
	SetLoadPath(path string) error
	SetSavePath(path string) error
}

// CheckpointIntervalSetter classifiers accept a minimum period between checkpoints.
type CheckpointIntervalSetter interface {
	SetCheckpointInterval(interval time.Duration)
}

// TrainTimeContractable classifiers accept an elapsed-time budget for Train.
type TrainTimeContractable interface {
	SetTrainTimeLimit(limit time.Duration)
}

// TestTimeContractable classifiers accept an elapsed-time budget per Distribution call.
type TestTimeContractable interface {
	SetTestTimeLimit(limit time.Duration)
}

// MemoryContractable classifiers accept a memory budget in bytes.
type MemoryContractable interface {
	SetMemoryLimit(bytes int64)
}
