package experiment

import (
	"time"

	"github.com/rs/zerolog"

	"tsexp/internal/common"
	"tsexp/internal/dataset"
	"tsexp/internal/ml"
	"tsexp/internal/params"
	"tsexp/internal/results"
)

func (e *Experiment) State() State { return e.state }

func (e *Experiment) IsTrained() bool { return e.state != Created }

func (e *Experiment) IsTested() bool { return e.state == Tested }

func (e *Experiment) RunID() string { return e.runID }

func (e *Experiment) TrainResults() *results.Results { return e.trainResults }

func (e *Experiment) TestResults() *results.Results { return e.testResults }

func (e *Experiment) TrainData() *dataset.Dataset { return e.trainData }

func (e *Experiment) TestData() *dataset.Dataset { return e.testData }

// SetTrainData stores a copy of d.
func (e *Experiment) SetTrainData(d *dataset.Dataset) {
	if d == nil {
		e.trainData = nil
		return
	}
	e.trainData = d.Copy()
}

// SetTestData stores a copy of d.
func (e *Experiment) SetTestData(d *dataset.Dataset) {
	if d == nil {
		e.testData = nil
		return
	}
	e.testData = d.Copy()
}

func (e *Experiment) Classifier() ml.Classifier { return e.classifier }

// Capabilities returns the capabilities resolved when the classifier was attached.
func (e *Experiment) Capabilities() ml.Capabilities { return e.caps }

// SetClassifier attaches c and resolves its capabilities once.
func (e *Experiment) SetClassifier(c ml.Classifier) {
	e.classifier = c
	e.caps = ml.Probe(c)
	if c != nil {
		e.logger.Debug().
			Str("classifier", e.classifierName).
			Strs("capabilities", e.caps.Names()).
			Msg("Classifier attached")
	}
}

func (e *Experiment) ClassifierName() string { return e.classifierName }

func (e *Experiment) SetClassifierName(name string) { e.classifierName = name }

func (e *Experiment) DatasetName() string { return e.datasetName }

func (e *Experiment) SetDatasetName(name string) { e.datasetName = name }

func (e *Experiment) Seed() int64 { return e.seed }

// SetSeed records the seed and reseeds an attached randomizable classifier at once.
func (e *Experiment) SetSeed(seed int64) {
	e.seed = seed
	if e.caps.Seed != nil {
		e.caps.Seed.SetSeed(seed)
	}
}

// Params returns the parameter set pushed at train time.
func (e *Experiment) Params() *params.Set { return e.params }

// SetParams replaces the parameter set; nil clears it.
func (e *Experiment) SetParams(p *params.Set) {
	if p == nil {
		p = params.New()
	}
	e.params = p
}

func (e *Experiment) EstimateTrainError() bool { return e.estimateTrainError }

func (e *Experiment) SetEstimateTrainError(estimate bool) { e.estimateTrainError = estimate }

func (e *Experiment) CheckpointLoadPath() string { return e.checkpointLoadPath }

func (e *Experiment) SetCheckpointLoadPath(path string) { e.checkpointLoadPath = path }

func (e *Experiment) CheckpointSavePath() string { return e.checkpointSavePath }

func (e *Experiment) SetCheckpointSavePath(path string) { e.checkpointSavePath = path }

// SetCheckpointPath sets both the load and save path.
func (e *Experiment) SetCheckpointPath(path string) {
	e.checkpointLoadPath = path
	e.checkpointSavePath = path
}

func (e *Experiment) CheckpointInterval() time.Duration { return e.checkpointInterval }

func (e *Experiment) SetCheckpointInterval(d time.Duration) { e.checkpointInterval = d }

func (e *Experiment) TrainTimeLimit() time.Duration { return e.trainTimeLimit }

// SetTrainTimeLimit sets the training budget. Zero means no limit.
func (e *Experiment) SetTrainTimeLimit(d time.Duration) { e.trainTimeLimit = d }

func (e *Experiment) TestTimeLimit() time.Duration { return e.testTimeLimit }

// SetTestTimeLimit sets the testing budget. Zero means no limit.
func (e *Experiment) SetTestTimeLimit(d time.Duration) { e.testTimeLimit = d }

func (e *Experiment) MemoryLimit() int64 { return e.memoryLimit }

// SetMemoryLimit records a memory budget in bytes. It is not enforced.
func (e *Experiment) SetMemoryLimit(bytes int64) {
	e.memoryLimit = bytes
	if bytes > 0 {
		e.logger.Warn().Int64("bytes", bytes).Msg("memory limiting not yet implemented")
		if e.metrics != nil {
			e.metrics.CapabilityWarningInc(common.CapabilityMemoryContract)
		}
	}
}

func (e *Experiment) LogLevel() zerolog.Level { return e.logger.GetLevel() }

// SetLogLevel changes the experiment's level, which is also pushed to loggable
// classifiers at train time.
func (e *Experiment) SetLogLevel(level zerolog.Level) {
	e.logger = e.logger.Level(level)
}

func (e *Experiment) SetMetrics(m MetricsInterface) { e.metrics = m }
