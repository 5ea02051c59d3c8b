// Package experiment runs one classifier through a train/test cycle over a pair of
// datasets, negotiating optional capabilities with the classifier before each phase.
package experiment

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tsexp/internal/common"
	"tsexp/internal/dataset"
	"tsexp/internal/ml"
	"tsexp/internal/params"
	"tsexp/internal/results"
)

// MetricsInterface defines metrics methods needed by the experiment
type MetricsInterface interface {
	TrainedInc()
	TestedInc()
	TrainDurationObserve(time.Duration)
	PredictionObserve(time.Duration)
	TestAccuracySet(float64)
	CapabilityWarningInc(capability string)
	ConfigurationErrorInc(capability string)
}

// Experiment owns copies of the data it is given and is not safe for concurrent use.
type Experiment struct {
	trainData *dataset.Dataset
	testData  *dataset.Dataset

	classifier     ml.Classifier
	caps           ml.Capabilities
	classifierName string
	datasetName    string

	seed               int64
	params             *params.Set
	estimateTrainError bool
	checkpointLoadPath string
	checkpointSavePath string
	checkpointInterval time.Duration
	trainTimeLimit     time.Duration
	testTimeLimit      time.Duration
	memoryLimit        int64

	state        State
	runID        string
	trainResults *results.Results
	testResults  *results.Results

	logger  zerolog.Logger
	metrics MetricsInterface
}

// Option configures an Experiment at construction.
type Option func(*Experiment)

// WithLogger replaces the default logger. Its level is the level propagated to
// loggable classifiers.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

func WithMetrics(m MetricsInterface) Option {
	return func(e *Experiment) { e.metrics = m }
}

func WithParams(p *params.Set) Option {
	return func(e *Experiment) { e.SetParams(p) }
}

// New creates an experiment in the Created state. The datasets are copied.
func New(train, test *dataset.Dataset, clf ml.Classifier, seed int64, classifierName, datasetName string, opts ...Option) *Experiment {
	e := &Experiment{
		seed:           seed,
		classifierName: classifierName,
		datasetName:    datasetName,
		params:         params.New(),
		runID:          uuid.NewString(),
		logger:         log.With().Str("component", "experiment").Logger(),
	}
	e.SetTrainData(train)
	e.SetTestData(test)
	for _, opt := range opts {
		opt(e)
	}
	e.SetClassifier(clf)
	return e
}

// Train pushes the requested configuration into the classifier and trains it on a
// copy of the training data. The attempt moves the experiment to Trained even when it
// fails; ResetTrain is required before another attempt.
func (e *Experiment) Train() error {
	if e.state != Created {
		return &common.LifecycleError{Op: "train", State: e.state.String(), Msg: "already trained"}
	}
	if e.classifier == nil {
		return common.NewConfigurationError(e.classifierName, "no classifier attached")
	}
	if e.trainData == nil {
		return fmt.Errorf("train: no training data")
	}
	e.state = Trained

	data := e.trainData.Copy()

	if err := e.configureTrain(); err != nil {
		return err
	}

	e.logger.Info().
		Str("classifier", e.classifierName).
		Str("dataset", e.datasetName).
		Int("instances", data.Len()).
		Strs("capabilities", e.caps.Names()).
		Msg("Training classifier")

	start := time.Now()
	if err := e.classifier.Train(data); err != nil {
		return err
	}
	elapsed := time.Since(start)

	if e.metrics != nil {
		e.metrics.TrainedInc()
		e.metrics.TrainDurationObserve(elapsed)
	}

	if !e.estimateTrainError {
		e.logger.Info().Dur("elapsed", elapsed).Msg("Training complete")
		return nil
	}

	res := e.caps.TrainEstimate.TrainResults()
	if res == nil {
		e.logger.Warn().Msg("Classifier produced no train estimate")
		return nil
	}
	res.BuildTime = elapsed
	res.SetDetails(e.details(data))
	e.trainResults = res
	e.logger.Info().Dur("elapsed", elapsed).Msg(res.Summary())
	return nil
}

func (e *Experiment) configureTrain() error {
	if !e.params.IsEmpty() {
		if !e.caps.Settable() {
			return e.unsupported(common.CapabilityParams, "params not settable", nil)
		}
		if err := params.SetParams(e.classifier, e.params.Clone()); err != nil {
			var cfgErr *common.ConfigurationError
			if errors.As(err, &cfgErr) {
				cfgErr.Component = e.classifierName
			}
			e.countConfigurationError(common.CapabilityParams)
			return err
		}
	}

	if e.estimateTrainError {
		if e.caps.TrainEstimate == nil {
			return e.unsupported(common.CapabilityTrainEstimate, "train estimate not supported", nil)
		}
		e.caps.TrainEstimate.SetEstimateOwnPerformance(true)
	}

	if e.checkpointLoadPath != "" {
		if e.caps.Checkpoint == nil {
			return e.unsupported(common.CapabilityCheckpoint, "checkpoint loading not supported", nil)
		}
		if err := e.caps.Checkpoint.SetLoadPath(e.checkpointLoadPath); err != nil {
			return e.unsupported(common.CapabilityCheckpoint, "cannot set checkpoint load path", err)
		}
	}

	if e.checkpointSavePath != "" {
		if e.caps.Checkpoint == nil {
			return e.unsupported(common.CapabilityCheckpoint, "checkpoint saving not supported", nil)
		}
		if err := e.caps.Checkpoint.SetSavePath(e.checkpointSavePath); err != nil {
			return e.unsupported(common.CapabilityCheckpoint, "cannot set checkpoint save path", err)
		}
	}

	if e.checkpointInterval > 0 {
		if e.caps.CheckpointInterval != nil {
			e.caps.CheckpointInterval.SetCheckpointInterval(e.checkpointInterval)
		} else {
			e.warn(common.CapabilityCheckpointTick, "Classifier does not support checkpoint intervals, using its default")
		}
	}

	if e.trainTimeLimit > 0 {
		if e.caps.TrainContract == nil {
			return e.unsupported(common.CapabilityTrainContract, "train time contract not supported", nil)
		}
		e.caps.TrainContract.SetTrainTimeLimit(e.trainTimeLimit)
	}

	if e.caps.Seed != nil {
		e.caps.Seed.SetSeed(e.seed)
	} else {
		e.warn(common.CapabilitySeed, "Classifier is not randomizable, continuing unseeded")
	}

	if e.caps.Logging != nil {
		e.caps.Logging.SetLogLevel(e.logger.GetLevel())
	} else {
		e.warn(common.CapabilityLogging, "Classifier does not accept a log level, using its default")
	}
	return nil
}

// Test predicts every test instance with its class hidden from the classifier and
// records one prediction per instance in dataset order.
func (e *Experiment) Test() error {
	switch e.state {
	case Created:
		return &common.LifecycleError{Op: "test", State: e.state.String(), Msg: "not trained"}
	case Tested:
		return &common.LifecycleError{Op: "test", State: e.state.String(), Msg: "already tested"}
	}
	if e.classifier == nil {
		return common.NewConfigurationError(e.classifierName, "no classifier attached")
	}
	if e.testData == nil {
		return fmt.Errorf("test: no test data")
	}
	e.state = Tested

	if e.testTimeLimit > 0 {
		if e.caps.TestContract == nil {
			return e.unsupported(common.CapabilityTestContract, "test time contract not supported", nil)
		}
		e.caps.TestContract.SetTestTimeLimit(e.testTimeLimit)
	}

	data := e.testData.Copy()
	hidden := data.Copy()
	hidden.SetClassMissing()

	e.logger.Info().
		Str("classifier", e.classifierName).
		Str("dataset", e.datasetName).
		Int("instances", data.Len()).
		Msg("Testing classifier")

	res := results.New()
	testStart := time.Now()
	for i, in := range hidden.Instances {
		start := time.Now()
		dist, err := e.classifier.Distribution(in)
		if err != nil {
			return err
		}
		latency := time.Since(start)
		res.AddPrediction(data.Instances[i].Class, dist, results.ArgMax(dist), latency, "")
		if e.metrics != nil {
			e.metrics.PredictionObserve(latency)
		}
	}
	res.BuildTime = time.Since(testStart)
	res.SetDetails(e.details(data))
	e.testResults = res

	if e.metrics != nil {
		e.metrics.TestedInc()
		e.metrics.TestAccuracySet(res.Accuracy())
	}
	e.logger.Info().Msg(res.Summary())
	return nil
}

// ResetTrain returns to Created and discards both train and test results.
func (e *Experiment) ResetTrain() {
	e.state = Created
	e.trainResults = nil
	e.testResults = nil
}

// ResetTest discards test results. A trained experiment may then be tested again.
func (e *Experiment) ResetTest() {
	if e.state == Tested {
		e.state = Trained
	}
	e.testResults = nil
}

func (e *Experiment) details(data *dataset.Dataset) results.Details {
	return results.Details{
		ClassifierName: e.classifierName,
		DatasetName:    e.datasetName,
		Seed:           e.seed,
		RunID:          e.runID,
		Params:         e.params.String(),
		NumClasses:     data.NumClasses(),
		NumInstances:   data.Len(),
	}
}

func (e *Experiment) unsupported(capability, feature string, cause error) error {
	e.countConfigurationError(capability)
	return &common.ConfigurationError{Component: e.classifierName, Feature: feature, Err: cause}
}

func (e *Experiment) countConfigurationError(capability string) {
	if e.metrics != nil {
		e.metrics.ConfigurationErrorInc(capability)
	}
}

func (e *Experiment) warn(capability, msg string) {
	e.logger.Warn().Str("classifier", e.classifierName).Str("capability", capability).Msg(msg)
	if e.metrics != nil {
		e.metrics.CapabilityWarningInc(capability)
	}
}
