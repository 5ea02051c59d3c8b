package common

import "time"

// Environment variable keys
const (
	EnvConfigFile         = "CONFIG_FILE"
	EnvClassifier         = "CLASSIFIER"
	EnvDataset            = "DATASET"
	EnvTrainPath          = "TRAIN_PATH"
	EnvTestPath           = "TEST_PATH"
	EnvSeed               = "SEED"
	EnvParams             = "PARAMS"
	EnvEstimateTrainError = "ESTIMATE_TRAIN_ERROR"
	EnvCheckpointLoadPath = "CHECKPOINT_LOAD_PATH"
	EnvCheckpointSavePath = "CHECKPOINT_SAVE_PATH"
	EnvCheckpointInterval = "CHECKPOINT_INTERVAL"
	EnvTrainTimeLimit     = "TRAIN_TIME_LIMIT"
	EnvTestTimeLimit      = "TEST_TIME_LIMIT"
	EnvMemoryLimit        = "MEMORY_LIMIT"
	EnvLogLevel           = "LOG_LEVEL"
	EnvOutputPath         = "OUTPUT_PATH"
	EnvDataPath           = "DATA_PATH"
	EnvMetricsPort        = "METRICS_PORT"
	EnvPublishURL         = "PUBLISH_URL"
	EnvPublishTimeout     = "PUBLISH_TIMEOUT"
	EnvPublishKey         = "PUBLISH_KEY"
	EnvPublishSecret      = "PUBLISH_SECRET"
	EnvDistance           = "DISTANCE"
)

// Configuration defaults
const (
	DefaultClassifier     = "prior"
	DefaultSeed           = 0
	DefaultLogLevel       = "info"
	DefaultOutputPath     = "results"
	DefaultMetricsPort    = 0 // disabled
	DefaultPublishTimeout = 5 * time.Second
	DefaultDistance       = "dtw"
)

// Validation constants
const (
	MinMetricsPort       = 1024
	MaxMetricsPort       = 65535
	MinPublishTimeout    = time.Second
	MaxPublishTimeout    = time.Minute
	MinCheckpointPeriod  = time.Second
	MaxTimeContractLimit = 30 * 24 * time.Hour
)

// Capability names used in errors, warnings and metric labels
const (
	CapabilityParams         = "params"
	CapabilityTrainEstimate  = "train_estimate"
	CapabilityCheckpoint     = "checkpoint"
	CapabilityCheckpointTick = "checkpoint_interval"
	CapabilityTrainContract  = "train_time_contract"
	CapabilityTestContract   = "test_time_contract"
	CapabilityMemoryContract = "memory_contract"
	CapabilitySeed           = "seed"
	CapabilityLogging        = "logging"
)
