package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"tsexp/internal/common"
	"tsexp/internal/params"
)

// Settings is the resolved configuration of one experiment run.
type Settings struct {
	Classifier         string
	Dataset            string
	Distance           string
	TrainPath          string
	TestPath           string
	Seed               int64
	Params             *params.Set
	EstimateTrainError bool
	CheckpointLoadPath string
	CheckpointSavePath string
	CheckpointInterval time.Duration
	TrainTimeLimit     time.Duration
	TestTimeLimit      time.Duration
	MemoryLimit        int64 // bytes, 0 for none
	LogLevel           string
	OutputPath         string
	DataPath           string // results database directory, empty disables storage
	MetricsPort        int    // 0 disables the metrics endpoint
	PublishURL         string // empty disables publishing
	PublishKey         string
	PublishSecret      string
	PublishTimeout     time.Duration
}

type ConfigFile struct {
	Experiment struct {
		Classifier         string      `yaml:"classifier"`
		Dataset            string      `yaml:"dataset"`
		Distance           string      `yaml:"distance"`
		TrainPath          string      `yaml:"trainPath"`
		TestPath           string      `yaml:"testPath"`
		Seed               int64       `yaml:"seed"`
		EstimateTrainError bool        `yaml:"estimateTrainError"`
		Params             *params.Set `yaml:"params"`
	} `yaml:"experiment"`

	Checkpoint struct {
		LoadPath string `yaml:"loadPath"`
		SavePath string `yaml:"savePath"`
		Interval string `yaml:"interval"`
	} `yaml:"checkpoint"`

	Contracts struct {
		TrainTime string `yaml:"trainTime"`
		TestTime  string `yaml:"testTime"`
		Memory    string `yaml:"memory"`
	} `yaml:"contracts"`

	System struct {
		LogLevel    string `yaml:"logLevel"`
		OutputPath  string `yaml:"outputPath"`
		DataPath    string `yaml:"dataPath"`
		MetricsPort int    `yaml:"metricsPort"`
	} `yaml:"system"`

	Publish struct {
		URL     string `yaml:"url"`
		Key     string `yaml:"key"`
		Secret  string `yaml:"secret"`
		Timeout string `yaml:"timeout"`
	} `yaml:"publish"`
}

// Load reads a .env file when present, then the YAML file named by CONFIG_FILE, or
// the environment alone when it is unset. Environment variables override file values.
func Load() (Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, fmt.Errorf("failed to load .env: %w", err)
	}

	if configPath := os.Getenv(common.EnvConfigFile); configPath != "" {
		return loadFromYAML(configPath)
	}
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	var parsed struct {
		interval, train, test, publish time.Duration
		memory                         int64
	}
	for _, d := range []struct {
		name, value string
		dst         *time.Duration
	}{
		{"checkpoint.interval", config.Checkpoint.Interval, &parsed.interval},
		{"contracts.trainTime", config.Contracts.TrainTime, &parsed.train},
		{"contracts.testTime", config.Contracts.TestTime, &parsed.test},
		{"publish.timeout", config.Publish.Timeout, &parsed.publish},
	} {
		if d.value == "" {
			continue
		}
		if *d.dst, err = time.ParseDuration(d.value); err != nil {
			return Settings{}, fmt.Errorf("invalid %s %q: %w", d.name, d.value, err)
		}
	}
	if config.Contracts.Memory != "" {
		if parsed.memory, err = ParseMemory(config.Contracts.Memory); err != nil {
			return Settings{}, fmt.Errorf("invalid contracts.memory: %w", err)
		}
	}
	if parsed.publish == 0 {
		parsed.publish = common.DefaultPublishTimeout
	}

	ps := config.Experiment.Params
	if ps == nil {
		ps = params.New()
	}

	settings := Settings{
		Classifier:         getEnvOrDefault(common.EnvClassifier, orDefault(config.Experiment.Classifier, common.DefaultClassifier)),
		Dataset:            getEnvOrDefault(common.EnvDataset, config.Experiment.Dataset),
		Distance:           getEnvOrDefault(common.EnvDistance, orDefault(config.Experiment.Distance, common.DefaultDistance)),
		TrainPath:          getEnvOrDefault(common.EnvTrainPath, config.Experiment.TrainPath),
		TestPath:           getEnvOrDefault(common.EnvTestPath, config.Experiment.TestPath),
		Seed:               getInt64OrDefault(common.EnvSeed, config.Experiment.Seed),
		Params:             ps,
		EstimateTrainError: getBoolOrDefault(common.EnvEstimateTrainError, config.Experiment.EstimateTrainError),
		CheckpointLoadPath: getEnvOrDefault(common.EnvCheckpointLoadPath, config.Checkpoint.LoadPath),
		CheckpointSavePath: getEnvOrDefault(common.EnvCheckpointSavePath, config.Checkpoint.SavePath),
		CheckpointInterval: getDurationOrDefault(common.EnvCheckpointInterval, parsed.interval),
		TrainTimeLimit:     getDurationOrDefault(common.EnvTrainTimeLimit, parsed.train),
		TestTimeLimit:      getDurationOrDefault(common.EnvTestTimeLimit, parsed.test),
		MemoryLimit:        getMemoryOrDefault(common.EnvMemoryLimit, parsed.memory),
		LogLevel:           getEnvOrDefault(common.EnvLogLevel, orDefault(config.System.LogLevel, common.DefaultLogLevel)),
		OutputPath:         getEnvOrDefault(common.EnvOutputPath, orDefault(config.System.OutputPath, common.DefaultOutputPath)),
		DataPath:           getEnvOrDefault(common.EnvDataPath, config.System.DataPath),
		MetricsPort:        getIntOrDefault(common.EnvMetricsPort, config.System.MetricsPort),
		PublishURL:         getEnvOrDefault(common.EnvPublishURL, config.Publish.URL),
		PublishKey:         getEnvOrDefault(common.EnvPublishKey, config.Publish.Key),
		PublishSecret:      getEnvOrDefault(common.EnvPublishSecret, config.Publish.Secret),
		PublishTimeout:     getDurationOrDefault(common.EnvPublishTimeout, parsed.publish),
	}

	if env := os.Getenv(common.EnvParams); env != "" {
		if settings.Params, err = params.ParseString(env); err != nil {
			return Settings{}, fmt.Errorf("invalid %s: %w", common.EnvParams, err)
		}
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		Classifier:         getEnvOrDefault(common.EnvClassifier, common.DefaultClassifier),
		Dataset:            os.Getenv(common.EnvDataset),
		Distance:           getEnvOrDefault(common.EnvDistance, common.DefaultDistance),
		TrainPath:          os.Getenv(common.EnvTrainPath),
		TestPath:           os.Getenv(common.EnvTestPath),
		Seed:               getInt64OrDefault(common.EnvSeed, common.DefaultSeed),
		Params:             params.New(),
		EstimateTrainError: getBoolOrDefault(common.EnvEstimateTrainError, false),
		CheckpointLoadPath: os.Getenv(common.EnvCheckpointLoadPath),
		CheckpointSavePath: os.Getenv(common.EnvCheckpointSavePath),
		CheckpointInterval: getDurationOrDefault(common.EnvCheckpointInterval, 0),
		TrainTimeLimit:     getDurationOrDefault(common.EnvTrainTimeLimit, 0),
		TestTimeLimit:      getDurationOrDefault(common.EnvTestTimeLimit, 0),
		MemoryLimit:        getMemoryOrDefault(common.EnvMemoryLimit, 0),
		LogLevel:           getEnvOrDefault(common.EnvLogLevel, common.DefaultLogLevel),
		OutputPath:         getEnvOrDefault(common.EnvOutputPath, common.DefaultOutputPath),
		DataPath:           os.Getenv(common.EnvDataPath), // optional
		MetricsPort:        getIntOrDefault(common.EnvMetricsPort, common.DefaultMetricsPort),
		PublishURL:         os.Getenv(common.EnvPublishURL), // optional
		PublishKey:         os.Getenv(common.EnvPublishKey),
		PublishSecret:      os.Getenv(common.EnvPublishSecret),
		PublishTimeout:     getDurationOrDefault(common.EnvPublishTimeout, common.DefaultPublishTimeout),
	}

	if env := os.Getenv(common.EnvParams); env != "" {
		p, err := params.ParseString(env)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid %s: %w", common.EnvParams, err)
		}
		settings.Params = p
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

// ParseMemory parses a memory amount such as "512MB", "2GiB" or "1048576".
// Decimal units are powers of 1000, IEC units powers of 1024.
func ParseMemory(s string) (int64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	if n > uint64(1<<63-1) {
		return 0, fmt.Errorf("memory amount %q overflows", s)
	}
	return int64(n), nil
}

// Level returns the parsed log level.
func (s *Settings) Level() (zerolog.Level, error) {
	return zerolog.ParseLevel(s.LogLevel)
}

// RequireData checks that both dataset paths are set.
func (s *Settings) RequireData() error {
	if s.TrainPath == "" || s.TestPath == "" {
		return fmt.Errorf("train and test paths are required")
	}
	return nil
}

// Validate performs range validation of configuration values
func (s *Settings) Validate() error {
	if s.Classifier == "" {
		return fmt.Errorf("classifier cannot be empty")
	}
	if s.Seed < 0 {
		return fmt.Errorf("seed must be non-negative, got %d", s.Seed)
	}

	if _, err := s.Level(); err != nil {
		return fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}

	// Contracts
	if s.TrainTimeLimit < 0 || s.TrainTimeLimit > common.MaxTimeContractLimit {
		return fmt.Errorf("train time limit must be between 0 and %v, got %v", common.MaxTimeContractLimit, s.TrainTimeLimit)
	}
	if s.TestTimeLimit < 0 || s.TestTimeLimit > common.MaxTimeContractLimit {
		return fmt.Errorf("test time limit must be between 0 and %v, got %v", common.MaxTimeContractLimit, s.TestTimeLimit)
	}
	if s.MemoryLimit < 0 {
		return fmt.Errorf("memory limit must be non-negative, got %d", s.MemoryLimit)
	}
	if s.CheckpointInterval != 0 && s.CheckpointInterval < common.MinCheckpointPeriod {
		return fmt.Errorf("checkpoint interval must be at least %v, got %v", common.MinCheckpointPeriod, s.CheckpointInterval)
	}

	// System
	if s.MetricsPort != 0 && (s.MetricsPort < common.MinMetricsPort || s.MetricsPort > common.MaxMetricsPort) {
		return fmt.Errorf("metrics port must be between %d and %d, got %d", common.MinMetricsPort, common.MaxMetricsPort, s.MetricsPort)
	}
	if s.PublishURL != "" {
		if s.PublishTimeout < common.MinPublishTimeout || s.PublishTimeout > common.MaxPublishTimeout {
			return fmt.Errorf("publish timeout must be between %v and %v, got %v", common.MinPublishTimeout, common.MaxPublishTimeout, s.PublishTimeout)
		}
		if s.PublishKey != "" && s.PublishSecret == "" {
			return fmt.Errorf("publish secret is required when a publish key is set")
		}
	}
	return nil
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getMemoryOrDefault(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if m, err := ParseMemory(v); err == nil {
			return m
		}
	}
	return defaultValue
}
