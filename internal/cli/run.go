package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tsexp/internal/cfg"
	"tsexp/internal/dataset"
	"tsexp/internal/experiment"
	"tsexp/internal/metrics"
	"tsexp/internal/params"
	"tsexp/internal/publish"
	"tsexp/internal/results"
	"tsexp/internal/storage"
)

// RunOptions holds flags for the run command. Set flags override configuration.
type RunOptions struct {
	*RootOptions
	Classifier         string
	Dataset            string
	TrainPath          string
	TestPath           string
	Seed               int64
	Params             string
	EstimateTrainError bool
	CheckpointLoad     string
	CheckpointSave     string
	CheckpointInterval time.Duration
	TrainTime          time.Duration
	TestTime           time.Duration
	Memory             string
	OutputPath         string
	DataPath           string
	MetricsPort        int
	PublishURL         string
	NoReport           bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Train and test a classifier on a dataset split",
		Long: `Run one experiment: train the classifier on the train file, then predict every
instance of the test file with its label hidden.

Datasets are CSV files with one instance per row: label,v1,v2,...`,
		Example: `  tsexp run --train GunPoint_TRAIN.csv --test GunPoint_TEST.csv --seed 3
  tsexp run -c experiment.yaml --params "--alpha 0.5" --estimate-train-error`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := cfg.Load()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, &settings); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runExperiment(ctx, settings, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Classifier, "classifier", "", fmt.Sprintf("classifier name %v", classifierNames()))
	f.StringVar(&opts.Dataset, "dataset", "", "dataset name (default: train file name)")
	f.StringVar(&opts.TrainPath, "train", "", "train CSV file")
	f.StringVar(&opts.TestPath, "test", "", "test CSV file")
	f.Int64Var(&opts.Seed, "seed", 0, "random seed")
	f.StringVar(&opts.Params, "params", "", `classifier parameters as option tokens, e.g. "--alpha 2"`)
	f.BoolVar(&opts.EstimateTrainError, "estimate-train-error", false, "ask the classifier to estimate its own train error")
	f.StringVar(&opts.CheckpointLoad, "checkpoint-load", "", "checkpoint to resume training from")
	f.StringVar(&opts.CheckpointSave, "checkpoint-save", "", "checkpoint to write while training")
	f.DurationVar(&opts.CheckpointInterval, "checkpoint-interval", 0, "interval between checkpoints")
	f.DurationVar(&opts.TrainTime, "train-time", 0, "train time contract (0 for none)")
	f.DurationVar(&opts.TestTime, "test-time", 0, "test time contract (0 for none)")
	f.StringVar(&opts.Memory, "memory", "", `memory contract, e.g. "2GiB" (recorded, not enforced)`)
	f.StringVarP(&opts.OutputPath, "output", "o", "", "directory for report files")
	f.StringVar(&opts.DataPath, "data-path", "", "results database directory")
	f.IntVar(&opts.MetricsPort, "metrics-port", 0, "serve Prometheus metrics on this port")
	f.StringVar(&opts.PublishURL, "publish-url", "", "collector base URL for results")
	f.BoolVar(&opts.NoReport, "no-report", false, "skip writing report files")

	return cmd
}

// apply copies explicitly set flags over the loaded settings.
func (o *RunOptions) apply(cmd *cobra.Command, s *cfg.Settings) error {
	f := cmd.Flags()
	set := func(name string, fn func()) {
		if f.Changed(name) {
			fn()
		}
	}
	set("classifier", func() { s.Classifier = o.Classifier })
	set("dataset", func() { s.Dataset = o.Dataset })
	set("train", func() { s.TrainPath = o.TrainPath })
	set("test", func() { s.TestPath = o.TestPath })
	set("seed", func() { s.Seed = o.Seed })
	set("estimate-train-error", func() { s.EstimateTrainError = o.EstimateTrainError })
	set("checkpoint-load", func() { s.CheckpointLoadPath = o.CheckpointLoad })
	set("checkpoint-save", func() { s.CheckpointSavePath = o.CheckpointSave })
	set("checkpoint-interval", func() { s.CheckpointInterval = o.CheckpointInterval })
	set("train-time", func() { s.TrainTimeLimit = o.TrainTime })
	set("test-time", func() { s.TestTimeLimit = o.TestTime })
	set("output", func() { s.OutputPath = o.OutputPath })
	set("data-path", func() { s.DataPath = o.DataPath })
	set("metrics-port", func() { s.MetricsPort = o.MetricsPort })
	set("publish-url", func() { s.PublishURL = o.PublishURL })
	if o.RootOptions != nil && o.LogLevel != "" {
		s.LogLevel = o.LogLevel
	}

	if f.Changed("params") {
		p, err := params.ParseString(o.Params)
		if err != nil {
			return fmt.Errorf("invalid --params: %w", err)
		}
		s.Params = p
	}
	if f.Changed("memory") {
		m, err := cfg.ParseMemory(o.Memory)
		if err != nil {
			return fmt.Errorf("invalid --memory: %w", err)
		}
		s.MemoryLimit = m
	}
	if o.NoReport {
		s.OutputPath = ""
	}

	if err := s.Validate(); err != nil {
		return err
	}
	return s.RequireData()
}

// runExperiment runs one configured experiment and writes the test summary to out.
func runExperiment(ctx context.Context, s cfg.Settings, out io.Writer) error {
	level, err := s.Level()
	if err != nil {
		return err
	}

	clf, err := newClassifier(s.Classifier)
	if err != nil {
		return err
	}

	train, test, err := dataset.LoadSplit(s.TrainPath, s.TestPath)
	if err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}
	datasetName := s.Dataset
	if datasetName == "" {
		datasetName = train.Name
	}

	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(registry)
	if s.MetricsPort > 0 {
		srv := startMetricsServer(s.MetricsPort, registry)
		defer shutdownMetricsServer(srv)
	}

	exp := experiment.New(train, test, clf, s.Seed, s.Classifier, datasetName,
		experiment.WithLogger(log.Logger.Level(level).With().Str("component", "experiment").Logger()),
		experiment.WithMetrics(metrics.NewWrapper(m)),
		experiment.WithParams(s.Params),
	)
	exp.SetEstimateTrainError(s.EstimateTrainError)
	exp.SetCheckpointLoadPath(s.CheckpointLoadPath)
	exp.SetCheckpointSavePath(s.CheckpointSavePath)
	exp.SetCheckpointInterval(s.CheckpointInterval)
	exp.SetTrainTimeLimit(s.TrainTimeLimit)
	exp.SetTestTimeLimit(s.TestTimeLimit)
	if s.MemoryLimit > 0 {
		log.Debug().Str("memory", humanize.IBytes(uint64(s.MemoryLimit))).Msg("Memory contract requested")
		exp.SetMemoryLimit(s.MemoryLimit)
	}

	if err := exp.Train(); err != nil {
		return fmt.Errorf("train: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := exp.Test(); err != nil {
		return fmt.Errorf("test: %w", err)
	}

	sink, err := newResultSink(s)
	if err != nil {
		return err
	}
	defer sink.Close()

	prefix := storage.Key(s.Classifier, datasetName, s.Seed)
	if tr := exp.TrainResults(); tr != nil {
		sink.handle(ctx, storage.PhaseTrain, prefix, tr)
	}
	sink.handle(ctx, storage.PhaseTest, prefix, exp.TestResults())

	fmt.Fprint(out, exp.TestResults().String())
	return nil
}

// resultSink fans results out to reports, the results store and the collector.
// Failures are logged; the experiment itself already succeeded.
type resultSink struct {
	outputPath string
	store      *storage.Store
	publisher  *publish.Client
}

func newResultSink(s cfg.Settings) (*resultSink, error) {
	sink := &resultSink{outputPath: s.OutputPath}
	if s.DataPath != "" {
		if err := os.MkdirAll(s.DataPath, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data path: %w", err)
		}
		store, err := storage.New(s.DataPath)
		if err != nil {
			log.Warn().Err(err).Msg("storage initialization failed, continuing without persistence")
		} else {
			sink.store = store
		}
	}
	if s.PublishURL != "" {
		sink.publisher = publish.New(s.PublishKey, s.PublishSecret, s.PublishURL, s.PublishTimeout)
	}
	return sink, nil
}

func (k *resultSink) handle(ctx context.Context, phase storage.Phase, prefix string, r *results.Results) {
	if k.outputPath != "" {
		reporter := results.NewReporter(r, k.outputPath, prefix+"_"+string(phase))
		if err := reporter.GenerateReport(); err != nil {
			log.Error().Err(err).Msg("Failed to generate reports")
		}
	}
	if k.store != nil {
		if err := k.store.Save(phase, r); err != nil {
			log.Error().Err(err).Str("phase", string(phase)).Msg("Failed to store results")
		}
	}
	if k.publisher != nil {
		if err := k.publisher.Publish(ctx, string(phase), r); err != nil {
			log.Error().Err(err).Str("phase", string(phase)).Msg("Failed to publish results")
		}
	}
}

func (k *resultSink) Close() error {
	if k.store != nil {
		return k.store.Close()
	}
	return nil
}

// startMetricsServer serves the registry on /metrics and a /health probe.
func startMetricsServer(port int, registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
	log.Info().Int("port", port).Msg("Metrics server started")
	return server
}

func shutdownMetricsServer(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown metrics server")
	}
}
