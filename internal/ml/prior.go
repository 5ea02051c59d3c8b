package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tsexp/internal/dataset"
	"tsexp/internal/params"
	"tsexp/internal/results"
)

// Prior predicts the smoothed class frequencies of the training data for every
// instance, optionally perturbed by seeded jitter. It is the baseline the CLI runs by
// default and it implements every optional capability.
type Prior struct {
	alpha  float64
	jitter float64

	seed int64
	rng  *rand.Rand

	estimate       bool
	trainResults   *results.Results
	trainTimeLimit time.Duration
	testTimeLimit  time.Duration
	memoryLimit    int64
	loadPath       string
	savePath       string
	interval       time.Duration

	logger zerolog.Logger
	counts []int
	total  int
}

type priorCheckpoint struct {
	Alpha  float64 `json:"alpha"`
	Counts []int   `json:"counts"`
}

// NewPrior returns a Prior with Laplace smoothing of 1 and no jitter.
func NewPrior() *Prior {
	return &Prior{
		alpha:  1,
		rng:    rand.New(rand.NewSource(0)),
		logger: log.With().Str("component", "prior").Logger(),
	}
}

// Train counts class frequencies, resuming from a checkpoint when one is configured
// and present.
func (p *Prior) Train(data *dataset.Dataset) error {
	start := time.Now()
	resumed, err := p.loadCheckpoint(data.NumClasses())
	if err != nil {
		return err
	}
	if !resumed {
		p.counts = data.ClassCounts()
	}
	p.total = 0
	for _, c := range p.counts {
		p.total += c
	}

	if p.estimate {
		p.trainResults = p.estimateOwnPerformance(data)
	}
	if err := p.saveCheckpoint(); err != nil {
		return err
	}

	elapsed := time.Since(start)
	if p.trainTimeLimit > 0 && elapsed > p.trainTimeLimit {
		p.logger.Warn().Dur("elapsed", elapsed).Dur("limit", p.trainTimeLimit).Msg("Train time contract exceeded")
	}
	p.logger.Debug().Ints("counts", p.counts).Bool("resumed", resumed).Msg("Prior trained")
	return nil
}

// Distribution returns the smoothed class frequencies.
func (p *Prior) Distribution(dataset.Instance) ([]float64, error) {
	if p.counts == nil {
		return nil, errors.New("prior: not trained")
	}
	return p.distribution(p.counts, p.total), nil
}

func (p *Prior) distribution(counts []int, total int) []float64 {
	k := float64(len(counts))
	denom := float64(total) + p.alpha*k
	dist := make([]float64, len(counts))
	var sum float64
	for i, c := range counts {
		v := 1 / k
		if denom > 0 {
			v = (float64(c) + p.alpha) / denom
		}
		if p.jitter > 0 {
			v += p.jitter * p.rng.Float64()
		}
		dist[i] = v
		sum += v
	}
	if sum > 0 {
		for i := range dist {
			dist[i] /= sum
		}
	}
	return dist
}

// estimateOwnPerformance runs leave-one-out over the training counts.
func (p *Prior) estimateOwnPerformance(data *dataset.Dataset) *results.Results {
	r := results.New()
	counts := append([]int(nil), p.counts...)
	for _, in := range data.Instances {
		start := time.Now()
		c := int(in.Class)
		if in.ClassMissing() || c < 0 || c >= len(counts) {
			continue
		}
		counts[c]--
		dist := p.distribution(counts, p.total-1)
		counts[c]++
		r.AddPrediction(in.Class, dist, results.ArgMax(dist), time.Since(start), "loo")
	}
	return r
}

func (p *Prior) loadCheckpoint(numClasses int) (bool, error) {
	if p.loadPath == "" {
		return false, nil
	}
	data, err := os.ReadFile(p.loadPath)
	if errors.Is(err, os.ErrNotExist) {
		p.logger.Info().Str("path", p.loadPath).Msg("No checkpoint to resume from")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read checkpoint: %w", err)
	}
	var cp priorCheckpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return false, fmt.Errorf("decode checkpoint: %w", err)
	}
	if len(cp.Counts) != numClasses {
		return false, fmt.Errorf("checkpoint has %d classes, data has %d", len(cp.Counts), numClasses)
	}
	p.counts = cp.Counts
	p.logger.Info().Str("path", p.loadPath).Msg("Resumed from checkpoint")
	return true, nil
}

func (p *Prior) saveCheckpoint() error {
	if p.savePath == "" {
		return nil
	}
	data, err := json.Marshal(priorCheckpoint{Alpha: p.alpha, Counts: p.counts})
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := os.WriteFile(p.savePath, data, 0o600); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}

// Params returns alpha and jitter.
func (p *Prior) Params() *params.Set {
	return params.New().Put("alpha", p.alpha).Put("jitter", p.jitter)
}

// SetParams accepts "alpha" (non-negative smoothing) and "jitter" (non-negative noise).
func (p *Prior) SetParams(set *params.Set) error {
	alpha, jitter := p.alpha, p.jitter
	if err := params.SetParam(set, "alpha", func(v float64) { alpha = v }); err != nil {
		return err
	}
	if err := params.SetParam(set, "jitter", func(v float64) { jitter = v }); err != nil {
		return err
	}
	if alpha < 0 || jitter < 0 {
		return fmt.Errorf("prior: alpha and jitter must be non-negative, got %v and %v", alpha, jitter)
	}
	p.alpha, p.jitter = alpha, jitter
	return nil
}

func (p *Prior) SetSeed(seed int64) {
	p.seed = seed
	p.rng = rand.New(rand.NewSource(seed))
}

func (p *Prior) Seed() int64 { return p.seed }

func (p *Prior) SetLogLevel(level zerolog.Level) {
	p.logger = p.logger.Level(level)
}

func (p *Prior) LogLevel() zerolog.Level { return p.logger.GetLevel() }

func (p *Prior) SetEstimateOwnPerformance(estimate bool) { p.estimate = estimate }

func (p *Prior) EstimateOwnPerformance() bool { return p.estimate }

func (p *Prior) TrainResults() *results.Results { return p.trainResults }

func (p *Prior) SetLoadPath(path string) error {
	p.loadPath = path
	return nil
}

func (p *Prior) SetSavePath(path string) error {
	if path == "" {
		return errors.New("prior: empty checkpoint save path")
	}
	p.savePath = path
	return nil
}

func (p *Prior) SetCheckpointInterval(interval time.Duration) { p.interval = interval }

func (p *Prior) SetTrainTimeLimit(limit time.Duration) { p.trainTimeLimit = limit }

func (p *Prior) SetTestTimeLimit(limit time.Duration) { p.testTimeLimit = limit }

func (p *Prior) SetMemoryLimit(bytes int64) { p.memoryLimit = bytes }
