package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

// SyntheticConfig describes a generated classification problem. Each class is a
// mean-reverting random walk around its own linear trend, so classes differ in slope
// and can be separated by shape.
type SyntheticConfig struct {
	Name          string
	Classes       int
	Length        int
	Instances     int
	Volatility    float64 // noise scale per step
	TrendStrength float64 // slope difference between neighbouring classes
	MeanReversion float64 // pull towards the class trend per step, in [0,1]
}

// DefaultSynthetic returns a small two-class problem.
func DefaultSynthetic(name string) SyntheticConfig {
	return SyntheticConfig{
		Name:          name,
		Classes:       2,
		Length:        60,
		Instances:     20,
		Volatility:    0.2,
		TrendStrength: 0.05,
		MeanReversion: 0.1,
	}
}

// Generate draws a dataset from cfg using rng. Instances cycle through the classes.
func Generate(cfg SyntheticConfig, rng *rand.Rand) (*Dataset, error) {
	if cfg.Classes < 1 || cfg.Length < 1 || cfg.Instances < 0 {
		return nil, fmt.Errorf("invalid synthetic config: classes=%d length=%d instances=%d",
			cfg.Classes, cfg.Length, cfg.Instances)
	}
	if cfg.MeanReversion < 0 || cfg.MeanReversion > 1 {
		return nil, fmt.Errorf("mean reversion must be in [0,1], got %v", cfg.MeanReversion)
	}

	names := make([]string, cfg.Classes)
	for i := range names {
		names[i] = "c" + strconv.Itoa(i)
	}
	d := New(cfg.Name, names...)

	for n := 0; n < cfg.Instances; n++ {
		class := n % cfg.Classes
		slope := cfg.TrendStrength * float64(class)
		values := make([]float64, cfg.Length)
		current := 0.0
		for t := range values {
			trend := slope * float64(t)
			current += cfg.MeanReversion*(trend-current) + cfg.Volatility*rng.NormFloat64()
			values[t] = current
		}
		if err := d.Add(values, class); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// WriteCSV writes d in the format ReadCSV accepts.
func WriteCSV(w io.Writer, d *Dataset) error {
	writer := csv.NewWriter(w)
	for i, in := range d.Instances {
		if in.ClassMissing() {
			return fmt.Errorf("instance %d has no class", i)
		}
		c := int(in.Class)
		if c < 0 || c >= len(d.ClassNames) {
			return fmt.Errorf("instance %d: class index %d out of range", i, c)
		}
		record := make([]string, 0, len(in.Values)+1)
		record = append(record, d.ClassNames[c])
		for _, v := range in.Values {
			if math.IsNaN(v) {
				record = append(record, "NaN")
				continue
			}
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write instance %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveSplit writes train and test to "<dir>/<name>_TRAIN.csv" and
// "<dir>/<name>_TEST.csv" and returns both paths.
func SaveSplit(dir, name string, train, test *Dataset) (trainPath, testPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create output directory: %w", err)
	}
	trainPath = filepath.Join(dir, name+"_TRAIN.csv")
	testPath = filepath.Join(dir, name+"_TEST.csv")
	for _, f := range []struct {
		path string
		d    *Dataset
	}{{trainPath, train}, {testPath, test}} {
		if err := saveCSV(f.path, f.d); err != nil {
			return "", "", err
		}
	}
	return trainPath, testPath, nil
}

func saveCSV(path string, d *Dataset) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(file, d); err != nil {
		file.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return file.Close()
}
