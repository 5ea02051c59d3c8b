package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Reporter writes a Results to disk as a text summary, a prediction CSV and JSON.
type Reporter struct {
	results    *Results
	outputPath string
	prefix     string
}

// NewReporter creates a reporter writing files named "<prefix>_*" under outputPath.
func NewReporter(results *Results, outputPath, prefix string) *Reporter {
	return &Reporter{
		results:    results,
		outputPath: outputPath,
		prefix:     prefix,
	}
}

// GenerateReport generates all report formats
func (r *Reporter) GenerateReport() error {
	if err := os.MkdirAll(r.outputPath, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := r.generateSummary(); err != nil {
		return err
	}
	if err := r.generatePredictionLog(); err != nil {
		return err
	}
	return r.generateJSONReport()
}

func (r *Reporter) path(suffix string) string {
	return filepath.Join(r.outputPath, r.prefix+"_"+suffix)
}

func (r *Reporter) generateSummary() error {
	summaryPath := r.path("summary.txt")
	if err := os.WriteFile(summaryPath, []byte(r.results.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	log.Info().Str("file", summaryPath).Msg("Summary report generated")
	return nil
}

// generatePredictionLog writes one CSV row per prediction
func (r *Reporter) generatePredictionLog() error {
	csvPath := r.path("predictions.csv")
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create prediction log: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{"index", "true_class", "predicted", "latency_ns", "distribution", "note"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for i, p := range r.results.Predictions {
		dist, err := json.Marshal(p.Distribution)
		if err != nil {
			return fmt.Errorf("marshal distribution %d: %w", i, err)
		}
		record := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(p.TrueClass, 'g', -1, 64),
			strconv.Itoa(p.Predicted),
			strconv.FormatInt(p.Latency.Nanoseconds(), 10),
			string(dist),
			p.Note,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write prediction log: %w", err)
	}
	log.Info().Str("file", csvPath).Msg("Prediction log generated")
	return nil
}

func (r *Reporter) generateJSONReport() error {
	jsonPath := r.path("results.json")
	data, err := json.MarshalIndent(r.results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	log.Info().Str("file", jsonPath).Msg("JSON report generated")
	return nil
}
