package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// LoadCSV reads a dataset where each row is "label,v1,v2,...". Class names are
// assigned indices in order of first appearance. Rows may differ in length.
func LoadCSV(path string) (*Dataset, error) {
	return loadCSV(path, nil)
}

// LoadSplit loads a train/test pair so that both share one class vocabulary. Labels
// that only appear in the test file are appended to the train vocabulary.
func LoadSplit(trainPath, testPath string) (train, test *Dataset, err error) {
	train, err = loadCSV(trainPath, nil)
	if err != nil {
		return nil, nil, err
	}
	test, err = loadCSV(testPath, train.ClassNames)
	if err != nil {
		return nil, nil, err
	}
	train.ClassNames = append([]string(nil), test.ClassNames...)
	return train, test, nil
}

func loadCSV(path string, classNames []string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	d, err := ReadCSVWithClasses(file, name, classNames)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Info().
		Str("dataset", d.Name).
		Int("instances", d.Len()).
		Int("classes", d.NumClasses()).
		Msg("Dataset loaded")
	return d, nil
}

// ReadCSV parses the LoadCSV format from r. Blank lines are skipped.
func ReadCSV(r io.Reader, name string) (*Dataset, error) {
	return ReadCSVWithClasses(r, name, nil)
}

// ReadCSVWithClasses is ReadCSV with a pre-seeded class vocabulary. Known labels keep
// their indices; new labels are appended.
func ReadCSVWithClasses(r io.Reader, name string, classNames []string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	d := New(name, classNames...)
	classIndex := make(map[string]int, len(classNames))
	for i, c := range classNames {
		classIndex[c] = i
	}

	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("row %d: need a label and at least one value", row)
		}

		label := strings.TrimSpace(record[0])
		class, ok := classIndex[label]
		if !ok {
			class = len(d.ClassNames)
			classIndex[label] = class
			d.ClassNames = append(d.ClassNames, label)
		}

		values := make([]float64, len(record)-1)
		for i, field := range record[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", row, i+2, err)
			}
			values[i] = v
		}
		if err := d.Add(values, class); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
	}

	if d.Len() == 0 {
		return nil, fmt.Errorf("no instances")
	}
	return d, nil
}
