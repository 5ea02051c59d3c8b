package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	trainCSV = "a,0,0,1\nb,5,5,6\na,0,1,1\na,1,0,0\n"
	testCSV  = "a,0,0,0\nb,6,5,5\na,1,1,1\n"
)

func writeSplit(t *testing.T) (dir, train, test string) {
	t.Helper()
	dir = t.TempDir()
	train = filepath.Join(dir, "toy_TRAIN.csv")
	test = filepath.Join(dir, "toy_TEST.csv")
	require.NoError(t, os.WriteFile(train, []byte(trainCSV), 0o600))
	require.NoError(t, os.WriteFile(test, []byte(testCSV), 0o600))
	return dir, train, test
}

func TestRun_EndToEnd(t *testing.T) {
	clearEnv(t)
	dir, train, test := writeSplit(t)
	output := filepath.Join(dir, "out")
	db := filepath.Join(dir, "db")
	ckpt := filepath.Join(dir, "prior.json")

	out, err := executeCommand(t, "run",
		"--train", train, "--test", test,
		"--seed", "3",
		"--params=--alpha 2",
		"--estimate-train-error",
		"--checkpoint-save", ckpt,
		"--train-time", "1h",
		"--test-time", "1m",
		"--memory", "1GiB",
		"--output", output,
		"--data-path", db,
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Classifier: prior")
	assert.Contains(t, out, "Dataset: toy_TRAIN")
	assert.Contains(t, out, "Seed: 3")
	assert.Contains(t, out, "Params: --alpha 2")
	assert.Contains(t, out, "Predictions: 3")
	// The prior always predicts the majority class "a".
	assert.Contains(t, out, "Accuracy: 0.6667")

	assert.FileExists(t, ckpt)
	for _, name := range []string{
		"prior_toy_TRAIN_3_test_summary.txt",
		"prior_toy_TRAIN_3_test_predictions.csv",
		"prior_toy_TRAIN_3_test_results.json",
		"prior_toy_TRAIN_3_train_summary.txt",
	} {
		assert.FileExists(t, filepath.Join(output, name))
	}

	listed, err := executeCommand(t, "results", "list", "--data-path", db)
	require.NoError(t, err)
	assert.Contains(t, listed, "prior on toy_TRAIN (seed 3)")

	shown, err := executeCommand(t, "results", "show", "--data-path", db, "--phase", "train", "prior_toy_TRAIN_3")
	require.NoError(t, err)
	assert.Contains(t, shown, "Predictions: 4")

	_, err = executeCommand(t, "results", "show", "--data-path", db, "prior_missing_0")
	assert.Error(t, err)

	keys, err := executeCommand(t, "results", "list", "--keys", "--data-path", db, "--phase", "train")
	require.NoError(t, err)
	assert.Equal(t, "prior_toy_TRAIN_3\n", keys)

	_, err = executeCommand(t, "results", "delete", "--data-path", db, "--phase", "train", "prior_toy_TRAIN_3")
	require.NoError(t, err)
	keys, err = executeCommand(t, "results", "list", "--keys", "--data-path", db, "--phase", "train")
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = executeCommand(t, "results", "delete", "--data-path", db, "--phase", "train", "prior_toy_TRAIN_3")
	assert.Error(t, err)
}

func TestRun_Publishes(t *testing.T) {
	clearEnv(t)
	_, train, test := writeSplit(t)

	var (
		mu     sync.Mutex
		phases []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var env struct {
			Phase string `json:"phase"`
		}
		_ = json.Unmarshal(body, &env)
		mu.Lock()
		phases = append(phases, env.Phase)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":0}`))
	}))
	defer server.Close()

	_, err := executeCommand(t, "run", "--train", train, "--test", test, "--no-report",
		"--estimate-train-error", "--publish-url", server.URL)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"train", "test"}, phases)
}

func TestRun_FromConfigFile(t *testing.T) {
	clearEnv(t)
	dir, train, test := writeSplit(t)
	config := filepath.Join(dir, "experiment.yaml")
	content := "experiment:\n" +
		"  dataset: toy\n" +
		"  trainPath: " + train + "\n" +
		"  testPath: " + test + "\n" +
		"  seed: 9\n" +
		"  params:\n" +
		"    jitter: 0.01\n"
	require.NoError(t, os.WriteFile(config, []byte(content), 0o600))

	out, err := executeCommand(t, "--config", config, "run", "--no-report")
	require.NoError(t, err)
	assert.Contains(t, out, "Dataset: toy")
	assert.Contains(t, out, "Seed: 9")
	assert.Contains(t, out, "Params: --jitter 0.01")
}

func TestRun_Errors(t *testing.T) {
	_, train, test := writeSplit(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing data", []string{"run", "--no-report"}},
		{"unknown classifier", []string{"run", "--no-report", "--classifier", "nope", "--train", train, "--test", test}},
		{"bad params", []string{"run", "--no-report", "--params=--alpha {", "--train", train, "--test", test}},
		{"bad memory", []string{"run", "--no-report", "--memory", "plenty", "--train", train, "--test", test}},
		{"rejected param value", []string{"run", "--no-report", "--params=--alpha -1", "--train", train, "--test", test}},
		{"missing file", []string{"run", "--no-report", "--train", train + ".missing", "--test", test}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := executeCommand(t, tt.args...)
			assert.Error(t, err)
		})
	}
}
