package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsexp/internal/dataset"
)

func TestGenerateCommand(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	out, err := executeCommand(t, "generate", "--out", dir, "--name", "walk", "--classes", "3",
		"--length", "16", "--train", "9", "--test", "6", "--seed", "4")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, filepath.Join(dir, "walk_TRAIN.csv"), lines[0])
	assert.Equal(t, filepath.Join(dir, "walk_TEST.csv"), lines[1])

	train, test, err := dataset.LoadSplit(lines[0], lines[1])
	require.NoError(t, err)
	assert.Equal(t, 9, train.Len())
	assert.Equal(t, 6, test.Len())
	assert.Equal(t, 3, train.NumClasses())
	assert.Len(t, train.Instances[0].Values, 16)
}

func TestGenerateThenRun(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	out, err := executeCommand(t, "generate", "--out", dir, "--name", "walk", "--test", "8")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")

	out, err = executeCommand(t, "run", "--no-report", "--train", lines[0], "--test", lines[1])
	require.NoError(t, err)
	assert.Contains(t, out, "Predictions: 8")
}

func TestGenerateCommand_Invalid(t *testing.T) {
	clearEnv(t)
	_, err := executeCommand(t, "generate", "--out", t.TempDir(), "--classes", "0")
	assert.Error(t, err)
}
