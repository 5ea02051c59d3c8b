package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsCommand(t *testing.T) {
	clearEnv(t)

	out, err := executeCommand(t, "params", "--", "--alpha", "2", "-k", "-5", "--alpha", "3")
	require.NoError(t, err)
	assert.Equal(t, "--alpha 2 3 -k -5\n", out)

	out, err = executeCommand(t, "params", "--yaml", "--", "--outer", "{", "-k", "3", "}")
	require.NoError(t, err)
	assert.Contains(t, out, "outer:")
	assert.Contains(t, out, "k:")

	_, err = executeCommand(t, "params", "--", "--outer", "{", "-k")
	assert.Error(t, err)
}

func TestParamsCommand_AppliesToComponent(t *testing.T) {
	clearEnv(t)

	out, err := executeCommand(t, "params", "--classifier", "prior", "--", "--alpha", "3")
	require.NoError(t, err)
	assert.Equal(t, "--alpha 3 --jitter 0\n", out)

	out, err = executeCommand(t, "params", "--measure", "dtw", "--", "-w", "4")
	require.NoError(t, err)
	assert.Equal(t, "-w 4\n", out)

	_, err = executeCommand(t, "params", "--measure", "dtw", "--", "-w", "wide")
	assert.Error(t, err)

	_, err = executeCommand(t, "params", "--measure", "euclidean", "--", "-w", "1")
	assert.Error(t, err)
}
