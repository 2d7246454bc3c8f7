package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGatesCommandScoresAll(t *testing.T) {
	out, err := execute(t, "gates")
	require.NoError(t, err, out)
	for _, name := range []string{"AND", "OR", "NOT", "NAND", "NOR", "XOR", "XNOR"} {
		assert.Contains(t, out, name+" accuracy=1.00")
	}
	assert.NotContains(t, out, "MISS")
}

func TestGatesCommandSubsetParallel(t *testing.T) {
	out, err := execute(t, "--workers", "4", "gates", "xor")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "XOR accuracy=1.00"), out)
	assert.NotContains(t, out, "AND accuracy")
}

func TestGatesCommandFromConfig(t *testing.T) {
	path := writeConfig(t, "gates: [NOT]\nmetrics: true\n")
	out, err := execute(t, "--config", path, "gates")
	require.NoError(t, err)
	assert.Contains(t, out, "NOT accuracy=1.00")
	assert.Contains(t, out, "neurograph_engine_passes_total{result=success} 2")
}

func TestGatesCommandLowercaseConfig(t *testing.T) {
	path := writeConfig(t, "gates: [nor]\n")
	out, err := execute(t, "--config", path, "gates")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "NOR accuracy=1.00"), out)
}

func TestCommandsAcceptCommentOnlyConfig(t *testing.T) {
	path := writeConfig(t, "# only a comment\n")
	out, err := execute(t, "--config", path, "gates", "and")
	require.NoError(t, err)
	assert.Contains(t, out, "AND accuracy=1.00")
}

func TestGatesCommandUnknownGate(t *testing.T) {
	_, err := execute(t, "gates", "IMPLY")
	assert.Error(t, err)
}

func TestPixelsCommand(t *testing.T) {
	out, err := execute(t, "pixels", "--width", "2", "--height", "2", "--index", "1,3,9", "--handle", "pixel-x,foo")
	require.NoError(t, err)
	for _, want := range []string{"pixel-1 -> 2", "pixel-3 -> 4", "pixel-9 -> 0", "pixel-x -> 0", "foo -> 0"} {
		assert.Contains(t, out, want)
	}
}

func TestPixelsCommandRejectsBadShape(t *testing.T) {
	_, err := execute(t, "pixels", "--width", "0")
	assert.Error(t, err)
}

func TestActivationsCommand(t *testing.T) {
	out, err := execute(t, "activations")
	require.NoError(t, err)

	rows := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		require.NotEmpty(t, fields)
		rows[fields[0]] = strings.Join(fields[1:], " ")
	}
	for _, name := range []string{"step", "identity", "relu", "tanh", "sigmoid", "sign"} {
		assert.NotEmpty(t, rows[name], "missing description for %s", name)
	}
	assert.Equal(t, "1 when the net input reaches the threshold, else 0", rows["step"])
}

func TestInvalidFlagConfig(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "activations")
	assert.Error(t, err, "log level")
	_, err = execute(t, "--workers", "-2", "activations")
	assert.Error(t, err, "workers")
}
