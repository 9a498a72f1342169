package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const increment = `
blank: ' '
start state: right
input: '1011'
table:
  right:
    1,0: R
    ' ': {L: carry}
  carry:
    1: {write: 0, L: carry}
    '0, ': {write: 1, L: done}
  done:
`

func writeMachine(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "machine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "turing version ")
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", writeMachine(t, increment))
	require.NoError(t, err)
	assert.Contains(t, out, "start state: right")
	assert.Contains(t, out, "halting:     done")

	_, err = execute(t, "validate", writeMachine(t, "blank: ' '\nstart state: a\ntable:\n  a:\n    x: {R: b}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "machine.yaml:5:")
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "run", writeMachine(t, increment))
	require.NoError(t, err)
	assert.Contains(t, out, "halted in state done after 8 steps")
	assert.Contains(t, out, "tape 1:")
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "graph", "--run", writeMachine(t, increment))
	require.NoError(t, err)
	assert.Contains(t, out, "graph LR")
	assert.Contains(t, out, "class s2 current;")
}

func TestTransformCommand(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "binary.yaml")
	_, err := execute(t, "transform", "--kind", "binary", "--output", dst, writeMachine(t, increment))
	require.NoError(t, err)

	doc, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "blank: ")

	_, err = execute(t, "transform", "--kind", "ternary", "--output", "", writeMachine(t, increment))
	assert.Error(t, err)
}
