package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/smlogic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "none.yaml"), "--log-level", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeCircuit(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "c.json")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "smlogic version dev\n", out)
}

func TestNewList(t *testing.T) {
	out, err := execute(t, "new")
	require.NoError(t, err)
	assert.Contains(t, out, "FullAdder")
	assert.Contains(t, out, "Clock1")
}

func TestValidate(t *testing.T) {
	path := writeCircuit(t, `[
		{"kind": "input", "x": 0, "y": 0, "inputs": []},
		{"kind": "and", "x": 100, "y": 0, "inputs": [0]}
	]`)
	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Equal(t, path+": 2 nodes, 1 links\n", out)

	_, err = execute(t, "validate", writeCircuit(t, `[{"kind": "relay"}]`))
	assert.Error(t, err)
}

func TestShare(t *testing.T) {
	path := writeCircuit(t, `[{"kind": "nor", "x": 5, "y": 5, "inputs": []}]`)
	out, err := execute(t, "share", path)
	require.NoError(t, err)
	c, err := smlogic.DecodeShare(strings.TrimSpace(out))
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, smlogic.NOR, c.Nodes()[0].Gate())
}

func TestDescribeRaw(t *testing.T) {
	path := writeCircuit(t, `[{"kind": "input-on", "x": 0, "y": 0, "inputs": [], "description": "a|b"}]`)
	out, err := execute(t, "describe", "--raw", path)
	require.NoError(t, err)
	assert.Contains(t, out, "# c.json")
	assert.Contains(t, out, `a\|b`)
}
