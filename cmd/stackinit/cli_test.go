package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPlanCommandPrintsDefaults(t *testing.T) {
	out, err := executeCommand(t, "plan", "--workspace", t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, out, "backend_root: backend")
	assert.Contains(t, out, "venv_dir: venv")
	assert.Contains(t, out, "requirements-dev.txt")
	assert.Contains(t, out, ".env.example")
}

func TestPlanCommandAppliesOverrides(t *testing.T) {
	ws := t.TempDir()
	override := "backend_root: server\nvenv_dir: .venv\n"
	require.NoError(t, os.WriteFile(
		filepath.Join(ws, "stackinit.yaml"), []byte(override), 0o644))

	out, err := executeCommand(t, "plan", "--workspace", ws)
	require.NoError(t, err)

	assert.Contains(t, out, "backend_root: server")
	assert.Contains(t, out, "venv_dir: .venv")
}

func TestPlanCommandRejectsBrokenOverride(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(ws, "stackinit.yaml"), []byte("venv_dir: /abs\n"), 0o644))

	_, err := executeCommand(t, "plan", "--workspace", ws)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relative")
}
