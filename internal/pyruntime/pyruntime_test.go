package pyruntime

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackinit/internal/execx"
)

// fakeRunner scripts LookPath and Run responses per binary name.
type fakeRunner struct {
	onPath   map[string]string
	results  map[string]*execx.Result
	runErr   map[string]error
	commands []execx.Command
}

func (f *fakeRunner) Run(_ context.Context, cmd execx.Command) (*execx.Result, error) {
	f.commands = append(f.commands, cmd)
	if err, ok := f.runErr[cmd.Binary]; ok {
		return nil, err
	}
	if res, ok := f.results[cmd.Binary]; ok {
		return res, nil
	}
	return &execx.Result{}, nil
}

func (f *fakeRunner) LookPath(binary string) (string, error) {
	if path, ok := f.onPath[binary]; ok {
		return path, nil
	}
	return "", errors.New("not found")
}

func TestDetectFirstCandidate(t *testing.T) {
	runner := &fakeRunner{
		onPath: map[string]string{"python3": "/usr/bin/python3"},
		results: map[string]*execx.Result{
			"python3": {Stdout: "Python 3.12.1\n"},
		},
	}

	info, err := Detect(context.Background(), runner, []string{"python3", "python"})
	require.NoError(t, err)
	assert.Equal(t, "python3", info.Binary)
	assert.Equal(t, "/usr/bin/python3", info.Path)
	assert.Equal(t, "Python 3.12.1", info.Version)
}

func TestDetectFallsBackToSecondCandidate(t *testing.T) {
	runner := &fakeRunner{
		onPath: map[string]string{"python": "/usr/bin/python"},
		results: map[string]*execx.Result{
			"python": {Stdout: "Python 3.10.4\n"},
		},
	}

	info, err := Detect(context.Background(), runner, []string{"python3", "python"})
	require.NoError(t, err)
	assert.Equal(t, "python", info.Binary)
}

func TestDetectSkipsBrokenInterpreter(t *testing.T) {
	// python3 resolves but cannot report a version; python works.
	runner := &fakeRunner{
		onPath: map[string]string{
			"python3": "/usr/bin/python3",
			"python":  "/usr/bin/python",
		},
		results: map[string]*execx.Result{
			"python3": {ExitCode: 127, Stderr: "broken symlink"},
			"python":  {Stdout: "Python 3.11.9\n"},
		},
	}

	info, err := Detect(context.Background(), runner, []string{"python3", "python"})
	require.NoError(t, err)
	assert.Equal(t, "python", info.Binary)
}

func TestDetectNotFound(t *testing.T) {
	runner := &fakeRunner{}

	_, err := Detect(context.Background(), runner, []string{"python3", "python"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRuntimeNotFound)
	assert.Contains(t, err.Error(), "python3, python")
}

func TestVersionReadsStderrForOldInterpreters(t *testing.T) {
	runner := &fakeRunner{
		onPath: map[string]string{"python": "/usr/bin/python"},
		results: map[string]*execx.Result{
			"python": {Stderr: "Python 2.7.18\n"},
		},
	}

	version, err := Version(context.Background(), runner, "python")
	require.NoError(t, err)
	assert.Equal(t, "Python 2.7.18", version)
}
