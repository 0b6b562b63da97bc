// Package pyruntime discovers the Python interpreter that backs the
// bootstrap. Discovery is the single fatal gate of the whole procedure:
// when no candidate resolves, nothing else is attempted.
package pyruntime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stackinit/internal/execx"
)

// ErrRuntimeNotFound is returned when no interpreter candidate is usable.
// Callers map it to a non-zero process exit.
var ErrRuntimeNotFound = errors.New("python runtime not found")

// Info describes a usable interpreter.
type Info struct {
	// Binary is the candidate name that resolved (e.g. "python3").
	Binary string
	// Path is the absolute path LookPath resolved it to.
	Path string
	// Version is the trimmed `--version` output, e.g. "Python 3.12.1".
	Version string
}

// Detect probes the candidates in order and returns the first one that
// both resolves on the search path and answers a version query with exit
// code zero.
func Detect(ctx context.Context, runner execx.Runner, candidates []string) (*Info, error) {
	for _, candidate := range candidates {
		path, err := runner.LookPath(candidate)
		if err != nil {
			continue
		}

		version, err := Version(ctx, runner, candidate)
		if err != nil {
			continue
		}

		return &Info{Binary: candidate, Path: path, Version: version}, nil
	}
	return nil, fmt.Errorf("%w (tried: %s)", ErrRuntimeNotFound, strings.Join(candidates, ", "))
}

// Version runs `<binary> --version` and returns the trimmed output.
// Python 2 printed the version to stderr, Python 3 prints it to stdout;
// both streams are consulted.
func Version(ctx context.Context, runner execx.Runner, binary string) (string, error) {
	res, err := runner.Run(ctx, execx.Command{
		Binary:    binary,
		Arguments: []string{"--version"},
	})
	if err != nil {
		return "", err
	}
	if !res.Ok() {
		return "", fmt.Errorf("%s --version exited %d: %s", binary, res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	version := strings.TrimSpace(res.Stdout)
	if version == "" {
		version = strings.TrimSpace(res.Stderr)
	}
	return version, nil
}
