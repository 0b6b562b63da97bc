// Package venv manages the isolated dependency environment under the
// backend root. Activation is modeled by resolving pip and python out of
// the environment's own bin directory instead of mutating shell state, so
// every install lands inside the environment by construction.
package venv

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"stackinit/internal/execx"
)

// Env is an isolated Python environment rooted at a fixed subdirectory of
// the backend root.
type Env struct {
	root string // absolute backend root
	dir  string // venv directory name inside root
}

// New describes the environment at <root>/<dir>. Nothing is touched on
// disk until Create runs.
func New(root, dir string) *Env {
	return &Env{root: root, dir: dir}
}

// Path returns the absolute environment directory.
func (e *Env) Path() string {
	return filepath.Join(e.root, e.dir)
}

// Python returns the environment's own interpreter binary.
func (e *Env) Python() string {
	return filepath.Join(e.Path(), binDir(), exeName("python"))
}

// Pip returns the environment's own pip binary.
func (e *Env) Pip() string {
	return filepath.Join(e.Path(), binDir(), exeName("pip"))
}

// Create materializes the environment with `<interpreter> -m venv <dir>`,
// run from the backend root. The venv module is overwrite-safe on an
// existing environment, so no existence check is made here; the caller
// decides what a non-zero exit means.
func (e *Env) Create(ctx context.Context, runner execx.Runner, interpreter string) (*execx.Result, error) {
	return runner.Run(ctx, execx.Command{
		Binary:           interpreter,
		Arguments:        []string{"-m", "venv", e.dir},
		WorkingDirectory: e.root,
	})
}

// UpgradePip upgrades the environment's installer in quiet mode.
func (e *Env) UpgradePip(ctx context.Context, runner execx.Runner) (*execx.Result, error) {
	return runner.Run(ctx, execx.Command{
		Binary:           e.Pip(),
		Arguments:        []string{"install", "--quiet", "--upgrade", "pip"},
		WorkingDirectory: e.root,
	})
}

// InstallManifest installs a requirements manifest into the environment in
// quiet mode. The manifest path is relative to the backend root.
func (e *Env) InstallManifest(ctx context.Context, runner execx.Runner, manifest string) (*execx.Result, error) {
	return runner.Run(ctx, execx.Command{
		Binary:           e.Pip(),
		Arguments:        []string{"install", "--quiet", "-r", manifest},
		WorkingDirectory: e.root,
	})
}

// ListPackages returns the `pip list` output as individual lines.
func (e *Env) ListPackages(ctx context.Context, runner execx.Runner) ([]string, error) {
	res, err := runner.Run(ctx, execx.Command{
		Binary:           e.Pip(),
		Arguments:        []string{"list"},
		WorkingDirectory: e.root,
	})
	if err != nil {
		return nil, err
	}
	if !res.Ok() {
		return nil, fmt.Errorf("pip list exited %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	var lines []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// FilterPackages returns the lines matching any of the expected package
// names. Matching is a case-sensitive substring test, mirroring a plain
// `pip list | grep` pipeline.
func FilterPackages(lines, expected []string) []string {
	var matches []string
	for _, line := range lines {
		for _, name := range expected {
			if strings.Contains(line, name) {
				matches = append(matches, line)
				break
			}
		}
	}
	return matches
}

func binDir() string {
	if runtime.GOOS == "windows" {
		return "Scripts"
	}
	return "bin"
}

func exeName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}
