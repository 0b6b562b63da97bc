// Package execx is the lowest-level execution layer of stackinit. Every
// external tool the bootstrap touches (the Python interpreter, the venv
// module, pip) goes through a Runner so that each invocation produces an
// explicit Result instead of fire-and-forget shell state.
package execx

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Command describes a single subprocess invocation.
type Command struct {
	// Binary is the executable to run (e.g. "python3", "venv/bin/pip").
	Binary string

	// Arguments are the command-line arguments.
	Arguments []string

	// WorkingDirectory is the directory to execute in. Empty means the
	// current process working directory.
	WorkingDirectory string

	// Environment holds extra KEY=VALUE pairs appended to the inherited
	// environment.
	Environment []string
}

// String returns the full command line for display and logging.
func (c Command) String() string {
	if len(c.Arguments) == 0 {
		return c.Binary
	}
	return c.Binary + " " + strings.Join(c.Arguments, " ")
}

// Result is the outcome of a completed subprocess. A non-zero ExitCode is
// not an error at this layer; callers decide per step whether it is fatal,
// a warning, or ignorable.
type Result struct {
	ExitCode  int
	Stdout    string
	Stderr    string
	StartedAt time.Time
	Duration  time.Duration
}

// Combined returns stdout followed by stderr, newline separated.
func (r *Result) Combined() string {
	if r.Stderr == "" {
		return r.Stdout
	}
	if r.Stdout == "" {
		return r.Stderr
	}
	return r.Stdout + "\n" + r.Stderr
}

// Ok reports whether the process exited zero.
func (r *Result) Ok() bool {
	return r.ExitCode == 0
}

// Runner executes commands. The bootstrap pipeline depends on this
// interface so tests can script interpreter and pip behavior without a
// Python installation on the host.
type Runner interface {
	// Run executes the command to completion and returns its result.
	// An error is returned only when the process could not be started
	// (missing binary, bad working directory); a process that starts and
	// exits non-zero yields a Result with that exit code and a nil error.
	Run(ctx context.Context, cmd Command) (*Result, error)

	// LookPath resolves a binary name against the search path.
	LookPath(binary string) (string, error)
}

// Local runs commands directly on the host via os/exec.
type Local struct {
	timeout time.Duration
	log     *zap.Logger
}

// DefaultTimeout bounds a single subprocess. Dependency installs over a
// slow network are the long pole.
const DefaultTimeout = 10 * time.Minute

// NewLocal creates a host runner. A nil logger disables logging.
func NewLocal(log *zap.Logger) *Local {
	if log == nil {
		log = zap.NewNop()
	}
	return &Local{timeout: DefaultTimeout, log: log}
}

// SetTimeout overrides the per-command timeout.
func (l *Local) SetTimeout(d time.Duration) {
	if d > 0 {
		l.timeout = d
	}
}

// Run executes the command on the host, capturing stdout and stderr.
func (l *Local) Run(ctx context.Context, cmd Command) (*Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	execCmd := exec.CommandContext(runCtx, cmd.Binary, cmd.Arguments...)
	execCmd.Dir = cmd.WorkingDirectory
	if len(cmd.Environment) > 0 {
		execCmd.Env = append(os.Environ(), cmd.Environment...)
	}

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr

	result := &Result{StartedAt: time.Now()}
	l.log.Debug("running command",
		zap.String("command", cmd.String()),
		zap.String("dir", cmd.WorkingDirectory))

	err := execCmd.Run()
	result.Duration = time.Since(result.StartedAt)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			l.log.Debug("command exited non-zero",
				zap.String("command", cmd.String()),
				zap.Int("exit_code", result.ExitCode))
			return result, nil
		}
		if runCtx.Err() != nil {
			return nil, runCtx.Err()
		}
		return nil, err
	}

	l.log.Debug("command completed",
		zap.String("command", cmd.String()),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// LookPath resolves a binary using the process PATH.
func (l *Local) LookPath(binary string) (string, error) {
	return exec.LookPath(binary)
}
