// Package executor runs sequences of external tool subcommands.
//
// Each step runs as a child process whose working directory is set on the
// child itself. The calling process never changes its own working
// directory, so there is nothing to restore when a step fails.
//
// Steps block until the child exits. There are no timeouts and no retries:
// a hung tool hangs the sequence. Cancelling the context interrupts the child
// with SIGINT, the way a terminal Ctrl-C would, and only kills it once
// WaitDelay has passed. On Unix the child runs in its own process group so a
// Ctrl-C reaches it once, through the runner, and not a second time from the
// terminal (terraform treats a second interrupt as "exit immediately").
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Step is one subcommand of the tool
type Step struct {
	// Args are passed to the tool binary, e.g. {"apply", "-auto-approve"}.
	Args []string

	// OutputFile, when set, receives the step's standard output instead of
	// the runner's Stdout. The path is relative to the working directory.
	OutputFile string
}

// String renders the step the way it would be typed after the binary name
func (s Step) String() string {
	cmd := strings.Join(s.Args, " ")
	if s.OutputFile != "" {
		cmd += fmt.Sprintf(" > %q", s.OutputFile)
	}
	return cmd
}

// ExternalCommandFailedError is returned when a step exits non-zero or
// cannot be started. ExitCode is -1 when no exit status is available.
type ExternalCommandFailedError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *ExternalCommandFailedError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("failed to run command %s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("failed to run command %s: exit status %d", e.Command, e.ExitCode)
}

func (e *ExternalCommandFailedError) Unwrap() error { return e.Err }

// DefaultWaitDelay leaves terraform time to write its state after an interrupt
const DefaultWaitDelay = 2 * time.Minute

// Runner runs steps of a single tool binary
type Runner struct {
	// Binary is the tool name or path, e.g. "terraform".
	Binary string

	// Stdout and Stderr receive the tool's output. They default to the
	// process's own streams.
	Stdout io.Writer
	Stderr io.Writer

	// Env is appended to the inherited environment
	Env []string

	// WaitDelay bounds how long a cancelled step may take to shut down
	// before it is killed.
	WaitDelay time.Duration

	logger *zap.SugaredLogger
}

// NewRunner creates a runner for binary that writes to the process's
// standard streams.
func NewRunner(binary string, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Binary:    binary,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		WaitDelay: DefaultWaitDelay,
		logger:    logger.Sugar(),
	}
}

// Run executes steps in order inside dir and stops at the first failure
func (r *Runner) Run(ctx context.Context, dir string, steps []Step) error {
	r.logger.Debugw("entering directory", "dir", dir)
	defer r.logger.Debugw("leaving directory", "dir", dir)

	for _, step := range steps {
		if err := r.runStep(ctx, dir, step); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runStep(ctx context.Context, dir string, step Step) error {
	command := r.Binary + " " + step.String()
	r.logger.Debugw("running command", "command", command, "dir", dir)

	cmd := exec.CommandContext(ctx, r.Binary, step.Args...)
	cmd.Dir = dir
	detachFromTerminalSignals(cmd)
	cmd.Cancel = func() error {
		r.logger.Warnw("interrupting command", "command", command, "dir", dir)
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = r.WaitDelay
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	if step.OutputFile != "" {
		path := filepath.Join(dir, step.OutputFile)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file %s: %w", path, err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				r.logger.Warnw("failed to close output file", "path", path, "error", err)
			}
		}()
		cmd.Stdout = f
	}

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return &ExternalCommandFailedError{Command: step.String(), ExitCode: exitCode, Err: err}
	}

	return nil
}
