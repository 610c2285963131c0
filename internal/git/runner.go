// Package git provides a wrapper around git commands and go-git for repository operations.
package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	repickerrors "repick.dev/repick/internal/errors"
)

// DefaultCommandTimeout is the default timeout for git commands
const DefaultCommandTimeout = 5 * time.Minute

// Result carries the raw outcome of one git invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes git commands. The production implementation is
// CommandRunner; tests substitute scripted fakes.
type Runner interface {
	// Run executes a git command and fails on a nonzero exit code.
	Run(ctx context.Context, args ...string) (string, error)

	// RunResult executes a git command and reports the exit code in the
	// result instead of failing, so callers can classify the error text
	// themselves. The error is non-nil only when the command could not be
	// started or was cancelled.
	RunResult(ctx context.Context, args ...string) (Result, error)
}

// CommandRunner handles execution of git commands
type CommandRunner struct {
	workingDir string
}

// NewCommandRunner creates a new CommandRunner
func NewCommandRunner(workingDir string) *CommandRunner {
	return &CommandRunner{workingDir: workingDir}
}

// Run executes a git command and returns trimmed stdout
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	res, err := r.RunResult(ctx, args...)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", repickerrors.NewGitCommandError("git", args, res.Stdout, res.Stderr, res.ExitCode, nil)
	}
	return strings.TrimSpace(res.Stdout), nil
}

// RunResult executes a git command and captures stdout, stderr and the exit code
func (r *CommandRunner) RunResult(ctx context.Context, args ...string) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return res, repickerrors.NewGitCommandError("git", args, res.Stdout, res.Stderr, res.ExitCode, ctx.Err())
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// The process never ran (binary missing, bad working dir).
			return res, repickerrors.NewGitCommandError("git", args, res.Stdout, res.Stderr, res.ExitCode, err)
		}
	}
	return res, nil
}

// RunLines executes a git command and returns stdout split into lines
func (r *CommandRunner) RunLines(ctx context.Context, args ...string) ([]string, error) {
	output, err := r.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}
