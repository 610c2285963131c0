// Package errors provides sentinel errors and custom error types for the repick application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrEmptyCommit indicates that a cherry-pick produced an empty commit
	ErrEmptyCommit = errors.New("cherry-pick produced an empty commit")

	// ErrCherryPickConflict indicates that a cherry-pick left unresolved conflicts
	ErrCherryPickConflict = errors.New("cherry-pick conflict")

	// ErrUnversionedBranch indicates that a branch name has no three-part version suffix
	ErrUnversionedBranch = errors.New("branch name has no version suffix")

	// ErrNoTriggerChange indicates that no triggering change metadata is available
	ErrNoTriggerChange = errors.New("no triggering change in environment")
)

// UnversionedBranchError reports a branch name whose suffix did not parse
// as a three-part numeric version.
type UnversionedBranchError struct {
	BranchName string
}

func (e *UnversionedBranchError) Error() string {
	return fmt.Sprintf("branch %s has no X.Y.Z version suffix", e.BranchName)
}

// Is returns true if the target error is ErrUnversionedBranch
func (e *UnversionedBranchError) Is(target error) bool {
	return target == ErrUnversionedBranch
}

// NewUnversionedBranchError creates a new UnversionedBranchError
func NewUnversionedBranchError(branchName string) *UnversionedBranchError {
	return &UnversionedBranchError{BranchName: branchName}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command  string
	Args     []string
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, exitCode int, err error) *GitCommandError {
	return &GitCommandError{
		Command:  command,
		Args:     args,
		Stdout:   stdout,
		Stderr:   stderr,
		ExitCode: exitCode,
		Err:      err,
	}
}

// HostAPIError represents a failure from the hosting service's API
type HostAPIError struct {
	Op  string // the API operation, e.g. "create pull request"
	Err error
}

func (e *HostAPIError) Error() string {
	return fmt.Sprintf("host API error during %s: %v", e.Op, e.Err)
}

func (e *HostAPIError) Unwrap() error {
	return e.Err
}

// NewHostAPIError creates a new HostAPIError
func NewHostAPIError(op string, err error) *HostAPIError {
	return &HostAPIError{Op: op, Err: err}
}
