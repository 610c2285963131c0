package git

import (
	"context"
	"fmt"
	"strings"
)

// Strategy selects how cherry-pick conflicts are handled. The two strategies
// are mutually exclusive per run.
type Strategy string

const (
	// StrategyAutoTheirs auto-resolves conflicts preferring the incoming
	// commit's version of conflicting regions.
	StrategyAutoTheirs Strategy = "auto-theirs"

	// StrategyLeaveUnresolved commits conflict markers as-is so they can be
	// resolved in the resulting pull request.
	StrategyLeaveUnresolved Strategy = "leave-unresolved"
)

// Error text markers git emits for the two benign cherry-pick failures.
const (
	emptyCommitMarker        = "The previous cherry-pick is now empty"
	unresolvedConflictMarker = "after resolving the conflicts"
)

// ConflictCommitMessage is the fixed message used when committing
// unresolved conflicts.
const ConflictCommitMessage = "leave conflicts unresolved"

// OutcomeKind classifies the result of one cherry-pick invocation.
type OutcomeKind int

const (
	// OutcomeClean means the commit applied without conflicts.
	OutcomeClean OutcomeKind = iota

	// OutcomeEmpty means the commit is already contained in the target and
	// the cherry-pick produced nothing to commit.
	OutcomeEmpty

	// OutcomeConflict means conflicts were committed unresolved; the
	// resulting pull request must be marked as a draft and labelled.
	OutcomeConflict
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeClean:
		return "clean"
	case OutcomeEmpty:
		return "empty"
	case OutcomeConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of applying one commit, carrying the raw
// process output it was classified from.
type Outcome struct {
	Kind     OutcomeKind
	Stdout   string
	Stderr   string
	ExitCode int
}

// Engine applies one commit onto the current workspace under a chosen
// strategy and classifies the result. Fatal results are returned as errors.
type Engine struct {
	runner Runner
}

// NewEngine creates an Engine on top of a runner.
func NewEngine(runner Runner) *Engine {
	return &Engine{runner: runner}
}

// Apply cherry-picks commitRef onto the current branch.
func (e *Engine) Apply(ctx context.Context, strategy Strategy, commitRef string) (Outcome, error) {
	switch strategy {
	case StrategyLeaveUnresolved:
		return e.applyLeaveUnresolved(ctx, commitRef)
	case StrategyAutoTheirs:
		return e.applyAutoTheirs(ctx, commitRef)
	default:
		return Outcome{}, fmt.Errorf("unknown cherry-pick strategy %q", strategy)
	}
}

func (e *Engine) applyAutoTheirs(ctx context.Context, commitRef string) (Outcome, error) {
	res, err := e.runner.RunResult(ctx, "cherry-pick", "--strategy=recursive", "--strategy-option=theirs", commitRef)
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Stdout: res.Stdout, Stderr: res.Stderr, ExitCode: res.ExitCode}
	switch {
	case res.ExitCode == 0:
		outcome.Kind = OutcomeClean
		return outcome, nil
	case strings.Contains(res.Stderr, emptyCommitMarker):
		outcome.Kind = OutcomeEmpty
		return outcome, nil
	default:
		return Outcome{}, fmt.Errorf("Unexpected error: %s", res.Stderr)
	}
}

func (e *Engine) applyLeaveUnresolved(ctx context.Context, commitRef string) (Outcome, error) {
	// The exit code is meaningless here: a conflicted cherry-pick exits
	// nonzero even though that is the expected path. Classify on stderr only.
	res, err := e.runner.RunResult(ctx, "cherry-pick", "--strategy=recursive", commitRef)
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Stdout: res.Stdout, Stderr: res.Stderr, ExitCode: res.ExitCode}
	switch {
	case strings.Contains(res.Stderr, unresolvedConflictMarker):
		if err := e.commitUnresolved(ctx); err != nil {
			return Outcome{}, err
		}
		outcome.Kind = OutcomeConflict
		return outcome, nil
	case strings.Contains(res.Stderr, emptyCommitMarker):
		outcome.Kind = OutcomeEmpty
		return outcome, nil
	case res.ExitCode == 0:
		outcome.Kind = OutcomeClean
		return outcome, nil
	default:
		return Outcome{}, fmt.Errorf("%s", res.Stderr)
	}
}

// commitUnresolved stages everything, conflict markers included, and commits
// with the fixed message.
func (e *Engine) commitUnresolved(ctx context.Context) error {
	if _, err := e.runner.Run(ctx, "add", "-A"); err != nil {
		return fmt.Errorf("failed to stage conflicted files: %w", err)
	}
	if _, err := e.runner.Run(ctx, "commit", "-m", ConflictCommitMessage); err != nil {
		return fmt.Errorf("failed to commit conflicted files: %w", err)
	}
	return nil
}
