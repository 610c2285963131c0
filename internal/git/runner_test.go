package git_test

import (
	"context"
	"strings"

	repickerrors "repick.dev/repick/internal/errors"
	"repick.dev/repick/internal/git"
)

// fakeRunner is a scripted git.Runner recording every invocation. Responses
// are keyed by the space-joined argument list; unknown commands succeed with
// empty output.
type fakeRunner struct {
	calls   [][]string
	results map[string]git.Result
	errs    map[string]error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		results: make(map[string]git.Result),
		errs:    make(map[string]error),
	}
}

func (f *fakeRunner) script(args string, res git.Result) {
	f.results[args] = res
}

func (f *fakeRunner) RunResult(_ context.Context, args ...string) (git.Result, error) {
	f.calls = append(f.calls, args)
	key := strings.Join(args, " ")
	if err, ok := f.errs[key]; ok {
		return git.Result{}, err
	}
	return f.results[key], nil
}

func (f *fakeRunner) Run(ctx context.Context, args ...string) (string, error) {
	res, err := f.RunResult(ctx, args...)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", repickerrors.NewGitCommandError("git", args, res.Stdout, res.Stderr, res.ExitCode, nil)
	}
	return strings.TrimSpace(res.Stdout), nil
}

// commands returns the space-joined argument list of every call
func (f *fakeRunner) commands() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = strings.Join(c, " ")
	}
	return out
}
