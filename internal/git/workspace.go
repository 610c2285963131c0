package git

import (
	"context"
	"fmt"
	"strings"
)

// Identity is a git author/committer identity.
type Identity struct {
	Name  string
	Email string
}

// ParseIdentity parses an identity string of the form "Name <email>".
func ParseIdentity(s string) (Identity, error) {
	open := strings.LastIndex(s, "<")
	end := strings.LastIndex(s, ">")
	if open < 1 || end < open {
		return Identity{}, fmt.Errorf("invalid identity %q, expected \"Name <email>\"", s)
	}

	name := strings.TrimSpace(s[:open])
	email := strings.TrimSpace(s[open+1 : end])
	if name == "" || email == "" {
		return Identity{}, fmt.Errorf("invalid identity %q, expected \"Name <email>\"", s)
	}

	return Identity{Name: name, Email: email}, nil
}

func (i Identity) String() string {
	return fmt.Sprintf("%s <%s>", i.Name, i.Email)
}

// Workspace performs the stateful git operations of one run. All calls
// mutate a single working directory and index, so callers must never
// interleave operations for different branches.
type Workspace struct {
	runner Runner
}

// NewWorkspace creates a Workspace on top of a runner.
func NewWorkspace(runner Runner) *Workspace {
	return &Workspace{runner: runner}
}

// ConfigureIdentity sets the committer and author identity for the workspace.
// Applied once per run, before any branch work.
func (w *Workspace) ConfigureIdentity(ctx context.Context, committer, author Identity) error {
	type setting struct{ key, value string }
	settings := []setting{
		{"user.name", committer.Name},
		{"user.email", committer.Email},
		{"author.name", author.Name},
		{"author.email", author.Email},
	}
	for _, s := range settings {
		if _, err := w.runner.Run(ctx, "config", "--local", s.key, s.value); err != nil {
			return fmt.Errorf("failed to configure %s: %w", s.key, err)
		}
	}
	return nil
}

// SyncRemotes refreshes all remote references so branch listing sees
// up-to-date state.
func (w *Workspace) SyncRemotes(ctx context.Context) error {
	if _, err := w.runner.Run(ctx, "fetch", "--all"); err != nil {
		return fmt.Errorf("failed to fetch remotes: %w", err)
	}
	return nil
}

// CreateBranchFromRemote creates and checks out a new local branch from the
// remote tip of targetBranch.
func (w *Workspace) CreateBranchFromRemote(ctx context.Context, branchName, targetBranch string) error {
	_, err := w.runner.Run(ctx, "checkout", "-b", branchName, "origin/"+targetBranch)
	if err != nil {
		return fmt.Errorf("failed to create branch %s from origin/%s: %w", branchName, targetBranch, err)
	}
	return nil
}

// Push pushes a branch to origin, force-pushing when force is set
func (w *Workspace) Push(ctx context.Context, branchName string, force bool) error {
	args := []string{"push", "-u", "origin", branchName}
	if force {
		args = append(args, "--force")
	}

	if _, err := w.runner.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to push branch %s: %w", branchName, err)
	}
	return nil
}
