// Package orchestrator drives the end-to-end cherry-pick fan-out pipeline.
package orchestrator

import (
	"context"
	"fmt"

	"repick.dev/repick/internal/config"
	"repick.dev/repick/internal/git"
	"repick.dev/repick/internal/output"
	"repick.dev/repick/internal/platform"
	"repick.dev/repick/internal/publish"
)

// ConflictLabel is added to the iteration's label set when a cherry-pick
// leaves unresolved conflicts.
const ConflictLabel = "conflict"

// Workspace is the stateful git surface the pipeline mutates.
type Workspace interface {
	ConfigureIdentity(ctx context.Context, committer, author git.Identity) error
	SyncRemotes(ctx context.Context) error
	CreateBranchFromRemote(ctx context.Context, branchName, targetBranch string) error
	Push(ctx context.Context, branchName string, force bool) error
}

// Catalog selects fan-out target branches.
type Catalog interface {
	SelectNewerBranches(ctx context.Context, pattern, reference string) ([]string, error)
}

// Engine applies the commit onto the current workspace.
type Engine interface {
	Apply(ctx context.Context, strategy git.Strategy, commitRef string) (git.Outcome, error)
}

// Publisher turns a finalized per-branch request into a created change request.
type Publisher interface {
	Publish(ctx context.Context, req publish.Request) (*platform.ChangeRequest, error)
}

// Status classifies one branch's pipeline result in the run summary.
type Status string

const (
	StatusCreated Status = "created"
	StatusSkipped Status = "skipped" // cherry-pick was empty, nothing to publish
	StatusDryRun  Status = "dry-run"
	StatusFailed  Status = "failed"
)

// BranchResult is one branch's entry in the run summary.
type BranchResult struct {
	Branch   string
	PRBranch string
	Status   Status
	URL      string
	Err      error
}

// Summary reports what the run did, including work completed before an
// aborting failure.
type Summary struct {
	Results []BranchResult
}

// Orchestrator runs the per-branch pipeline strictly sequentially: all
// branch iterations share one working directory and index, so two
// iterations must never interleave.
type Orchestrator struct {
	cfg       config.Config
	trigger   config.TriggerContext
	workspace Workspace
	catalog   Catalog
	engine    Engine
	publisher Publisher
	splog     *output.Splog

	// ConfirmTargets, when set, narrows the selected target list before the
	// per-branch pipeline starts. Used for interactive confirmation.
	ConfirmTargets func(targets []string) ([]string, error)
}

// New creates an Orchestrator with injected collaborators.
func New(cfg config.Config, trigger config.TriggerContext, workspace Workspace, catalog Catalog, engine Engine, publisher Publisher, splog *output.Splog) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		trigger:   trigger,
		workspace: workspace,
		catalog:   catalog,
		engine:    engine,
		publisher: publisher,
		splog:     splog,
	}
}

// iterationState is the branch-scoped mutable state of one iteration. It is
// rebuilt from the original config values for every branch; mutations never
// carry over to the next iteration.
type iterationState struct {
	labels []string
	draft  bool
}

func (o *Orchestrator) freshIterationState() iterationState {
	return iterationState{
		labels: append([]string(nil), o.cfg.Labels...),
		draft:  o.cfg.Draft,
	}
}

// selectTargets resolves the list of target branches. An empty result is
// not an error; the run ends with no publishes.
func (o *Orchestrator) selectTargets(ctx context.Context) ([]string, error) {
	if !o.cfg.FanOut {
		return []string{o.cfg.Branch}, nil
	}

	targets, err := o.catalog.SelectNewerBranches(ctx, o.cfg.Branch, o.trigger.BaseBranch)
	if err != nil {
		return nil, fmt.Errorf("failed to select fan-out targets: %w", err)
	}
	return targets, nil
}

// Run executes the full pipeline: identity setup, remote sync, target
// selection, then the per-branch loop. The returned summary is valid even
// when err is non-nil: a fatal error in one branch aborts the remaining
// branches, and the summary records everything that completed before it.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	committer, err := git.ParseIdentity(o.cfg.Committer)
	if err != nil {
		return summary, err
	}
	author, err := git.ParseIdentity(o.cfg.Author)
	if err != nil {
		return summary, err
	}
	if err := o.workspace.ConfigureIdentity(ctx, committer, author); err != nil {
		return summary, err
	}

	if err := o.workspace.SyncRemotes(ctx); err != nil {
		return summary, err
	}

	targets, err := o.selectTargets(ctx)
	if err != nil {
		return summary, err
	}
	if o.ConfirmTargets != nil && len(targets) > 0 {
		targets, err = o.ConfirmTargets(targets)
		if err != nil {
			return summary, err
		}
	}

	if len(targets) == 0 {
		o.splog.Info("No target branches, nothing to do.")
		return summary, nil
	}

	for _, branch := range targets {
		result := o.runBranch(ctx, branch)
		summary.Results = append(summary.Results, result)
		if result.Err != nil {
			return summary, fmt.Errorf("branch %s: %w", branch, result.Err)
		}
	}
	return summary, nil
}

func (o *Orchestrator) runBranch(ctx context.Context, branch string) BranchResult {
	prBranch := o.prBranchName(branch)
	result := BranchResult{Branch: branch, PRBranch: prBranch}
	state := o.freshIterationState()

	o.splog.Info("Cherry-picking %s onto %s", o.trigger.CommitSHA, output.BranchStyle().Render(branch))

	if err := o.workspace.CreateBranchFromRemote(ctx, prBranch, branch); err != nil {
		result.Status = StatusFailed
		result.Err = err
		return result
	}

	outcome, err := o.engine.Apply(ctx, o.strategy(), o.trigger.CommitSHA)
	if err != nil {
		result.Status = StatusFailed
		result.Err = err
		return result
	}

	switch outcome.Kind {
	case git.OutcomeEmpty:
		o.splog.Info("Nothing to cherry-pick onto %s, skipping.", branch)
		result.Status = StatusSkipped
		return result
	case git.OutcomeConflict:
		o.splog.Warn("Conflicts committed unresolved on %s, opening as draft.", prBranch)
		state.labels = append(state.labels, ConflictLabel)
		state.draft = true
	}

	if o.cfg.DryRun {
		o.splog.Info("Dry run: would push %s and open a change request against %s.", prBranch, branch)
		result.Status = StatusDryRun
		return result
	}

	if err := o.workspace.Push(ctx, prBranch, o.cfg.Force); err != nil {
		result.Status = StatusFailed
		result.Err = err
		return result
	}

	created, err := o.publisher.Publish(ctx, publish.Request{
		HeadBranch:    prBranch,
		BaseBranch:    branch,
		TitleTemplate: o.cfg.Title,
		BodyTemplate:  o.cfg.Body,
		Labels:        state.labels,
		Assignees:     o.cfg.Assignees,
		Reviewers:     o.cfg.Reviewers,
		TeamReviewers: o.cfg.TeamReviewers,
		Draft:         state.draft,
		InheritLabels: o.cfg.InheritLabels,
		Trigger: publish.TriggerChange{
			Number: o.trigger.Number,
			Title:  o.trigger.Title,
			Body:   o.trigger.Body,
			Labels: o.trigger.Labels,
		},
	})
	if err != nil {
		result.Status = StatusFailed
		result.Err = err
		return result
	}

	result.Status = StatusCreated
	result.URL = created.URL
	return result
}

func (o *Orchestrator) strategy() git.Strategy {
	if o.cfg.LeaveConflictsUnresolved {
		return git.StrategyLeaveUnresolved
	}
	return git.StrategyAutoTheirs
}

func (o *Orchestrator) prBranchName(branch string) string {
	if o.cfg.CherryPickBranch != "" {
		return o.cfg.CherryPickBranch
	}
	return fmt.Sprintf("cherry-pick-%s-%s", branch, o.trigger.CommitSHA)
}
