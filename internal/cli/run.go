package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"repick.dev/repick/internal/config"
	"repick.dev/repick/internal/git"
	"repick.dev/repick/internal/orchestrator"
	"repick.dev/repick/internal/output"
	"repick.dev/repick/internal/platform"
	"repick.dev/repick/internal/publish"
)

func newRunCmd() *cobra.Command {
	cfg := config.FromEnvironment()
	var debug bool
	var labels, assignees, reviewers, teamReviewers string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Cherry-pick the triggering change onto target branches and open change requests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if labels != "" {
				cfg.Labels = config.SplitList(labels)
			}
			if assignees != "" {
				cfg.Assignees = config.SplitList(assignees)
			}
			if reviewers != "" {
				cfg.Reviewers = config.SplitList(reviewers)
			}
			if teamReviewers != "" {
				cfg.TeamReviewers = config.SplitList(teamReviewers)
			}
			return runAction(cfg, debug)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Committer, "committer", cfg.Committer, "committer identity as \"Name <email>\"")
	flags.StringVar(&cfg.Author, "author", cfg.Author, "author identity as \"Name <email>\"")
	flags.StringVar(&cfg.Branch, "branch", cfg.Branch, "target branch, or branch pattern with --fan-out")
	flags.StringVar(&cfg.CherryPickBranch, "cherry-pick-branch", cfg.CherryPickBranch, "override the synthesized PR branch name")
	flags.StringVar(&cfg.Title, "title", cfg.Title, "title template; empty reuses the original title")
	flags.StringVar(&cfg.Body, "body", cfg.Body, "body template; empty reuses the original body")
	flags.StringVar(&labels, "labels", "", "comma-separated labels for the new change request")
	flags.StringVar(&assignees, "assignees", "", "comma-separated assignees")
	flags.StringVar(&reviewers, "reviewers", "", "comma-separated reviewers")
	flags.StringVar(&teamReviewers, "team-reviewers", "", "comma-separated team reviewers")
	flags.BoolVar(&cfg.Force, "force", cfg.Force, "force-push the PR branch")
	flags.BoolVar(&cfg.InheritLabels, "inherit-labels", cfg.InheritLabels, "copy the original change's labels onto the new change request")
	flags.BoolVar(&cfg.LeaveConflictsUnresolved, "leave-conflicts-unresolved", cfg.LeaveConflictsUnresolved, "commit conflicts unresolved instead of auto-resolving with theirs")
	flags.BoolVar(&cfg.FanOut, "fan-out", cfg.FanOut, "cherry-pick onto every matching branch newer than the original base")
	flags.BoolVar(&cfg.Draft, "draft", cfg.Draft, "open change requests as drafts")
	flags.BoolVar(&cfg.DryRun, "dry-run", false, "walk the pipeline without pushing or publishing")
	flags.BoolVar(&cfg.Interactive, "interactive", false, "confirm target branches interactively")
	flags.BoolVar(&debug, "debug", false, "enable debug output")

	return cmd
}

func runAction(cfg config.Config, debug bool) error {
	splog := output.NewSplog(debug)
	ctx := context.Background()

	repoRoot, err := git.GetRepoRoot()
	if err != nil {
		return err
	}
	if err := cfg.ApplyDefaultsFile(repoRoot); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	trigger, err := config.TriggerFromEnvironment()
	if err != nil {
		return err
	}

	runner := git.NewCommandRunner(repoRoot)
	workspace := git.NewWorkspace(runner)
	catalog := git.NewCatalog(runner, splog)
	engine := git.NewEngine(runner)

	// Dry runs never reach the publish step, so they work without a host
	// token or a recognized remote.
	var publisher orchestrator.Publisher
	if !cfg.DryRun {
		remoteURL, err := git.GetOriginURL(repoRoot)
		if err != nil {
			return err
		}
		hostPlatform, err := git.DetectPlatform(remoteURL)
		if err != nil {
			return err
		}
		owner, repo, err := git.ParseOwnerRepo(remoteURL)
		if err != nil {
			return err
		}

		provider, err := platform.NewProvider(ctx, hostPlatform, owner, repo)
		if err != nil {
			return err
		}
		publisher = publish.NewPublisher(provider, splog)
	}

	orch := orchestrator.New(cfg, trigger, workspace, catalog, engine, publisher, splog)
	if cfg.Interactive {
		orch.ConfirmTargets = confirmTargets
	}

	summary, runErr := orch.Run(ctx)
	printSummary(splog, summary)
	return runErr
}

func printSummary(splog *output.Splog, summary *orchestrator.Summary) {
	if len(summary.Results) == 0 {
		return
	}

	splog.Newline()
	for _, r := range summary.Results {
		switch r.Status {
		case orchestrator.StatusCreated:
			splog.Info("%s %s → %s", output.OkStyle().Render("✓"), output.BranchStyle().Render(r.Branch), r.URL)
		case orchestrator.StatusSkipped:
			splog.Info("- %s: nothing to cherry-pick", output.BranchStyle().Render(r.Branch))
		case orchestrator.StatusDryRun:
			splog.Info("- %s: dry run, no change request created", output.BranchStyle().Render(r.Branch))
		case orchestrator.StatusFailed:
			splog.Error("%s: %s", output.BranchStyle().Render(r.Branch), strings.TrimSpace(fmt.Sprint(r.Err)))
		}
	}
}
