package orchestrator_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"repick.dev/repick/internal/config"
	"repick.dev/repick/internal/git"
	"repick.dev/repick/internal/orchestrator"
	"repick.dev/repick/internal/output"
	"repick.dev/repick/internal/platform"
	"repick.dev/repick/internal/publish"
)

type mockWorkspace struct {
	steps      *[]string
	pushErr    error
	createErr  error
	identities []git.Identity
}

func (m *mockWorkspace) ConfigureIdentity(_ context.Context, committer, author git.Identity) error {
	*m.steps = append(*m.steps, "identity")
	m.identities = []git.Identity{committer, author}
	return nil
}

func (m *mockWorkspace) SyncRemotes(_ context.Context) error {
	*m.steps = append(*m.steps, "sync")
	return nil
}

func (m *mockWorkspace) CreateBranchFromRemote(_ context.Context, branchName, targetBranch string) error {
	*m.steps = append(*m.steps, fmt.Sprintf("create %s from %s", branchName, targetBranch))
	return m.createErr
}

func (m *mockWorkspace) Push(_ context.Context, branchName string, force bool) error {
	*m.steps = append(*m.steps, fmt.Sprintf("push %s force=%t", branchName, force))
	return m.pushErr
}

type mockCatalog struct {
	steps    *[]string
	branches []string
	err      error
}

func (m *mockCatalog) SelectNewerBranches(_ context.Context, pattern, reference string) ([]string, error) {
	*m.steps = append(*m.steps, fmt.Sprintf("select %s newer than %s", pattern, reference))
	return m.branches, m.err
}

type mockEngine struct {
	steps    *[]string
	perCall  []git.Outcome
	errs     []error
	calls    int
	strategy git.Strategy
}

func (m *mockEngine) Apply(_ context.Context, strategy git.Strategy, commitRef string) (git.Outcome, error) {
	*m.steps = append(*m.steps, fmt.Sprintf("apply %s", commitRef))
	m.strategy = strategy
	i := m.calls
	m.calls++
	if i < len(m.errs) && m.errs[i] != nil {
		return git.Outcome{}, m.errs[i]
	}
	if i < len(m.perCall) {
		return m.perCall[i], nil
	}
	return git.Outcome{Kind: git.OutcomeClean}, nil
}

type mockPublisher struct {
	steps    *[]string
	requests []publish.Request
	err      error
}

func (m *mockPublisher) Publish(_ context.Context, req publish.Request) (*platform.ChangeRequest, error) {
	*m.steps = append(*m.steps, fmt.Sprintf("publish %s -> %s", req.HeadBranch, req.BaseBranch))
	if m.err != nil {
		return nil, m.err
	}
	m.requests = append(m.requests, req)
	return &platform.ChangeRequest{Number: 100 + len(m.requests), URL: "https://example.com/pr"}, nil
}

func testConfig() config.Config {
	return config.Config{
		Committer: "CI Bot <ci@example.com>",
		Author:    "Jane Doe <jane@example.com>",
		Branch:    "release/1.1.0",
		Labels:    []string{"backport"},
	}
}

func testTrigger() config.TriggerContext {
	return config.TriggerContext{
		CommitSHA:  "abc1234",
		Number:     42,
		Title:      "fix: close leaked sockets",
		Body:       "original body",
		BaseBranch: "release/1.0.0",
		Labels:     []string{"bug"},
	}
}

type fixture struct {
	steps     []string
	workspace *mockWorkspace
	catalog   *mockCatalog
	engine    *mockEngine
	publisher *mockPublisher
}

func newFixture() *fixture {
	f := &fixture{}
	f.workspace = &mockWorkspace{steps: &f.steps}
	f.catalog = &mockCatalog{steps: &f.steps}
	f.engine = &mockEngine{steps: &f.steps}
	f.publisher = &mockPublisher{steps: &f.steps}
	return f
}

func (f *fixture) orchestrator(cfg config.Config, trigger config.TriggerContext) *orchestrator.Orchestrator {
	return orchestrator.New(cfg, trigger, f.workspace, f.catalog, f.engine, f.publisher, output.NewSplog(false))
}

func TestRunSingleBranch(t *testing.T) {
	t.Run("runs the pipeline in order for the configured branch", func(t *testing.T) {
		f := newFixture()
		orch := f.orchestrator(testConfig(), testTrigger())

		summary, err := orch.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, []string{
			"identity",
			"sync",
			"create cherry-pick-release/1.1.0-abc1234 from release/1.1.0",
			"apply abc1234",
			"push cherry-pick-release/1.1.0-abc1234 force=false",
			"publish cherry-pick-release/1.1.0-abc1234 -> release/1.1.0",
		}, f.steps)
		require.Len(t, summary.Results, 1)
		require.Equal(t, orchestrator.StatusCreated, summary.Results[0].Status)
	})

	t.Run("applies the configured identities once", func(t *testing.T) {
		f := newFixture()
		orch := f.orchestrator(testConfig(), testTrigger())

		_, err := orch.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, []git.Identity{
			{Name: "CI Bot", Email: "ci@example.com"},
			{Name: "Jane Doe", Email: "jane@example.com"},
		}, f.workspace.identities)
	})

	t.Run("uses the branch name override when configured", func(t *testing.T) {
		f := newFixture()
		cfg := testConfig()
		cfg.CherryPickBranch = "backport-42"
		orch := f.orchestrator(cfg, testTrigger())

		_, err := orch.Run(context.Background())
		require.NoError(t, err)
		require.Contains(t, f.steps, "create backport-42 from release/1.1.0")
	})

	t.Run("selects the strategy from the config flag", func(t *testing.T) {
		f := newFixture()
		cfg := testConfig()
		cfg.LeaveConflictsUnresolved = true
		orch := f.orchestrator(cfg, testTrigger())

		_, err := orch.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, git.StrategyLeaveUnresolved, f.engine.strategy)
	})

	t.Run("force flag reaches the push", func(t *testing.T) {
		f := newFixture()
		cfg := testConfig()
		cfg.Force = true
		orch := f.orchestrator(cfg, testTrigger())

		_, err := orch.Run(context.Background())
		require.NoError(t, err)
		require.Contains(t, f.steps, "push cherry-pick-release/1.1.0-abc1234 force=true")
	})
}

func TestRunFanOut(t *testing.T) {
	fanOutConfig := func() config.Config {
		cfg := testConfig()
		cfg.Branch = "release"
		cfg.FanOut = true
		return cfg
	}

	t.Run("selects newer branches against the trigger's base", func(t *testing.T) {
		f := newFixture()
		f.catalog.branches = []string{"release/1.1.0", "release/1.1.1"}
		orch := f.orchestrator(fanOutConfig(), testTrigger())

		summary, err := orch.Run(context.Background())
		require.NoError(t, err)
		require.Contains(t, f.steps, "select release newer than release/1.0.0")
		require.Len(t, summary.Results, 2)
		require.Equal(t, "release/1.1.0", summary.Results[0].Branch)
		require.Equal(t, "release/1.1.1", summary.Results[1].Branch)
	})

	t.Run("empty selection ends the run without error", func(t *testing.T) {
		f := newFixture()
		f.catalog.branches = nil
		orch := f.orchestrator(fanOutConfig(), testTrigger())

		summary, err := orch.Run(context.Background())
		require.NoError(t, err)
		require.Empty(t, summary.Results)
		require.Empty(t, f.publisher.requests)
	})

	t.Run("iteration state never leaks between branches", func(t *testing.T) {
		f := newFixture()
		f.catalog.branches = []string{"release/1.1.0", "release/1.1.1"}
		// First branch conflicts, second is clean.
		f.engine.perCall = []git.Outcome{
			{Kind: git.OutcomeConflict},
			{Kind: git.OutcomeClean},
		}
		orch := f.orchestrator(fanOutConfig(), testTrigger())

		_, err := orch.Run(context.Background())
		require.NoError(t, err)
		require.Len(t, f.publisher.requests, 2)

		conflicted := f.publisher.requests[0]
		require.Equal(t, []string{"backport", "conflict"}, conflicted.Labels)
		require.True(t, conflicted.Draft)

		clean := f.publisher.requests[1]
		require.Equal(t, []string{"backport"}, clean.Labels)
		require.False(t, clean.Draft)
	})

	t.Run("a fatal error aborts remaining branches and keeps completed work in the summary", func(t *testing.T) {
		f := newFixture()
		f.catalog.branches = []string{"release/1.1.0", "release/1.1.1", "release/2.0.0"}
		f.engine.errs = []error{nil, errors.New("Unexpected error: boom")}
		orch := f.orchestrator(fanOutConfig(), testTrigger())

		summary, err := orch.Run(context.Background())
		require.Error(t, err)
		require.Len(t, summary.Results, 2)
		require.Equal(t, orchestrator.StatusCreated, summary.Results[0].Status)
		require.Equal(t, orchestrator.StatusFailed, summary.Results[1].Status)
		// The third branch was never attempted.
		require.NotContains(t, f.steps, "create cherry-pick-release/2.0.0-abc1234 from release/2.0.0")
	})

	t.Run("confirm hook narrows the targets", func(t *testing.T) {
		f := newFixture()
		f.catalog.branches = []string{"release/1.1.0", "release/1.1.1"}
		orch := f.orchestrator(fanOutConfig(), testTrigger())
		orch.ConfirmTargets = func(targets []string) ([]string, error) {
			return targets[1:], nil
		}

		summary, err := orch.Run(context.Background())
		require.NoError(t, err)
		require.Len(t, summary.Results, 1)
		require.Equal(t, "release/1.1.1", summary.Results[0].Branch)
	})
}

func TestRunOutcomes(t *testing.T) {
	t.Run("empty outcome skips push and publish but continues the run", func(t *testing.T) {
		f := newFixture()
		f.engine.perCall = []git.Outcome{{Kind: git.OutcomeEmpty}}
		orch := f.orchestrator(testConfig(), testTrigger())

		summary, err := orch.Run(context.Background())
		require.NoError(t, err)
		require.Len(t, summary.Results, 1)
		require.Equal(t, orchestrator.StatusSkipped, summary.Results[0].Status)
		require.Empty(t, f.publisher.requests)
		require.NotContains(t, f.steps, "push cherry-pick-release/1.1.0-abc1234 force=false")
	})

	t.Run("conflict outcome publishes a draft with the conflict label", func(t *testing.T) {
		f := newFixture()
		f.engine.perCall = []git.Outcome{{Kind: git.OutcomeConflict}}
		orch := f.orchestrator(testConfig(), testTrigger())

		_, err := orch.Run(context.Background())
		require.NoError(t, err)
		require.Len(t, f.publisher.requests, 1)
		require.True(t, f.publisher.requests[0].Draft)
		require.Contains(t, f.publisher.requests[0].Labels, orchestrator.ConflictLabel)
	})

	t.Run("dry run stops before push and publish", func(t *testing.T) {
		f := newFixture()
		cfg := testConfig()
		cfg.DryRun = true
		orch := f.orchestrator(cfg, testTrigger())

		summary, err := orch.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, orchestrator.StatusDryRun, summary.Results[0].Status)
		require.Empty(t, f.publisher.requests)
	})

	t.Run("publish failures are fatal", func(t *testing.T) {
		f := newFixture()
		f.publisher.err = errors.New("422 validation failed")
		orch := f.orchestrator(testConfig(), testTrigger())

		summary, err := orch.Run(context.Background())
		require.Error(t, err)
		require.Equal(t, orchestrator.StatusFailed, summary.Results[0].Status)
	})

	t.Run("trigger metadata is forwarded to the publisher", func(t *testing.T) {
		f := newFixture()
		orch := f.orchestrator(testConfig(), testTrigger())

		_, err := orch.Run(context.Background())
		require.NoError(t, err)
		req := f.publisher.requests[0]
		require.Equal(t, 42, req.Trigger.Number)
		require.Equal(t, "fix: close leaked sockets", req.Trigger.Title)
		require.Equal(t, []string{"bug"}, req.Trigger.Labels)
	})
}

func TestRunInvalidIdentity(t *testing.T) {
	f := newFixture()
	cfg := testConfig()
	cfg.Committer = "not-an-identity"
	orch := f.orchestrator(cfg, testTrigger())

	_, err := orch.Run(context.Background())
	require.Error(t, err)
	require.Empty(t, f.steps)
}
