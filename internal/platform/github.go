package platform

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	repickerrors "repick.dev/repick/internal/errors"
)

// githubSelfReviewMarker is the fragment GitHub returns when a review is
// requested from the pull request's own author.
const githubSelfReviewMarker = "Review cannot be requested from pull request author"

// GitHubProvider implements Provider using the GitHub REST API.
type GitHubProvider struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGitHubProvider creates a GitHubProvider authenticated from GITHUB_TOKEN.
func NewGitHubProvider(ctx context.Context, owner, repo string) (*GitHubProvider, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable is required")
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &GitHubProvider{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
	}, nil
}

// CreateChangeRequest creates a new pull request
func (p *GitHubProvider) CreateChangeRequest(ctx context.Context, params CreateParams) (*ChangeRequest, error) {
	pr := &github.NewPullRequest{
		Title: github.String(params.Title),
		Head:  github.String(params.Head),
		Base:  github.String(params.Base),
		Draft: github.Bool(params.Draft),
	}
	if params.Body != "" {
		pr.Body = github.String(params.Body)
	}

	created, _, err := p.client.PullRequests.Create(ctx, p.owner, p.repo, pr)
	if err != nil {
		return nil, repickerrors.NewHostAPIError("create pull request", err)
	}

	return &ChangeRequest{
		Number: created.GetNumber(),
		URL:    created.GetHTMLURL(),
	}, nil
}

// AddLabels adds labels to a pull request
func (p *GitHubProvider) AddLabels(ctx context.Context, number int, labels []string) error {
	_, _, err := p.client.Issues.AddLabelsToIssue(ctx, p.owner, p.repo, number, labels)
	if err != nil {
		return repickerrors.NewHostAPIError("add labels", err)
	}
	return nil
}

// AddAssignees assigns users to a pull request
func (p *GitHubProvider) AddAssignees(ctx context.Context, number int, assignees []string) error {
	_, _, err := p.client.Issues.AddAssignees(ctx, p.owner, p.repo, number, assignees)
	if err != nil {
		return repickerrors.NewHostAPIError("add assignees", err)
	}
	return nil
}

// RequestReviewers requests reviews from individual users
func (p *GitHubProvider) RequestReviewers(ctx context.Context, number int, reviewers []string) error {
	_, _, err := p.client.PullRequests.RequestReviewers(ctx, p.owner, p.repo, number, github.ReviewersRequest{
		Reviewers: reviewers,
	})
	if err != nil {
		if strings.Contains(err.Error(), githubSelfReviewMarker) {
			return fmt.Errorf("%w: %w", ErrSelfReview, err)
		}
		return repickerrors.NewHostAPIError("request reviewers", err)
	}
	return nil
}

// RequestTeamReviewers requests reviews from teams
func (p *GitHubProvider) RequestTeamReviewers(ctx context.Context, number int, teams []string) error {
	_, _, err := p.client.PullRequests.RequestReviewers(ctx, p.owner, p.repo, number, github.ReviewersRequest{
		TeamReviewers: teams,
	})
	if err != nil {
		return repickerrors.NewHostAPIError("request team reviewers", err)
	}
	return nil
}

// Name returns "GitHub"
func (p *GitHubProvider) Name() string {
	return "GitHub"
}

// Compile-time interface check.
var _ Provider = (*GitHubProvider)(nil)
