package platform

import (
	"context"
	"fmt"
	"os"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	repickerrors "repick.dev/repick/internal/errors"
)

// GitLabProvider implements Provider using the GitLab API. Change request
// numbers are merge request IIDs.
type GitLabProvider struct {
	client    *gitlab.Client
	projectID string
}

// NewGitLabProvider creates a GitLabProvider authenticated from GITLAB_TOKEN.
// GITLAB_HOST selects a self-hosted instance.
func NewGitLabProvider(owner, repo string) (*GitLabProvider, error) {
	token := os.Getenv("GITLAB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITLAB_TOKEN environment variable is required")
	}

	var opts []gitlab.ClientOptionFunc
	if host := os.Getenv("GITLAB_HOST"); host != "" {
		opts = append(opts, gitlab.WithBaseURL("https://"+host))
	}

	client, err := gitlab.NewClient(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}

	return &GitLabProvider{
		client:    client,
		projectID: owner + "/" + repo,
	}, nil
}

// CreateChangeRequest creates a new merge request. GitLab has no draft flag
// on creation; draft is expressed through the title prefix.
func (p *GitLabProvider) CreateChangeRequest(ctx context.Context, params CreateParams) (*ChangeRequest, error) {
	title := params.Title
	if params.Draft {
		title = "Draft: " + title
	}

	mr, _, err := p.client.MergeRequests.CreateMergeRequest(p.projectID, &gitlab.CreateMergeRequestOptions{
		Title:        gitlab.Ptr(title),
		Description:  gitlab.Ptr(params.Body),
		SourceBranch: gitlab.Ptr(params.Head),
		TargetBranch: gitlab.Ptr(params.Base),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, repickerrors.NewHostAPIError("create merge request", err)
	}

	return &ChangeRequest{
		Number: mr.IID,
		URL:    mr.WebURL,
	}, nil
}

// AddLabels adds labels to a merge request
func (p *GitLabProvider) AddLabels(ctx context.Context, number int, labels []string) error {
	addLabels := gitlab.LabelOptions(labels)
	_, _, err := p.client.MergeRequests.UpdateMergeRequest(p.projectID, number, &gitlab.UpdateMergeRequestOptions{
		AddLabels: &addLabels,
	}, gitlab.WithContext(ctx))
	if err != nil {
		return repickerrors.NewHostAPIError("add labels", err)
	}
	return nil
}

// AddAssignees assigns users to a merge request by username
func (p *GitLabProvider) AddAssignees(ctx context.Context, number int, assignees []string) error {
	ids, err := p.userIDs(ctx, assignees)
	if err != nil {
		return repickerrors.NewHostAPIError("add assignees", err)
	}

	_, _, err = p.client.MergeRequests.UpdateMergeRequest(p.projectID, number, &gitlab.UpdateMergeRequestOptions{
		AssigneeIDs: &ids,
	}, gitlab.WithContext(ctx))
	if err != nil {
		return repickerrors.NewHostAPIError("add assignees", err)
	}
	return nil
}

// RequestReviewers requests reviews from individual users by username
func (p *GitLabProvider) RequestReviewers(ctx context.Context, number int, reviewers []string) error {
	ids, err := p.userIDs(ctx, reviewers)
	if err != nil {
		return repickerrors.NewHostAPIError("request reviewers", err)
	}

	_, _, err = p.client.MergeRequests.UpdateMergeRequest(p.projectID, number, &gitlab.UpdateMergeRequestOptions{
		ReviewerIDs: &ids,
	}, gitlab.WithContext(ctx))
	if err != nil {
		return repickerrors.NewHostAPIError("request reviewers", err)
	}
	return nil
}

// RequestTeamReviewers is a no-op: GitLab has no team review requests.
func (p *GitLabProvider) RequestTeamReviewers(_ context.Context, _ int, _ []string) error {
	return nil
}

// Name returns "GitLab"
func (p *GitLabProvider) Name() string {
	return "GitLab"
}

func (p *GitLabProvider) userIDs(ctx context.Context, usernames []string) ([]int, error) {
	ids := make([]int, 0, len(usernames))
	for _, username := range usernames {
		users, _, err := p.client.Users.ListUsers(&gitlab.ListUsersOptions{
			Username: gitlab.Ptr(username),
		}, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to look up user %s: %w", username, err)
		}
		if len(users) == 0 {
			return nil, fmt.Errorf("user %s not found", username)
		}
		ids = append(ids, users[0].ID)
	}
	return ids, nil
}

// Compile-time interface check.
var _ Provider = (*GitLabProvider)(nil)
