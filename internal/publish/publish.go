// Package publish turns a finalized per-branch request into a created
// change request on the hosting service.
package publish

import (
	"context"
	"errors"

	"repick.dev/repick/internal/output"
	"repick.dev/repick/internal/platform"
	"repick.dev/repick/internal/template"
)

// TriggerChange is the read-only metadata of the change the run was
// triggered by.
type TriggerChange struct {
	Number int
	Title  string
	Body   string
	Labels []string
}

// Request is the finalized per-branch payload.
type Request struct {
	// HeadBranch is the pushed PR branch holding the cherry-picked commit;
	// BaseBranch is the target branch the change request is opened against.
	HeadBranch string
	BaseBranch string

	// TitleTemplate and BodyTemplate may reference the documented
	// placeholders; empty templates reuse the trigger's values.
	TitleTemplate string
	BodyTemplate  string

	Labels        []string
	Assignees     []string
	Reviewers     []string
	TeamReviewers []string
	Draft         bool

	// InheritLabels unions the trigger's labels into the outgoing set,
	// excluding any label equal to BaseBranch.
	InheritLabels bool

	Trigger TriggerChange
}

// Publisher creates change requests through a platform provider. Label,
// assignee and reviewer calls are independent follow-ups; partial success
// is possible and not rolled back.
type Publisher struct {
	provider platform.Provider
	splog    *output.Splog
}

// NewPublisher creates a Publisher.
func NewPublisher(provider platform.Provider, splog *output.Splog) *Publisher {
	return &Publisher{provider: provider, splog: splog}
}

// Publish creates the change request and applies its annotations.
func (p *Publisher) Publish(ctx context.Context, req Request) (*platform.ChangeRequest, error) {
	vars := template.Values{
		OldTitle:     req.Trigger.Title,
		OldNumber:    req.Trigger.Number,
		TargetBranch: req.BaseBranch,
	}

	created, err := p.provider.CreateChangeRequest(ctx, platform.CreateParams{
		Head:  req.HeadBranch,
		Base:  req.BaseBranch,
		Title: template.ResolveTitle(req.TitleTemplate, vars),
		Body:  template.ResolveBody(req.BodyTemplate, req.Trigger.Body, vars),
		Draft: req.Draft,
	})
	if err != nil {
		return nil, err
	}
	p.splog.Debug("created %s change request #%d", p.provider.Name(), created.Number)

	if labels := p.resolveLabels(req); len(labels) > 0 {
		if err := p.provider.AddLabels(ctx, created.Number, labels); err != nil {
			return nil, err
		}
	}

	if len(req.Assignees) > 0 {
		if err := p.provider.AddAssignees(ctx, created.Number, req.Assignees); err != nil {
			return nil, err
		}
	}

	if len(req.Reviewers) > 0 {
		if err := p.provider.RequestReviewers(ctx, created.Number, req.Reviewers); err != nil {
			if !errors.Is(err, platform.ErrSelfReview) {
				return nil, err
			}
			p.splog.Warn("skipping review request on #%d: %v", created.Number, err)
		}
	}

	if len(req.TeamReviewers) > 0 {
		if err := p.provider.RequestTeamReviewers(ctx, created.Number, req.TeamReviewers); err != nil {
			return nil, err
		}
	}

	return created, nil
}

// resolveLabels builds the outgoing label set. Inherited labels are unioned
// after the configured ones; a trigger label matching the base branch name
// is dropped so fan-out targets don't collect each other's branch labels.
func (p *Publisher) resolveLabels(req Request) []string {
	labels := append([]string(nil), req.Labels...)
	if !req.InheritLabels {
		return labels
	}

	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	for _, l := range req.Trigger.Labels {
		if l == req.BaseBranch {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		labels = append(labels, l)
	}
	return labels
}
