// Package platform provides a host-neutral client for creating and
// annotating change requests, with GitHub and GitLab implementations.
//
// The four annotation calls are independent and non-atomic by design:
// partial success (labels applied but a reviewer request failed) is
// possible and never rolled back.
package platform

import (
	"context"
	"errors"
)

// ErrSelfReview indicates the hosting service rejected a review request
// because the reviewer authored the change. Adapters wrap their host's
// variant of this failure so the publisher can downgrade it to a warning.
var ErrSelfReview = errors.New("cannot request review from the change's own author")

// ChangeRequest identifies a created change request.
type ChangeRequest struct {
	Number int
	URL    string
}

// CreateParams holds parameters for creating a change request.
type CreateParams struct {
	Head  string
	Base  string
	Title string
	Body  string
	Draft bool
}

// Provider is the hosting-service client boundary.
type Provider interface {
	// CreateChangeRequest opens a pull/merge request from Head into Base.
	CreateChangeRequest(ctx context.Context, params CreateParams) (*ChangeRequest, error)

	// AddLabels adds labels to an existing change request.
	AddLabels(ctx context.Context, number int, labels []string) error

	// AddAssignees assigns users to an existing change request.
	AddAssignees(ctx context.Context, number int, assignees []string) error

	// RequestReviewers requests reviews from individual users.
	RequestReviewers(ctx context.Context, number int, reviewers []string) error

	// RequestTeamReviewers requests reviews from teams.
	RequestTeamReviewers(ctx context.Context, number int, teams []string) error

	// Name returns a human-readable platform name for logging.
	Name() string
}
