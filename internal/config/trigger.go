package config

import (
	"encoding/json"
	"fmt"
	"os"

	repickerrors "repick.dev/repick/internal/errors"
)

// TriggerContext describes the merged change the run was triggered by.
// Read-only, supplied by the CI environment.
type TriggerContext struct {
	CommitSHA  string
	Number     int
	Title      string
	Body       string
	BaseBranch string
	Labels     []string
}

// eventPayload mirrors the slice of the workflow event payload we consume.
type eventPayload struct {
	PullRequest *struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		Body   string `json:"body"`
		Base   struct {
			Ref string `json:"ref"`
		} `json:"base"`
		Labels []struct {
			Name string `json:"name"`
		} `json:"labels"`
		MergeCommitSHA string `json:"merge_commit_sha"`
	} `json:"pull_request"`
}

// TriggerFromEnvironment reads the triggering change from GITHUB_SHA and the
// event payload file at GITHUB_EVENT_PATH.
func TriggerFromEnvironment() (TriggerContext, error) {
	eventPath := os.Getenv("GITHUB_EVENT_PATH")
	if eventPath == "" {
		return TriggerContext{}, repickerrors.ErrNoTriggerChange
	}

	data, err := os.ReadFile(eventPath)
	if err != nil {
		return TriggerContext{}, fmt.Errorf("failed to read event payload: %w", err)
	}

	var payload eventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return TriggerContext{}, fmt.Errorf("failed to parse event payload: %w", err)
	}
	if payload.PullRequest == nil {
		return TriggerContext{}, repickerrors.ErrNoTriggerChange
	}

	pr := payload.PullRequest
	trigger := TriggerContext{
		CommitSHA:  pr.MergeCommitSHA,
		Number:     pr.Number,
		Title:      pr.Title,
		Body:       pr.Body,
		BaseBranch: pr.Base.Ref,
	}
	for _, l := range pr.Labels {
		trigger.Labels = append(trigger.Labels, l.Name)
	}

	// Pushes and manually dispatched runs have no merge commit in the
	// payload; fall back to the checked out head.
	if trigger.CommitSHA == "" {
		trigger.CommitSHA = os.Getenv("GITHUB_SHA")
	}

	return trigger, nil
}
