// Package config builds the immutable run configuration from CLI flags,
// CI environment variables and optional repository-level defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultsFileName is the optional repository-level defaults file.
const DefaultsFileName = ".repick.yml"

// Config is the immutable run configuration, built once per run.
type Config struct {
	// Committer and Author are identity strings of the form "Name <email>".
	Committer string `yaml:"committer"`
	Author    string `yaml:"author"`

	// Branch is the target branch name, or the branch name pattern when
	// FanOut is set (targets are every matching branch newer than the
	// triggering change's base).
	Branch string `yaml:"branch"`

	// CherryPickBranch overrides the synthesized PR branch name.
	CherryPickBranch string `yaml:"cherry-pick-branch"`

	// Title and Body are templates for the outgoing pull request; empty
	// values reuse the triggering change's.
	Title string `yaml:"title"`
	Body  string `yaml:"body"`

	Labels        []string `yaml:"labels"`
	Assignees     []string `yaml:"assignees"`
	Reviewers     []string `yaml:"reviewers"`
	TeamReviewers []string `yaml:"team-reviewers"`

	Force                    bool `yaml:"force"`
	InheritLabels            bool `yaml:"inherit-labels"`
	LeaveConflictsUnresolved bool `yaml:"leave-conflicts-unresolved"`
	FanOut                   bool `yaml:"fan-out"`
	Draft                    bool `yaml:"draft"`

	DryRun      bool `yaml:"-"`
	Interactive bool `yaml:"-"`
}

// Validate checks that the configuration is complete enough to run.
func (c *Config) Validate() error {
	if c.Committer == "" {
		return fmt.Errorf("committer is required")
	}
	if c.Author == "" {
		return fmt.Errorf("author is required")
	}
	if c.Branch == "" {
		return fmt.Errorf("branch is required")
	}
	return nil
}

// FromEnvironment builds a Config from GitHub-Action style INPUT_* variables,
// used as flag defaults so the tool works unchanged as a workflow step.
func FromEnvironment() Config {
	return Config{
		Committer:                envOr("INPUT_COMMITTER", "GitHub <noreply@github.com>"),
		Author:                   envOr("INPUT_AUTHOR", "GitHub <noreply@github.com>"),
		Branch:                   os.Getenv("INPUT_BRANCH"),
		CherryPickBranch:         os.Getenv("INPUT_CHERRY_PICK_BRANCH"),
		Title:                    os.Getenv("INPUT_TITLE"),
		Body:                     os.Getenv("INPUT_BODY"),
		Labels:                   SplitList(os.Getenv("INPUT_LABELS")),
		Assignees:                SplitList(os.Getenv("INPUT_ASSIGNEES")),
		Reviewers:                SplitList(os.Getenv("INPUT_REVIEWERS")),
		TeamReviewers:            SplitList(os.Getenv("INPUT_TEAM_REVIEWERS")),
		Force:                    envBool("INPUT_FORCE"),
		InheritLabels:            envBoolDefault("INPUT_INHERIT_LABELS", true),
		LeaveConflictsUnresolved: envBool("INPUT_LEAVE_CONFLICTS_UNRESOLVED"),
		FanOut:                   envBool("INPUT_FAN_OUT"),
		Draft:                    envBool("INPUT_DRAFT"),
	}
}

// ApplyDefaultsFile overlays values from the repository's .repick.yml onto
// unset fields. A missing file is not an error.
func (c *Config) ApplyDefaultsFile(repoRoot string) error {
	data, err := os.ReadFile(filepath.Join(repoRoot, DefaultsFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", DefaultsFileName, err)
	}

	var defaults Config
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return fmt.Errorf("failed to parse %s: %w", DefaultsFileName, err)
	}

	if c.Title == "" {
		c.Title = defaults.Title
	}
	if c.Body == "" {
		c.Body = defaults.Body
	}
	if len(c.Labels) == 0 {
		c.Labels = defaults.Labels
	}
	if len(c.Assignees) == 0 {
		c.Assignees = defaults.Assignees
	}
	if len(c.Reviewers) == 0 {
		c.Reviewers = defaults.Reviewers
	}
	if len(c.TeamReviewers) == 0 {
		c.TeamReviewers = defaults.TeamReviewers
	}
	return nil
}

// SplitList splits a comma-separated list, trimming whitespace and dropping
// empty entries.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func envBoolDefault(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
