package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	repickerrors "repick.dev/repick/internal/errors"
	"repick.dev/repick/internal/output"
)

// BranchVersion is a branch name decomposed into a prefix and a three-part
// numeric version, e.g. "release/1.2.3" -> ("release", 1, 2, 3).
type BranchVersion struct {
	Prefix string
	Major  int
	Minor  int
	Patch  int
}

// ParseBranchVersion parses a branch name of the form "<prefix>/X.Y.Z".
// Anything other than exactly three numeric dot-separated components after
// the last slash fails with ErrUnversionedBranch.
func ParseBranchVersion(name string) (BranchVersion, error) {
	slash := strings.LastIndex(name, "/")
	if slash < 0 {
		return BranchVersion{}, repickerrors.NewUnversionedBranchError(name)
	}

	prefix := name[:slash]
	components := strings.Split(name[slash+1:], ".")
	if len(components) != 3 {
		return BranchVersion{}, repickerrors.NewUnversionedBranchError(name)
	}

	numbers := make([]int, 3)
	for i, c := range components {
		n, err := strconv.Atoi(c)
		if err != nil || n < 0 {
			return BranchVersion{}, repickerrors.NewUnversionedBranchError(name)
		}
		numbers[i] = n
	}

	return BranchVersion{Prefix: prefix, Major: numbers[0], Minor: numbers[1], Patch: numbers[2]}, nil
}

// NewerThan reports whether v is strictly newer than other. Components are
// compared left to right; the first differing component decides. Equal
// versions are not newer in either direction.
func (v BranchVersion) NewerThan(other BranchVersion) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor > other.Minor
	}
	return v.Patch > other.Patch
}

// Catalog lists and version-orders remote branches.
type Catalog struct {
	runner Runner
	splog  *output.Splog
}

// NewCatalog creates a Catalog on top of a runner.
func NewCatalog(runner Runner, splog *output.Splog) *Catalog {
	return &Catalog{runner: runner, splog: splog}
}

// ListBranches returns remote branches matching "<pattern>/*" in the order
// git reports them, with the "origin/" prefix and any quoting stripped.
// No version ordering is guaranteed.
func (c *Catalog) ListBranches(ctx context.Context, pattern string) ([]string, error) {
	out, err := c.runner.Run(ctx, "branch", "--remotes", "--list", "origin/"+pattern+"/*")
	if err != nil {
		return nil, fmt.Errorf("failed to list remote branches for %s: %w", pattern, err)
	}

	var branches []string
	for _, line := range strings.Split(out, "\n") {
		name := strings.Trim(strings.TrimSpace(line), "'\"")
		name = strings.TrimPrefix(name, "origin/")
		if name == "" {
			continue
		}
		branches = append(branches, name)
	}
	return branches, nil
}

// IsNewer reports whether candidate carries a strictly newer version than
// reference. Either side failing to parse is an error.
func (c *Catalog) IsNewer(reference, candidate string) (bool, error) {
	ref, err := ParseBranchVersion(reference)
	if err != nil {
		return false, err
	}
	cand, err := ParseBranchVersion(candidate)
	if err != nil {
		return false, err
	}
	return cand.NewerThan(ref), nil
}

// SelectNewerBranches returns the branches matching pattern whose version is
// strictly newer than the reference branch's, preserving listing order.
// Branches without a parsable X.Y.Z suffix are skipped.
func (c *Catalog) SelectNewerBranches(ctx context.Context, pattern, reference string) ([]string, error) {
	ref, err := ParseBranchVersion(reference)
	if err != nil {
		return nil, fmt.Errorf("reference branch %s: %w", reference, err)
	}

	branches, err := c.ListBranches(ctx, pattern)
	if err != nil {
		return nil, err
	}

	var newer []string
	for _, branch := range branches {
		cand, err := ParseBranchVersion(branch)
		if err != nil {
			c.splog.Debug("skipping branch %s: no X.Y.Z version suffix", branch)
			continue
		}
		if cand.NewerThan(ref) {
			newer = append(newer, branch)
		}
	}
	return newer, nil
}
