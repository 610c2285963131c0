// Package template renders pull request title and body templates over a
// fixed placeholder set.
package template

import (
	"strconv"
	"strings"
)

// The documented placeholder set. Anything else in a template passes
// through verbatim.
const (
	PlaceholderOldTitle  = "{old_title}"
	PlaceholderOldNumber = "{old_pull_request_id}"
	PlaceholderTarget    = "{target_branch}"
)

// Values holds the substitutions available to templates.
type Values struct {
	OldTitle     string
	OldNumber    int
	TargetBranch string
}

// Render substitutes all known placeholders in tmpl.
func Render(tmpl string, v Values) string {
	r := strings.NewReplacer(
		PlaceholderOldTitle, v.OldTitle,
		PlaceholderOldNumber, strconv.Itoa(v.OldNumber),
		PlaceholderTarget, v.TargetBranch,
	)
	return r.Replace(tmpl)
}

// ResolveTitle resolves the outgoing title: an empty template reuses the
// triggering change's title unchanged.
func ResolveTitle(tmpl string, v Values) string {
	if tmpl == "" {
		return v.OldTitle
	}
	return Render(tmpl, v)
}

// ResolveBody resolves the outgoing body: an empty template reuses the
// triggering change's body unchanged.
func ResolveBody(tmpl, oldBody string, v Values) string {
	if tmpl == "" {
		return oldBody
	}
	return Render(tmpl, v)
}
