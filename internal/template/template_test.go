package template_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"repick.dev/repick/internal/template"
)

func TestResolveTitle(t *testing.T) {
	vars := template.Values{OldTitle: "fix: close leaked sockets", OldNumber: 42, TargetBranch: "release/1.1.0"}

	t.Run("empty template reuses the old title", func(t *testing.T) {
		require.Equal(t, "fix: close leaked sockets", template.ResolveTitle("", vars))
	})

	t.Run("placeholder is substituted", func(t *testing.T) {
		got := template.ResolveTitle("[release/1.1.0] {old_title}", vars)
		require.Equal(t, "[release/1.1.0] fix: close leaked sockets", got)
	})

	t.Run("template without placeholders is used verbatim", func(t *testing.T) {
		require.Equal(t, "Backport fix", template.ResolveTitle("Backport fix", vars))
	})
}

func TestResolveBody(t *testing.T) {
	vars := template.Values{OldTitle: "fix", OldNumber: 42, TargetBranch: "release/1.1.0"}

	t.Run("empty template reuses the old body", func(t *testing.T) {
		require.Equal(t, "original body", template.ResolveBody("", "original body", vars))
	})

	t.Run("old number placeholder is substituted", func(t *testing.T) {
		got := template.ResolveBody("Cherry-pick of #{old_pull_request_id}", "ignored", vars)
		require.Equal(t, "Cherry-pick of #42", got)
	})
}

func TestRenderTargetBranch(t *testing.T) {
	got := template.Render("{old_title} onto {target_branch}", template.Values{OldTitle: "fix", TargetBranch: "release/2.0.0"})
	require.Equal(t, "fix onto release/2.0.0", got)
}
