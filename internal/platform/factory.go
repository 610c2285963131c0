package platform

import (
	"context"
	"fmt"

	"repick.dev/repick/internal/git"
)

// NewProvider creates the Provider implementation for the detected platform.
//
//nolint:ireturn // Factory function must return interface to enable platform abstraction.
func NewProvider(ctx context.Context, p git.Platform, owner, repo string) (Provider, error) {
	switch p {
	case git.PlatformGitHub:
		provider, err := NewGitHubProvider(ctx, owner, repo)
		if err != nil {
			return nil, fmt.Errorf("failed to create GitHub provider: %w", err)
		}
		return provider, nil

	case git.PlatformGitLab:
		provider, err := NewGitLabProvider(owner, repo)
		if err != nil {
			return nil, fmt.Errorf("failed to create GitLab provider: %w", err)
		}
		return provider, nil

	default:
		return nil, fmt.Errorf("unsupported platform: %s", p)
	}
}
