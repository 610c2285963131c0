package git

import (
	"fmt"
	"os"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// Platform identifies the hosting service behind the origin remote.
type Platform string

const (
	PlatformGitHub Platform = "github"
	PlatformGitLab Platform = "gitlab"
)

// GetRepoRoot returns the root directory of the Git repository
func GetRepoRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(wd, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	return worktree.Filesystem.Root(), nil
}

// GetOriginURL returns the first URL configured for the origin remote
func GetOriginURL(repoRoot string) (string, error) {
	repo, err := gogit.PlainOpen(repoRoot)
	if err != nil {
		return "", fmt.Errorf("failed to open git repository: %w", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("failed to get origin remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("no URLs found for origin remote")
	}

	return urls[0], nil
}

// DetectPlatform determines the hosting service from the origin remote URL.
// GITLAB_HOST covers self-hosted GitLab instances.
func DetectPlatform(remoteURL string) (Platform, error) {
	if strings.Contains(remoteURL, "gitlab.com") {
		return PlatformGitLab, nil
	}
	if host := os.Getenv("GITLAB_HOST"); host != "" && strings.Contains(remoteURL, host) {
		return PlatformGitLab, nil
	}
	if strings.Contains(remoteURL, "github.com") || os.Getenv("GITHUB_ACTIONS") == "true" {
		return PlatformGitHub, nil
	}

	return "", fmt.Errorf("unsupported platform for remote URL: %s", remoteURL)
}

// ParseOwnerRepo extracts owner and repository name from a remote URL.
// Handles both https and ssh formats:
//
//	https://github.com/owner/repo.git
//	git@github.com:owner/repo.git
func ParseOwnerRepo(remoteURL string) (string, string, error) {
	url := strings.TrimSuffix(strings.TrimSpace(remoteURL), ".git")
	parts := strings.Split(url, "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("invalid remote URL: %s", remoteURL)
	}

	repoName := parts[len(parts)-1]
	var owner string
	if strings.Contains(url, "@") && strings.Contains(url, ":") && !strings.Contains(url, "://") {
		// SSH format: git@host:owner/repo
		sshParts := strings.SplitN(url, ":", 2)
		pathParts := strings.Split(sshParts[1], "/")
		if len(pathParts) < 2 {
			return "", "", fmt.Errorf("invalid SSH remote URL: %s", remoteURL)
		}
		owner = pathParts[0]
	} else {
		owner = parts[len(parts)-2]
	}

	if owner == "" || repoName == "" {
		return "", "", fmt.Errorf("invalid remote URL: %s", remoteURL)
	}
	return owner, repoName, nil
}
