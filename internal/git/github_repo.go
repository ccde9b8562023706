// Package git provides git and GitHub operations for syncer.
// This file implements repository and branch queries via the gh API.
package git

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dev-users/syncer/internal/ctxutil"
	syncererrors "github.com/dev-users/syncer/internal/errors"
)

// RepoInfo returns the repository's owner, name, and default branch.
func (r *CLIHubRunner) RepoInfo(ctx context.Context) (*Repo, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	output, err := r.gh(ctx, "api", r.apiPath(""))
	if err != nil {
		if classifyHubError(err) == HubErrorNotFound {
			return nil, fmt.Errorf("repository not found: %w: %w", syncererrors.ErrGitHubOperation, err)
		}
		return nil, fmt.Errorf("failed to query repository: %w: %w", syncererrors.ErrGitHubOperation, err)
	}

	var payload struct {
		Name          string `json:"name"`
		DefaultBranch string `json:"default_branch"`
		Owner         struct {
			Login string `json:"login"`
		} `json:"owner"`
	}
	if err := json.Unmarshal(output, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse repository info: %w", err)
	}

	return &Repo{
		Owner:         payload.Owner.Login,
		Name:          payload.Name,
		DefaultBranch: payload.DefaultBranch,
	}, nil
}

// ListBranches returns the names of all remote branches.
func (r *CLIHubRunner) ListBranches(ctx context.Context) ([]string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	output, err := r.gh(ctx, "api", "--paginate", r.apiPath("/branches"), "--jq", ".[].name")
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w: %w", syncererrors.ErrGitHubOperation, err)
	}

	var branches []string
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			branches = append(branches, line)
		}
	}
	return branches, nil
}

// BranchSHA returns the commit SHA a remote branch points at.
func (r *CLIHubRunner) BranchSHA(ctx context.Context, branch string) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}
	if branch == "" {
		return "", fmt.Errorf("branch name cannot be empty: %w", syncererrors.ErrEmptyValue)
	}

	output, err := r.gh(ctx, "api", r.apiPath("/branches/"+branch), "--jq", ".commit.sha")
	if err != nil {
		if classifyHubError(err) == HubErrorNotFound {
			return "", fmt.Errorf("branch %q: %w", branch, syncererrors.ErrBranchNotFound)
		}
		return "", fmt.Errorf("failed to resolve branch %q: %w: %w", branch, syncererrors.ErrGitHubOperation, err)
	}

	sha := strings.TrimSpace(string(output))
	if sha == "" {
		return "", fmt.Errorf("branch %q: %w", branch, syncererrors.ErrBranchNotFound)
	}
	return sha, nil
}

// EnsureBranch creates the remote branch at fromSHA when it does not
// already exist. Returns true when the branch was created.
func (r *CLIHubRunner) EnsureBranch(ctx context.Context, branch, fromSHA string) (bool, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return false, err
	}
	if branch == "" {
		return false, fmt.Errorf("branch name cannot be empty: %w", syncererrors.ErrEmptyValue)
	}

	if _, err := r.BranchSHA(ctx, branch); err == nil {
		return false, nil
	} else if !errors.Is(err, syncererrors.ErrBranchNotFound) {
		return false, err
	}

	if fromSHA == "" {
		return false, fmt.Errorf("source SHA cannot be empty: %w", syncererrors.ErrEmptyValue)
	}

	_, err := r.gh(ctx, "api", "--method", "POST", r.apiPath("/git/refs"),
		"-f", "ref=refs/heads/"+branch,
		"-f", "sha="+fromSHA)
	if err != nil {
		// A concurrent creation between the existence check and the POST
		// surfaces as "already exists"; treat it as not created.
		if strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return false, nil
		}
		return false, fmt.Errorf("failed to create branch %q: %w: %w", branch, syncererrors.ErrGitHubOperation, err)
	}

	r.logger.Info().
		Str("branch", branch).
		Str("from_sha", fromSHA).
		Msg("remote branch created")
	return true, nil
}
