package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/dev-users/syncer/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - Git branches and remote name must not be empty
//   - Work branch must differ from the default branch
//   - Merge method must be one of merge, squash, rebase
//   - Retry attempts must be between 1 and 10 with positive backoff
//   - Workflow poll interval must be between 1 second and 10 minutes
//   - Repo URL, when set, must be a https://github.com/owner/repo URL
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateGitConfig(&cfg.Git); err != nil {
		return err
	}
	if err := validateGitHubConfig(&cfg.GitHub); err != nil {
		return err
	}
	if err := validateWorkflowConfig(&cfg.Workflow); err != nil {
		return err
	}

	return nil
}

// validateGitConfig checks git-specific configuration values.
func validateGitConfig(cfg *GitConfig) error {
	if cfg.DefaultBranch == "" {
		return errors.Wrap(errors.ErrEmptyValue, "git.default_branch must not be empty")
	}
	if cfg.WorkBranch == "" {
		return errors.Wrap(errors.ErrEmptyValue, "git.work_branch must not be empty")
	}
	if cfg.RemoteName == "" {
		return errors.Wrap(errors.ErrEmptyValue, "git.remote_name must not be empty")
	}
	if cfg.WorkBranch == cfg.DefaultBranch {
		return errors.Wrapf(errors.ErrBranchExists,
			"git.work_branch must differ from git.default_branch, both are %q", cfg.WorkBranch)
	}

	return nil
}

// validateGitHubConfig checks hosting-platform configuration values.
func validateGitHubConfig(cfg *GitHubConfig) error {
	switch cfg.MergeMethod {
	case "merge", "squash", "rebase":
	default:
		return errors.Wrapf(errors.ErrInvalidMergeMethod,
			"github.merge_method must be merge, squash, or rebase, got %q", cfg.MergeMethod)
	}

	if cfg.Retry.MaxAttempts < 1 || cfg.Retry.MaxAttempts > 10 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"github.retry.max_attempts must be between 1 and 10, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.InitialBackoff <= 0 {
		return errors.Wrapf(errors.ErrInvalidDuration,
			"github.retry.initial_backoff must be positive, got %s", cfg.Retry.InitialBackoff)
	}
	if cfg.Retry.MaxBackoff < cfg.Retry.InitialBackoff {
		return errors.Wrapf(errors.ErrInvalidDuration,
			"github.retry.max_backoff must be at least initial_backoff, got %s", cfg.Retry.MaxBackoff)
	}
	if cfg.Retry.Multiplier < 1 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"github.retry.multiplier must be at least 1, got %v", cfg.Retry.Multiplier)
	}

	if cfg.RepoURL != "" {
		if _, _, err := ParseRepoURL(cfg.RepoURL); err != nil {
			return err
		}
	}

	return nil
}

// validateWorkflowConfig checks workflow-specific configuration values.
func validateWorkflowConfig(cfg *WorkflowConfig) error {
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrInvalidDuration,
			"workflow.timeout must be positive, got %s", cfg.Timeout)
	}

	minPollInterval := 1 * time.Second
	maxPollInterval := 10 * time.Minute
	if cfg.PollInterval < minPollInterval || cfg.PollInterval > maxPollInterval {
		return errors.Wrapf(errors.ErrInvalidDuration,
			"workflow.poll_interval must be between %s and %s, got %s",
			minPollInterval, maxPollInterval, cfg.PollInterval)
	}

	return nil
}

// ParseRepoURL validates a repository URL and extracts its owner and name.
// Only https://github.com/owner/repo URLs are accepted; a trailing .git
// suffix or slash is tolerated.
func ParseRepoURL(rawURL string) (owner, repo string, err error) {
	if rawURL == "" {
		return "", "", errors.Wrap(errors.ErrInvalidRepoURL, "repository URL is empty")
	}

	u, parseErr := url.Parse(rawURL)
	if parseErr != nil {
		return "", "", errors.Wrapf(errors.ErrInvalidRepoURL, "cannot parse %q", rawURL)
	}

	if u.Scheme != "https" {
		return "", "", errors.Wrapf(errors.ErrInvalidRepoURL,
			"scheme must be https, got %q", u.Scheme)
	}
	if u.Host != "github.com" {
		return "", "", errors.Wrapf(errors.ErrInvalidRepoURL,
			"host must be github.com, got %q", u.Host)
	}

	path := strings.Trim(u.Path, "/")
	path = strings.TrimSuffix(path, ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Wrapf(errors.ErrInvalidRepoURL,
			"path must be owner/repo, got %q", u.Path)
	}

	return parts[0], parts[1], nil
}
