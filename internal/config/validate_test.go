package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-users/syncer/internal/errors"
)

func TestValidate(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		require.ErrorIs(t, Validate(nil), errors.ErrConfigNil)
	})

	t.Run("default config is valid", func(t *testing.T) {
		require.NoError(t, Validate(DefaultConfig()))
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "empty default branch",
			mutate:  func(c *Config) { c.Git.DefaultBranch = "" },
			wantErr: errors.ErrEmptyValue,
		},
		{
			name:    "empty work branch",
			mutate:  func(c *Config) { c.Git.WorkBranch = "" },
			wantErr: errors.ErrEmptyValue,
		},
		{
			name:    "empty remote name",
			mutate:  func(c *Config) { c.Git.RemoteName = "" },
			wantErr: errors.ErrEmptyValue,
		},
		{
			name:    "work branch equals default branch",
			mutate:  func(c *Config) { c.Git.WorkBranch = c.Git.DefaultBranch },
			wantErr: errors.ErrBranchExists,
		},
		{
			name:    "invalid merge method",
			mutate:  func(c *Config) { c.GitHub.MergeMethod = "fast-forward" },
			wantErr: errors.ErrInvalidMergeMethod,
		},
		{
			name:    "zero retry attempts",
			mutate:  func(c *Config) { c.GitHub.Retry.MaxAttempts = 0 },
			wantErr: errors.ErrConfigInvalid,
		},
		{
			name:    "excessive retry attempts",
			mutate:  func(c *Config) { c.GitHub.Retry.MaxAttempts = 50 },
			wantErr: errors.ErrConfigInvalid,
		},
		{
			name:    "negative initial backoff",
			mutate:  func(c *Config) { c.GitHub.Retry.InitialBackoff = -time.Second },
			wantErr: errors.ErrInvalidDuration,
		},
		{
			name: "max backoff below initial",
			mutate: func(c *Config) {
				c.GitHub.Retry.InitialBackoff = time.Minute
				c.GitHub.Retry.MaxBackoff = time.Second
			},
			wantErr: errors.ErrInvalidDuration,
		},
		{
			name:    "multiplier below one",
			mutate:  func(c *Config) { c.GitHub.Retry.Multiplier = 0.5 },
			wantErr: errors.ErrConfigInvalid,
		},
		{
			name:    "bad repo url",
			mutate:  func(c *Config) { c.GitHub.RepoURL = "git@github.com:owner/repo.git" },
			wantErr: errors.ErrInvalidRepoURL,
		},
		{
			name:    "zero workflow timeout",
			mutate:  func(c *Config) { c.Workflow.Timeout = 0 },
			wantErr: errors.ErrInvalidDuration,
		},
		{
			name:    "poll interval too small",
			mutate:  func(c *Config) { c.Workflow.PollInterval = 100 * time.Millisecond },
			wantErr: errors.ErrInvalidDuration,
		},
		{
			name:    "poll interval too large",
			mutate:  func(c *Config) { c.Workflow.PollInterval = time.Hour },
			wantErr: errors.ErrInvalidDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			require.ErrorIs(t, Validate(cfg), tt.wantErr)
		})
	}
}

func TestParseRepoURL(t *testing.T) {
	t.Run("valid URLs", func(t *testing.T) {
		tests := []struct {
			url   string
			owner string
			repo  string
		}{
			{"https://github.com/owner/repo", "owner", "repo"},
			{"https://github.com/owner/repo/", "owner", "repo"},
			{"https://github.com/owner/repo.git", "owner", "repo"},
			{"https://github.com/my-org/my.vault", "my-org", "my.vault"},
		}

		for _, tt := range tests {
			owner, repo, err := ParseRepoURL(tt.url)
			require.NoError(t, err, tt.url)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, repo)
		}
	})

	t.Run("invalid URLs", func(t *testing.T) {
		tests := []string{
			"",
			"http://github.com/owner/repo",
			"https://gitlab.com/owner/repo",
			"https://github.com/owner",
			"https://github.com/owner/repo/extra",
			"github.com/owner/repo",
			"git@github.com:owner/repo.git",
		}

		for _, u := range tests {
			_, _, err := ParseRepoURL(u)
			require.ErrorIs(t, err, errors.ErrInvalidRepoURL, u)
		}
	})
}
