package config

import (
	"github.com/dev-users/syncer/internal/constants"
)

// DefaultConfig returns a new Config with sensible default values.
// These defaults are used as the base layer that can be overridden by
// config files, environment variables, and CLI flags.
func DefaultConfig() *Config {
	return &Config{
		Git: GitConfig{
			// DefaultBranch: "main" is the modern Git default.
			// Repos using "master" should override in their config.
			DefaultBranch: constants.DefaultBaseBranch,

			// WorkBranch: sync commits are staged here, never directly
			// on the default branch.
			WorkBranch: constants.DefaultWorkBranch,

			// RemoteName: "origin" is the standard Git remote name.
			RemoteName: constants.DefaultRemoteName,
		},
		GitHub: GitHubConfig{
			// Token: empty by default; set SYNCER_GITHUB_TOKEN instead of
			// writing tokens into config files.
			Token: "",

			// MergeMethod: plain merge preserves the sync commit history.
			MergeMethod: constants.DefaultMergeMethod,

			Retry: RetryConfig{
				MaxAttempts:    constants.MaxRetryAttempts,
				InitialBackoff: constants.InitialBackoff,
				MaxBackoff:     constants.MaxBackoff,
				Multiplier:     constants.BackoffMultiplier,
			},
		},
		Sync: SyncConfig{
			// CommitMessage: used when the caller supplies nothing.
			CommitMessage: constants.DefaultCommitMessage,
		},
		Vault: VaultConfig{
			// Dir: empty means sync the current working directory.
			Dir: "",

			// BackupBranch: archives live on an orphan-style branch so
			// they never collide with vault content.
			BackupBranch: constants.BackupBranch,
		},
		Workflow: WorkflowConfig{
			File:         constants.DefaultWorkflowFile,
			PollInterval: constants.WorkflowPollInterval,
			Timeout:      constants.WorkflowTimeout,
		},
	}
}
