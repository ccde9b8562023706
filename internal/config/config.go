// Package config provides configuration management for syncer with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (SYNCER_* prefix)
//  3. Project config (.syncer/config.yaml)
//  4. Global config (~/.syncer/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

import "time"

// Config is the root configuration structure for syncer.
type Config struct {
	// Git contains settings for local git operations.
	Git GitConfig `yaml:"git" mapstructure:"git"`

	// GitHub contains settings for hosting-platform operations.
	GitHub GitHubConfig `yaml:"github" mapstructure:"github"`

	// Sync contains the commit identity and message used by sync runs.
	Sync SyncConfig `yaml:"sync" mapstructure:"sync"`

	// Vault contains settings for the local vault directory and remote backups.
	Vault VaultConfig `yaml:"vault" mapstructure:"vault"`

	// Workflow contains settings for workflow dispatch and run watching.
	Workflow WorkflowConfig `yaml:"workflow" mapstructure:"workflow"`
}

// GitConfig contains settings for local git operations.
type GitConfig struct {
	// DefaultBranch is the long-lived branch that receives merged changes.
	// Default: "main"
	DefaultBranch string `yaml:"default_branch" mapstructure:"default_branch"`

	// WorkBranch is the working branch used to stage sync commits.
	// Default: "temp-sync"
	WorkBranch string `yaml:"work_branch" mapstructure:"work_branch"`

	// RemoteName is the git remote syncer pushes to and fetches from.
	// Default: "origin"
	RemoteName string `yaml:"remote_name" mapstructure:"remote_name"`
}

// GitHubConfig contains settings for hosting-platform operations.
type GitHubConfig struct {
	// Token is the personal access token used to authenticate gh calls.
	// Prefer setting this through the SYNCER_GITHUB_TOKEN environment
	// variable instead of a config file.
	Token string `yaml:"token,omitempty" mapstructure:"token"`

	// RepoURL is the https URL of the repository being synced
	// (https://github.com/owner/repo).
	RepoURL string `yaml:"repo_url" mapstructure:"repo_url"`

	// MergeMethod selects how sync pull requests are merged.
	// One of "merge", "squash", "rebase". Default: "merge"
	MergeMethod string `yaml:"merge_method" mapstructure:"merge_method"`

	// Retry controls retry behavior for transient gh failures.
	Retry RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// RetryConfig controls retry behavior for hosting-platform calls.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts per operation.
	// Default: 3, Valid range: 1-10
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`

	// InitialBackoff is the delay before the first retry.
	// Default: 1s
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff"`

	// MaxBackoff caps the exponential backoff delay.
	// Default: 30s
	MaxBackoff time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`

	// Multiplier grows the delay between attempts.
	// Default: 2.0
	Multiplier float64 `yaml:"multiplier" mapstructure:"multiplier"`
}

// SyncConfig contains the commit identity and message for sync runs.
type SyncConfig struct {
	// Username is the git user.name set before committing.
	Username string `yaml:"username" mapstructure:"username"`

	// Email is the git user.email set before committing.
	Email string `yaml:"email" mapstructure:"email"`

	// CommitMessage is the message for sync commits.
	// Default: "Auto sync"
	CommitMessage string `yaml:"commit_message" mapstructure:"commit_message"`
}

// VaultConfig contains settings for the local vault and remote backups.
type VaultConfig struct {
	// Dir is the local directory being synced. Empty means the current
	// working directory.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// BackupBranch is the branch that stores backup archives.
	// Default: "backup"
	BackupBranch string `yaml:"backup_branch" mapstructure:"backup_branch"`
}

// WorkflowConfig contains settings for workflow dispatch and watching.
type WorkflowConfig struct {
	// File is the workflow file name triggered by syncer dispatch.
	// Default: "git-sync.yml"
	File string `yaml:"file" mapstructure:"file"`

	// PollInterval is how often a dispatched run is polled.
	// Default: 15s, Valid range: 1s-10m
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`

	// Timeout is the maximum time to wait for a dispatched run.
	// Default: 3m
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}
