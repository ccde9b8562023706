// Package constants provides centralized constant values used throughout syncer.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory and file names used by syncer for its own state.
const (
	// SyncerHome is the hidden directory name where syncer stores all its data.
	// This directory is created in the user's home directory.
	SyncerHome = ".syncer"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// LocksDir is the directory name where branch lock files are stored.
	LocksDir = "locks"

	// CacheFileName is the JSON file holding the last-used sync settings.
	CacheFileName = "cache.json"

	// CLILogFileName is the rotating log file for the CLI.
	CLILogFileName = "syncer.log"
)

// Branch names and git defaults.
const (
	// DefaultWorkBranch is the working branch used to stage sync commits.
	DefaultWorkBranch = "temp-sync"

	// DefaultBaseBranch is the long-lived branch that receives merged changes.
	DefaultBaseBranch = "main"

	// DefaultRemoteName is the git remote syncer pushes to and fetches from.
	DefaultRemoteName = "origin"

	// BackupBranch is the branch that holds remote vault backup archives.
	BackupBranch = "backup"

	// DefaultCommitMessage is used when the caller supplies no commit message.
	DefaultCommitMessage = "Auto sync"
)

// Pull request defaults for the sync workflow.
const (
	// SyncPRTitle is the fixed title for sync pull requests.
	SyncPRTitle = "Sync vault changes"

	// SyncPRBody is the fixed body for sync pull requests.
	SyncPRBody = "Automated vault sync. Merges staged working-tree changes into the base branch."

	// DefaultMergeMethod is the merge strategy for sync pull requests.
	DefaultMergeMethod = "merge"
)

// Workflow dispatch defaults.
const (
	// DefaultWorkflowFile is the workflow triggered by syncer dispatch.
	DefaultWorkflowFile = "git-sync.yml"

	// WorkflowPollInterval is how often a dispatched run is polled.
	WorkflowPollInterval = 15 * time.Second

	// WorkflowTimeout is the maximum time to wait for a dispatched run.
	WorkflowTimeout = 3 * time.Minute
)

// Retry configuration defaults for hosting-platform operations.
const (
	// MaxRetryAttempts is the maximum number of attempts for retryable gh calls.
	MaxRetryAttempts = 3

	// InitialBackoff is the backoff before the first retry.
	InitialBackoff = 1 * time.Second

	// MaxBackoff caps the exponential backoff delay.
	MaxBackoff = 30 * time.Second

	// BackoffMultiplier grows the delay between attempts.
	BackoffMultiplier = 2.0
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the maximum size of a log file before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated files to keep.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age of rotated files.
	LogMaxAgeDays = 30

	// LogCompress controls gzip compression of rotated files.
	LogCompress = true
)

// Backup upload settings.
const (
	// UploadConcurrency bounds concurrent contents-API uploads.
	UploadConcurrency = 4

	// BackupArchivePrefix names remote backup archives. The full name is
	// backup_<timestamp>.zip so the latest sorts last lexicographically.
	BackupArchivePrefix = "backup_"

	// BackupTimestampLayout is the timestamp format in archive names.
	BackupTimestampLayout = "20060102_150405"
)
