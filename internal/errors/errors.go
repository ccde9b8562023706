// Package errors provides centralized error handling for syncer.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrGitOperation indicates that a git command (checkout, commit, merge, etc.)
	// failed during execution.
	ErrGitOperation = errors.New("git operation failed")

	// ErrGitHubOperation indicates that a GitHub operation (PR creation, merge,
	// contents upload, etc.) failed.
	ErrGitHubOperation = errors.New("github operation failed")

	// ErrNotGitRepo indicates the path is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrBranchExists indicates the branch already exists.
	ErrBranchExists = errors.New("branch already exists")

	// ErrBranchNotFound indicates the specified branch does not exist locally or remotely.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrMergeConflict indicates a merge could not be completed, even with the
	// unrelated-histories fallback.
	ErrMergeConflict = errors.New("merge failed")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalid indicates a configuration value is out of range.
	ErrConfigInvalid = errors.New("invalid configuration value")

	// ErrInvalidRepoURL indicates the repository link is not a valid
	// https://github.com/owner/repo URL.
	ErrInvalidRepoURL = errors.New("invalid repository URL")

	// ErrInvalidMergeMethod indicates an unsupported pull request merge method.
	ErrInvalidMergeMethod = errors.New("invalid merge method")

	// ErrInvalidDuration indicates that a duration value is out of range.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrCommandNotConfigured indicates that a mock command was not configured in tests.
	ErrCommandNotConfigured = errors.New("command not configured")

	// ErrCommandFailed indicates that a command execution failed.
	ErrCommandFailed = errors.New("command failed")

	// ErrSyncInProgress indicates another sync already holds the branch lock.
	ErrSyncInProgress = errors.New("sync already in progress for branch")

	// ErrPRNotFound indicates no pull request matched the head/base filter.
	ErrPRNotFound = errors.New("pull request not found")

	// ErrPRCreationFailed indicates that PR creation failed.
	ErrPRCreationFailed = errors.New("PR creation failed")

	// ErrPRMergeFailed indicates that the PR merge operation failed.
	ErrPRMergeFailed = errors.New("PR merge failed")

	// ErrGHAuthFailed indicates gh CLI authentication failed.
	ErrGHAuthFailed = errors.New("github authentication failed")

	// ErrGHRateLimited indicates that GitHub API rate limit was exceeded.
	ErrGHRateLimited = errors.New("GitHub API rate limited")

	// ErrWorkflowDispatchFailed indicates the workflow_dispatch trigger failed.
	ErrWorkflowDispatchFailed = errors.New("workflow dispatch failed")

	// ErrWorkflowTimeout indicates workflow run polling exceeded the timeout.
	ErrWorkflowTimeout = errors.New("workflow run polling timeout")

	// ErrWorkflowFailed indicates the dispatched workflow run concluded unsuccessfully.
	ErrWorkflowFailed = errors.New("workflow run failed")

	// ErrVaultNotFound indicates the vault directory does not exist.
	ErrVaultNotFound = errors.New("vault directory not found")

	// ErrNoBackupsFound indicates the backup branch holds no archives.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrCacheCorrupted indicates the settings cache file holds invalid JSON.
	ErrCacheCorrupted = errors.New("settings cache corrupted")
)
