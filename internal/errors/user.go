package errors

import "errors"

// ErrorInfo holds a user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries is the pre-built mapping of sentinel errors to their user-facing messages.
// This single source of truth ensures UserMessage and Actionable stay in sync.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	{
		err: ErrNotGitRepo,
		info: ErrorInfo{
			Message: "The vault directory is not a git repository.",
			Action:  "Run 'git init' in the vault, or point --vault at an existing working copy.",
		},
	},
	{
		err: ErrGHAuthFailed,
		info: ErrorInfo{
			Message: "GitHub authentication failed.",
			Action:  "Set a personal access token via 'syncer setup', SYNCER_GITHUB_TOKEN, or 'gh auth login'.",
		},
	},
	{
		err: ErrGHRateLimited,
		info: ErrorInfo{
			Message: "GitHub API rate limit exceeded.",
			Action:  "Wait a few minutes and retry.",
		},
	},
	{
		err: ErrSyncInProgress,
		info: ErrorInfo{
			Message: "Another sync is already running for this branch.",
			Action:  "Wait for the running sync to finish before triggering a new one.",
		},
	},
	{
		err: ErrInvalidRepoURL,
		info: ErrorInfo{
			Message: "The repository link is not a valid GitHub URL.",
			Action:  "Use the form https://github.com/owner/repo.",
		},
	},
	{
		err: ErrMergeConflict,
		info: ErrorInfo{
			Message: "Merging the remote branch failed, even allowing unrelated histories.",
			Action:  "Resolve the conflicts in the vault working copy and rerun 'syncer local'.",
		},
	},
	{
		err: ErrNoBackupsFound,
		info: ErrorInfo{
			Message: "No backup archives exist on the backup branch.",
			Action:  "Run 'syncer backup' first to create one.",
		},
	},
	{
		err: ErrWorkflowTimeout,
		info: ErrorInfo{
			Message: "Timed out waiting for the sync workflow run to complete.",
			Action:  "Check the run in the repository's Actions tab, or increase --timeout.",
		},
	},
	{
		err: ErrVaultNotFound,
		info: ErrorInfo{
			Message: "The vault directory does not exist.",
			Action:  "Check the --vault path or run 'syncer setup' to pick a folder.",
		},
	},
}

// UserMessage returns a user-friendly message for the given error.
// Falls back to the raw error text when no mapping exists.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info.Message
		}
	}
	return err.Error()
}

// Actionable returns the suggested action for the given error, or empty
// when no action is known.
func Actionable(err error) string {
	if err == nil {
		return ""
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info.Action
		}
	}
	return ""
}
