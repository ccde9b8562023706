// Package git provides git and GitHub operations for syncer.
// This file defines the Runner interface for git CLI operations.
package git

import "context"

// Runner defines operations for git repository management.
// All operations run in the specified working directory and use context for cancellation.
type Runner interface {
	// Status returns the current working tree status including staged, unstaged, and untracked files.
	Status(ctx context.Context) (*Status, error)

	// Checkout switches to the named branch, creating it when it does not exist.
	Checkout(ctx context.Context, branch string) error

	// SetUser sets the local commit identity (user.name and user.email).
	SetUser(ctx context.Context, name, email string) error

	// RemoteExists reports whether the named remote is configured.
	RemoteExists(ctx context.Context, name string) (bool, error)

	// AddRemote adds a remote with the given URL.
	AddRemote(ctx context.Context, name, url string) error

	// SetRemoteURL updates the URL of an existing remote.
	SetRemoteURL(ctx context.Context, name, url string) error

	// Fetch downloads objects and refs from a remote repository without merging.
	Fetch(ctx context.Context, remote string) error

	// Add stages files for commit. If paths is empty, stages all changes.
	Add(ctx context.Context, paths []string) error

	// HasStagedChanges reports whether the index differs from HEAD.
	HasStagedChanges(ctx context.Context) (bool, error)

	// Commit creates a commit with the given message.
	Commit(ctx context.Context, message string) error

	// Merge merges ref into the current branch. When allowUnrelated is true
	// the merge permits unrelated histories.
	Merge(ctx context.Context, ref string, allowUnrelated bool) error

	// Push pushes commits to the remote repository.
	// If setUpstream is true, sets the upstream tracking reference.
	Push(ctx context.Context, remote, branch string, setUpstream bool) error

	// CurrentBranch returns the name of the currently checked out branch.
	// Returns an error if in detached HEAD state.
	CurrentBranch(ctx context.Context) (string, error)

	// BranchExists checks if a local branch exists in the repository.
	BranchExists(ctx context.Context, name string) (bool, error)
}
