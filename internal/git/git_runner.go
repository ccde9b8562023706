// Package git provides git and GitHub operations for syncer.
// This file implements the CLIRunner which wraps git CLI commands.
package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/dev-users/syncer/internal/ctxutil"
	syncererrors "github.com/dev-users/syncer/internal/errors"
)

// CLIRunner implements Runner using the git CLI.
type CLIRunner struct {
	workDir string
	cmdExec CommandExecutor
}

// Compile-time interface check.
var _ Runner = (*CLIRunner)(nil)

// CLIRunnerOption configures a CLIRunner.
type CLIRunnerOption func(*CLIRunner)

// WithGitCommandExecutor sets a custom command executor (for testing).
func WithGitCommandExecutor(exec CommandExecutor) CLIRunnerOption {
	return func(r *CLIRunner) {
		r.cmdExec = exec
	}
}

// NewRunner creates a new CLIRunner for the given working directory.
// Returns an error if the directory is not a git repository.
func NewRunner(ctx context.Context, workDir string, opts ...CLIRunnerOption) (*CLIRunner, error) {
	if workDir == "" {
		return nil, fmt.Errorf("work directory cannot be empty: %w", syncererrors.ErrEmptyValue)
	}

	r := &CLIRunner{
		workDir: workDir,
		cmdExec: &defaultCommandExecutor{},
	}
	for _, opt := range opts {
		opt(r)
	}

	// Verify this is a git repository
	if _, err := r.git(ctx, "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("%w: %w", syncererrors.ErrNotGitRepo, err)
	}

	return r, nil
}

// Status returns the current working tree status.
func (r *CLIRunner) Status(ctx context.Context) (*Status, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	output, err := r.git(ctx, "status", "--porcelain", "-uall", "--branch")
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	return parseGitStatus(output), nil
}

// Checkout switches to the named branch, creating it from HEAD when it does
// not exist yet.
func (r *CLIRunner) Checkout(ctx context.Context, branch string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if branch == "" {
		return fmt.Errorf("branch name cannot be empty: %w", syncererrors.ErrEmptyValue)
	}

	exists, err := r.BranchExists(ctx, branch)
	if err != nil {
		return fmt.Errorf("checking branch existence: %w", err)
	}

	args := []string{"checkout", branch}
	if !exists {
		args = []string{"checkout", "-b", branch}
	}

	if _, err := r.git(ctx, args...); err != nil {
		return fmt.Errorf("failed to checkout branch '%s': %w", branch, err)
	}

	return nil
}

// SetUser sets the local commit identity.
func (r *CLIRunner) SetUser(ctx context.Context, name, email string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if name == "" || email == "" {
		return fmt.Errorf("user name and email are required: %w", syncererrors.ErrEmptyValue)
	}

	if _, err := r.git(ctx, "config", "user.name", name); err != nil {
		return fmt.Errorf("failed to set user.name: %w", err)
	}
	if _, err := r.git(ctx, "config", "user.email", email); err != nil {
		return fmt.Errorf("failed to set user.email: %w", err)
	}

	return nil
}

// RemoteExists reports whether the named remote is configured.
func (r *CLIRunner) RemoteExists(ctx context.Context, name string) (bool, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return false, err
	}

	output, err := r.git(ctx, "remote")
	if err != nil {
		return false, fmt.Errorf("failed to list remotes: %w", err)
	}

	for _, remote := range strings.Fields(output) {
		if remote == name {
			return true, nil
		}
	}
	return false, nil
}

// AddRemote adds a remote with the given URL.
func (r *CLIRunner) AddRemote(ctx context.Context, name, url string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if _, err := r.git(ctx, "remote", "add", name, url); err != nil {
		return fmt.Errorf("failed to add remote %s: %w", name, err)
	}
	return nil
}

// SetRemoteURL updates the URL of an existing remote.
func (r *CLIRunner) SetRemoteURL(ctx context.Context, name, url string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if _, err := r.git(ctx, "remote", "set-url", name, url); err != nil {
		return fmt.Errorf("failed to set remote url for %s: %w", name, err)
	}
	return nil
}

// Fetch downloads objects and refs from a remote repository.
func (r *CLIRunner) Fetch(ctx context.Context, remote string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if remote == "" {
		remote = "origin"
	}

	if _, err := r.git(ctx, "fetch", remote); err != nil {
		return fmt.Errorf("failed to fetch from %s: %w", remote, err)
	}

	return nil
}

// Add stages files for commit.
func (r *CLIRunner) Add(ctx context.Context, paths []string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	args := []string{"add"}
	if len(paths) == 0 {
		// Stage all changes
		args = append(args, "-A")
	} else {
		args = append(args, "--")
		args = append(args, paths...)
	}

	if _, err := r.git(ctx, args...); err != nil {
		return fmt.Errorf("failed to add files: %w", err)
	}

	return nil
}

// HasStagedChanges reports whether the index differs from HEAD.
// Uses --name-only output rather than exit codes so failures stay
// distinguishable from "changes present".
func (r *CLIRunner) HasStagedChanges(ctx context.Context) (bool, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return false, err
	}

	output, err := r.git(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		// An unborn HEAD has no baseline to diff against; everything in the
		// index counts as staged.
		if strings.Contains(strings.ToLower(err.Error()), "bad revision") ||
			strings.Contains(strings.ToLower(err.Error()), "ambiguous argument") {
			lsOut, lsErr := r.git(ctx, "ls-files", "--cached")
			if lsErr != nil {
				return false, fmt.Errorf("failed to inspect index: %w", lsErr)
			}
			return lsOut != "", nil
		}
		return false, fmt.Errorf("failed to diff staged changes: %w", err)
	}

	return output != "", nil
}

// Commit creates a commit with the given message.
func (r *CLIRunner) Commit(ctx context.Context, message string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if message == "" {
		return fmt.Errorf("commit message cannot be empty: %w", syncererrors.ErrEmptyValue)
	}

	// Use --cleanup=strip to handle formatting (removes trailing whitespace, blank lines)
	if _, err := r.git(ctx, "commit", "-m", message, "--cleanup=strip"); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}

// Merge merges ref into the current branch without opening an editor.
func (r *CLIRunner) Merge(ctx context.Context, ref string, allowUnrelated bool) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if ref == "" {
		return fmt.Errorf("merge ref cannot be empty: %w", syncererrors.ErrEmptyValue)
	}

	args := []string{"merge", ref, "--no-edit"}
	if allowUnrelated {
		args = append(args, "--allow-unrelated-histories")
	}

	if _, err := r.git(ctx, args...); err != nil {
		errStr := strings.ToLower(err.Error())
		if strings.Contains(errStr, "conflict") || strings.Contains(errStr, "unrelated histories") {
			return fmt.Errorf("merge of %s: %w: %w", ref, syncererrors.ErrMergeConflict, err)
		}
		return fmt.Errorf("failed to merge %s: %w", ref, err)
	}

	return nil
}

// Push pushes commits to the remote repository.
func (r *CLIRunner) Push(ctx context.Context, remote, branch string, setUpstream bool) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	args := []string{"push"}
	if setUpstream {
		args = append(args, "--set-upstream")
	}
	args = append(args, remote, branch)

	if _, err := r.git(ctx, args...); err != nil {
		return fmt.Errorf("failed to push: %w", err)
	}

	return nil
}

// CurrentBranch returns the name of the currently checked out branch.
func (r *CLIRunner) CurrentBranch(ctx context.Context) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	output, err := r.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}

	// Handle detached HEAD state
	if output == "HEAD" {
		return "", fmt.Errorf("repository is in detached HEAD state: %w", syncererrors.ErrGitOperation)
	}

	return output, nil
}

// BranchExists checks if a local branch exists in the repository.
func (r *CLIRunner) BranchExists(ctx context.Context, name string) (bool, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return false, err
	}

	_, err := r.git(ctx, "show-ref", "--verify", "refs/heads/"+name)
	if err != nil {
		// A missing ref is expected, not a failure
		errStr := err.Error()
		if strings.Contains(errStr, "exit status 1") ||
			strings.Contains(errStr, "not a valid ref") ||
			strings.Contains(errStr, "command failed") {
			return false, nil
		}
		return false, fmt.Errorf("failed to check branch existence: %w", err)
	}
	return true, nil
}

// git executes a git command via the configured executor and returns its
// trimmed output, wrapping failures with ErrGitOperation.
func (r *CLIRunner) git(ctx context.Context, args ...string) (string, error) {
	output, err := r.cmdExec.Execute(ctx, r.workDir, "git", args...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %w", syncererrors.ErrGitOperation, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// parseGitStatus parses git status --porcelain --branch output.
func parseGitStatus(output string) *Status {
	status := &Status{
		Staged:    []FileChange{},
		Unstaged:  []FileChange{},
		Untracked: []string{},
	}

	for _, line := range strings.Split(output, "\n") {
		if len(line) < 2 {
			continue
		}

		// Branch line: ## branch...origin/branch [ahead N, behind M]
		if strings.HasPrefix(line, "## ") {
			branch := strings.TrimPrefix(line, "## ")
			if idx := strings.Index(branch, "..."); idx != -1 {
				branch = branch[:idx]
			}
			status.Branch = branch
			continue
		}

		if len(line) < 4 {
			continue
		}

		// XY PATH or XY ORIG -> PATH (for renames)
		indexStatus := line[0]
		workTreeStatus := line[1]
		path := strings.TrimSpace(line[3:])

		var oldPath string
		if strings.Contains(path, " -> ") {
			parts := strings.SplitN(path, " -> ", 2)
			oldPath = parts[0]
			path = parts[1]
		}

		if indexStatus == '?' && workTreeStatus == '?' {
			status.Untracked = append(status.Untracked, path)
			continue
		}

		if indexStatus != ' ' && indexStatus != '?' {
			status.Staged = append(status.Staged, FileChange{
				Path:    path,
				Status:  ChangeType(string(indexStatus)),
				OldPath: oldPath,
			})
		}

		if workTreeStatus != ' ' && workTreeStatus != '?' {
			status.Unstaged = append(status.Unstaged, FileChange{
				Path:    path,
				Status:  ChangeType(string(workTreeStatus)),
				OldPath: oldPath,
			})
		}
	}

	return status
}
