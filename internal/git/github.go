// Package git provides git and GitHub operations for syncer.
// This file implements the HubRunner for GitHub operations via the gh CLI.
package git

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// HubErrorType classifies GitHub operation failures for appropriate handling.
type HubErrorType int

const (
	// HubErrorNone indicates no error occurred.
	HubErrorNone HubErrorType = iota
	// HubErrorAuth indicates authentication failed - don't retry.
	HubErrorAuth
	// HubErrorRateLimit indicates rate limited - retry with backoff.
	HubErrorRateLimit
	// HubErrorNetwork indicates a network issue - retry with backoff.
	HubErrorNetwork
	// HubErrorNotFound indicates resource not found - don't retry.
	HubErrorNotFound
	// HubErrorOther indicates an unknown error - don't retry.
	HubErrorOther
)

// String returns a string representation of the error type.
func (t HubErrorType) String() string {
	switch t {
	case HubErrorNone:
		return "none"
	case HubErrorAuth:
		return "auth"
	case HubErrorRateLimit:
		return "rate_limit"
	case HubErrorNetwork:
		return "network"
	case HubErrorNotFound:
		return "not_found"
	case HubErrorOther:
		return "other"
	}
	return "other"
}

// PRCreateOptions configures the PR creation operation.
type PRCreateOptions struct {
	// Title is the PR title (required).
	Title string
	// Body is the PR description/body (required).
	Body string
	// BaseBranch is the target branch (default: "main").
	BaseBranch string
	// HeadBranch is the source branch with changes (required).
	HeadBranch string
}

// PRResult contains the outcome of a PR creation.
type PRResult struct {
	// Number is the PR number.
	Number int
	// URL is the full URL to the PR.
	URL string
	// Existing is true when the PR already existed for the head/base pair.
	Existing bool
	// ErrorType classifies the error if creation failed.
	ErrorType HubErrorType
	// Attempts is the number of creation attempts made.
	Attempts int
	// FinalErr is the final error if creation failed.
	FinalErr error
}

// PullRequest describes an open pull request returned by ListPRs.
type PullRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
	URL    string `json:"url"`
}

// Repo describes the target repository.
type Repo struct {
	Owner         string
	Name          string
	DefaultBranch string
}

// RunResult describes the terminal state of a dispatched workflow run.
type RunResult struct {
	// ID is the workflow run identifier.
	ID int64
	// Conclusion is the run conclusion (success, failure, cancelled, ...).
	Conclusion string
	// URL links to the run.
	URL string
	// Elapsed is the total time spent polling.
	Elapsed time.Duration
}

// RemoteFile describes an entry returned by the contents API.
type RemoteFile struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	SHA         string `json:"sha"`
	Size        int64  `json:"size"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

// HubRunner defines operations for GitHub via the gh CLI.
// Named HubRunner (not GitHubRunner) to avoid stutter with the package name.
type HubRunner interface {
	// CreatePR creates a pull request and returns the result. Creation is
	// idempotent: an existing PR for the same head/base pair is a success.
	CreatePR(ctx context.Context, opts PRCreateOptions) (*PRResult, error)

	// ListPRs returns open pull requests filtered by head and base branch,
	// in the platform's list order.
	ListPRs(ctx context.Context, head, base string) ([]PullRequest, error)

	// MergePR merges a pull request using the given method, optionally
	// deleting the head branch.
	MergePR(ctx context.Context, number int, method string, deleteBranch bool) error

	// RepoInfo returns the repository's owner, name, and default branch.
	RepoInfo(ctx context.Context) (*Repo, error)

	// ListBranches returns the names of all remote branches.
	ListBranches(ctx context.Context) ([]string, error)

	// BranchSHA returns the commit SHA a remote branch points at.
	BranchSHA(ctx context.Context, branch string) (string, error)

	// EnsureBranch creates the remote branch at fromSHA when it does not
	// already exist.
	EnsureBranch(ctx context.Context, branch, fromSHA string) (created bool, err error)

	// UploadFile creates or updates a file on the given branch via the
	// contents API.
	UploadFile(ctx context.Context, path, branch, message string, content []byte) error

	// ListDir lists the entries at path on the given ref via the contents API.
	ListDir(ctx context.Context, path, ref string) ([]RemoteFile, error)

	// DownloadFile fetches raw file content from the given branch.
	DownloadFile(ctx context.Context, path, ref string) ([]byte, error)

	// DispatchWorkflow triggers a workflow_dispatch event for the workflow
	// file on ref with the given inputs.
	DispatchWorkflow(ctx context.Context, workflowFile, ref string, inputs map[string]string) error

	// WatchRun polls the latest workflow run on branch until it completes
	// or the timeout elapses.
	WatchRun(ctx context.Context, branch string, interval, timeout time.Duration) (*RunResult, error)
}

// Compile-time interface check.
var _ HubRunner = (*CLIHubRunner)(nil)

// CLIHubRunner implements HubRunner using the gh CLI.
type CLIHubRunner struct {
	workDir string
	repo    string // "owner/name"; empty means gh resolves from the work dir
	logger  zerolog.Logger
	config  RetryConfig
	cmdExec CommandExecutor
}

// CLIHubRunnerOption configures a CLIHubRunner.
type CLIHubRunnerOption func(*CLIHubRunner)

// NewCLIHubRunner creates a CLIHubRunner with the given options.
func NewCLIHubRunner(workDir string, opts ...CLIHubRunnerOption) *CLIHubRunner {
	r := &CLIHubRunner{
		workDir: workDir,
		logger:  zerolog.Nop(),
		config:  DefaultRetryConfig(),
		cmdExec: &defaultCommandExecutor{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithHubLogger sets the logger for GitHub operations.
func WithHubLogger(logger zerolog.Logger) CLIHubRunnerOption {
	return func(r *CLIHubRunner) {
		r.logger = logger
	}
}

// WithHubRepo pins operations to an explicit "owner/name" repository
// instead of resolving it from the working directory's remote.
func WithHubRepo(repo string) CLIHubRunnerOption {
	return func(r *CLIHubRunner) {
		r.repo = repo
	}
}

// WithHubToken authenticates gh through the GH_TOKEN environment variable.
func WithHubToken(token string) CLIHubRunnerOption {
	return func(r *CLIHubRunner) {
		if token != "" {
			r.cmdExec = &defaultCommandExecutor{extraEnv: []string{"GH_TOKEN=" + token}}
		}
	}
}

// WithHubRetryConfig sets custom retry configuration.
func WithHubRetryConfig(config RetryConfig) CLIHubRunnerOption {
	return func(r *CLIHubRunner) {
		r.config = config
	}
}

// WithHubCommandExecutor sets a custom command executor (for testing).
func WithHubCommandExecutor(exec CommandExecutor) CLIHubRunnerOption {
	return func(r *CLIHubRunner) {
		r.cmdExec = exec
	}
}

// gh executes a gh command via the configured executor.
func (r *CLIHubRunner) gh(ctx context.Context, args ...string) ([]byte, error) {
	return r.cmdExec.Execute(ctx, r.workDir, "gh", args...)
}

// apiPath prefixes a repository-scoped API path. When the repository is
// pinned, the concrete owner/name is used; otherwise gh resolves the
// {owner}/{repo} placeholders from the working directory.
func (r *CLIHubRunner) apiPath(suffix string) string {
	repo := r.repo
	if repo == "" {
		repo = "{owner}/{repo}"
	}
	return "repos/" + repo + suffix
}

// repoFlags returns the -R flag pair for pr subcommands when a repository
// is pinned.
func (r *CLIHubRunner) repoFlags() []string {
	if r.repo == "" {
		return nil
	}
	return []string{"-R", r.repo}
}

// classifyHubError classifies a gh CLI error for retry handling.
func classifyHubError(err error) HubErrorType {
	if err == nil {
		return HubErrorNone
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return HubErrorNetwork
	}

	errStr := strings.ToLower(err.Error())

	if isHubRateLimitError(errStr) {
		return HubErrorRateLimit
	}
	if isHubAuthError(errStr) {
		return HubErrorAuth
	}
	if isHubNetworkError(errStr) {
		return HubErrorNetwork
	}
	if isHubNotFoundError(errStr) {
		return HubErrorNotFound
	}

	return HubErrorOther
}

// isHubRateLimitError checks if the error indicates a rate limit.
func isHubRateLimitError(errStr string) bool {
	patterns := []string{
		"rate limit exceeded",
		"api rate limit",
		"secondary rate limit",
		"abuse detection",
		"too many requests",
	}
	return containsAny(errStr, patterns)
}

// isHubAuthError checks if the error indicates an authentication failure.
func isHubAuthError(errStr string) bool {
	patterns := []string{
		"authentication required",
		"bad credentials",
		"not logged into",
		"must be authenticated",
		"gh auth login",
		"invalid token",
		"token expired",
	}
	return containsAny(errStr, patterns)
}

// isHubNetworkError checks if the error indicates a network issue.
func isHubNetworkError(errStr string) bool {
	patterns := []string{
		"could not resolve host",
		"connection refused",
		"network is unreachable",
		"connection timed out",
		"no route to host",
		"failed to connect",
		"timeout",
	}
	return containsAny(errStr, patterns)
}

// isHubNotFoundError checks if the error indicates a missing resource.
func isHubNotFoundError(errStr string) bool {
	patterns := []string{
		"not found",
		"could not find",
		"no pull requests found",
		"404",
	}
	return containsAny(errStr, patterns)
}

func containsAny(s string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(s, pattern) {
			return true
		}
	}
	return false
}

// shouldRetryHub determines if the error type is retryable.
func shouldRetryHub(errType HubErrorType) bool {
	return errType == HubErrorNetwork || errType == HubErrorRateLimit
}
