// Package git provides git and GitHub operations for syncer.
// This file implements pull request operations (create, list, merge).
package git

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dev-users/syncer/internal/ctxutil"
	syncererrors "github.com/dev-users/syncer/internal/errors"
)

// prAttemptResult holds the result of a single PR creation attempt.
type prAttemptResult struct {
	success  bool
	number   int
	url      string
	existing bool
	errType  HubErrorType
	err      error
}

// prURLPattern extracts the PR number from a pull request URL.
var prURLPattern = regexp.MustCompile(`/pull/(\d+)`)

// CreatePR creates a pull request via gh CLI with retry logic.
// An existing open PR for the same head/base pair is treated as success.
func (r *CLIHubRunner) CreatePR(ctx context.Context, opts PRCreateOptions) (*PRResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	if err := validatePROptions(&opts); err != nil {
		return nil, err
	}

	return r.executePRCreateWithRetry(ctx, opts)
}

// validatePROptions validates PR creation options and sets defaults.
func validatePROptions(opts *PRCreateOptions) error {
	if opts.Title == "" {
		return fmt.Errorf("PR title cannot be empty: %w", syncererrors.ErrEmptyValue)
	}
	if opts.Body == "" {
		return fmt.Errorf("PR body cannot be empty: %w", syncererrors.ErrEmptyValue)
	}
	if opts.HeadBranch == "" {
		return fmt.Errorf("head branch cannot be empty: %w", syncererrors.ErrEmptyValue)
	}
	if opts.BaseBranch == "" {
		opts.BaseBranch = "main"
	}
	return nil
}

// executePRCreateWithRetry executes PR creation with retry logic.
func (r *CLIHubRunner) executePRCreateWithRetry(ctx context.Context, opts PRCreateOptions) (*PRResult, error) {
	op := &SimpleRetryOperation[prAttemptResult]{
		AttemptFunc: func(ctx context.Context, attempt int) (prAttemptResult, bool, error) {
			result := r.attemptPRCreate(ctx, opts, attempt)
			return result, result.success, result.err
		},
		ShouldRetryFunc: func(err error) bool {
			return shouldRetryHub(classifyHubError(err))
		},
		OnRetryWaitFunc: func(attempt int, delay time.Duration) {
			r.logger.Info().
				Int("next_attempt", attempt+1).
				Dur("delay", delay).
				Msg("retrying PR creation")
		},
	}

	attemptResult, attempts, err := ExecuteWithRetry(ctx, r.config, op, r.logger)

	result := &PRResult{Attempts: attempts}
	if err == nil && attemptResult.success {
		result.Number = attemptResult.number
		result.URL = attemptResult.url
		result.Existing = attemptResult.existing
		return result, nil
	}

	// Distinguish parent context cancellation from an operation failure.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	result.ErrorType = attemptResult.errType
	result.FinalErr = attemptResult.err

	return result, buildPRFinalError(result)
}

// attemptPRCreate performs a single PR creation attempt.
func (r *CLIHubRunner) attemptPRCreate(ctx context.Context, opts PRCreateOptions, attempt int) prAttemptResult {
	r.logger.Info().
		Int("attempt", attempt).
		Str("title", opts.Title).
		Str("base", opts.BaseBranch).
		Str("head", opts.HeadBranch).
		Msg("creating pull request")

	args := []string{
		"pr", "create",
		"--title", opts.Title,
		"--body", opts.Body,
		"--base", opts.BaseBranch,
		"--head", opts.HeadBranch,
	}
	args = append(args, r.repoFlags()...)

	output, err := r.gh(ctx, args...)
	if err != nil {
		// gh reports an existing PR for the head/base pair as an error and
		// includes its URL; treat that as idempotent success.
		if url, number, ok := parseExistingPRError(err.Error()); ok {
			r.logger.Info().
				Int("pr_number", number).
				Str("pr_url", url).
				Msg("pull request already exists, reusing it")
			return prAttemptResult{success: true, number: number, url: url, existing: true}
		}

		errType := classifyHubError(err)
		r.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Str("error_type", errType.String()).
			Msg("PR creation failed")
		return prAttemptResult{success: false, errType: errType, err: err}
	}

	url, number := parsePRCreateOutput(string(output))
	if url == "" {
		parseErr := fmt.Errorf("failed to parse PR URL from gh output [%s]: %w",
			strings.TrimSpace(string(output)), syncererrors.ErrPRCreationFailed)
		return prAttemptResult{success: false, errType: HubErrorOther, err: parseErr}
	}

	r.logger.Info().
		Int("attempt", attempt).
		Int("pr_number", number).
		Str("pr_url", url).
		Msg("PR created successfully")

	return prAttemptResult{success: true, number: number, url: url}
}

// parsePRCreateOutput extracts the PR URL and number from gh pr create output.
// The URL is the last line that looks like a pull request link.
func parsePRCreateOutput(output string) (url string, number int) {
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		line = strings.TrimSpace(line)
		if m := prURLPattern.FindStringSubmatch(line); m != nil && strings.HasPrefix(line, "http") {
			url = line
			number, _ = strconv.Atoi(m[1])
		}
	}
	return url, number
}

// parseExistingPRError detects gh's "already exists" error and extracts the
// existing PR's URL and number.
func parseExistingPRError(errStr string) (url string, number int, ok bool) {
	if !strings.Contains(strings.ToLower(errStr), "already exists") {
		return "", 0, false
	}
	m := prURLPattern.FindStringSubmatch(errStr)
	if m == nil {
		// Existing PR without a parseable URL still counts as idempotent
		// success; the caller looks the number up via ListPRs.
		return "", 0, true
	}
	number, _ = strconv.Atoi(m[1])

	// Recover the full URL from the message
	for _, field := range strings.Fields(errStr) {
		if strings.Contains(field, "/pull/") {
			url = strings.Trim(field, `"'.,`)
			break
		}
	}
	return url, number, true
}

// buildPRFinalError builds the appropriate error based on the error type.
func buildPRFinalError(result *PRResult) error {
	switch result.ErrorType {
	case HubErrorNone:
		return nil
	case HubErrorAuth:
		return fmt.Errorf("authentication failed: %w", syncererrors.ErrGHAuthFailed)
	case HubErrorRateLimit:
		return fmt.Errorf("rate limited after %d attempts: %w", result.Attempts, syncererrors.ErrGHRateLimited)
	case HubErrorNetwork:
		return fmt.Errorf("network error after %d attempts: %w", result.Attempts, syncererrors.ErrPRCreationFailed)
	case HubErrorNotFound:
		return fmt.Errorf("resource not found: %w", syncererrors.ErrPRCreationFailed)
	case HubErrorOther:
		return fmt.Errorf("failed to create PR: %w", result.FinalErr)
	}
	return fmt.Errorf("failed to create PR: %w", result.FinalErr)
}

// ListPRs returns open pull requests filtered by head and base branch in
// the platform's list order (newest first).
func (r *CLIHubRunner) ListPRs(ctx context.Context, head, base string) ([]PullRequest, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	args := []string{"pr", "list", "--state", "open", "--json", "number,title,state,url"}
	if head != "" {
		args = append(args, "--head", head)
	}
	if base != "" {
		args = append(args, "--base", base)
	}
	args = append(args, r.repoFlags()...)

	output, err := r.gh(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w: %w", syncererrors.ErrGitHubOperation, err)
	}

	var prs []PullRequest
	if err := json.Unmarshal(output, &prs); err != nil {
		return nil, fmt.Errorf("failed to parse pr list output: %w", err)
	}

	return prs, nil
}

// MergePR merges a pull request using the specified merge method.
func (r *CLIHubRunner) MergePR(ctx context.Context, number int, method string, deleteBranch bool) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if number <= 0 {
		return fmt.Errorf("invalid PR number %d: %w", number, syncererrors.ErrEmptyValue)
	}

	args := []string{"pr", "merge", strconv.Itoa(number)}

	switch method {
	case "squash":
		args = append(args, "--squash")
	case "rebase":
		args = append(args, "--rebase")
	default:
		args = append(args, "--merge")
	}

	if deleteBranch {
		args = append(args, "--delete-branch")
	} else {
		args = append(args, "--delete-branch=false")
	}
	args = append(args, r.repoFlags()...)

	if _, err := r.gh(ctx, args...); err != nil {
		errType := classifyHubError(err)
		//nolint:exhaustive // Other error types handled by default case
		switch errType {
		case HubErrorNotFound:
			return fmt.Errorf("PR #%d not found: %w", number, syncererrors.ErrPRNotFound)
		case HubErrorAuth:
			return fmt.Errorf("merge failed - permission denied: %w", syncererrors.ErrGHAuthFailed)
		default:
			return fmt.Errorf("failed to merge PR #%d: %w: %w", number, syncererrors.ErrPRMergeFailed, err)
		}
	}

	r.logger.Info().
		Int("pr_number", number).
		Str("method", method).
		Bool("delete_branch", deleteBranch).
		Msg("PR merged")
	return nil
}
