// Package git provides git and GitHub operations for syncer.
// This file implements workflow dispatch and run watching.
package git

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dev-users/syncer/internal/ctxutil"
	syncererrors "github.com/dev-users/syncer/internal/errors"
)

// DispatchWorkflow triggers a workflow_dispatch event for the workflow
// file on ref with the given inputs.
func (r *CLIHubRunner) DispatchWorkflow(ctx context.Context, workflowFile, ref string, inputs map[string]string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if workflowFile == "" {
		return fmt.Errorf("workflow file cannot be empty: %w", syncererrors.ErrEmptyValue)
	}
	if ref == "" {
		return fmt.Errorf("ref cannot be empty: %w", syncererrors.ErrEmptyValue)
	}

	args := []string{
		"api", "--method", "POST",
		r.apiPath("/actions/workflows/" + workflowFile + "/dispatches"),
		"-f", "ref=" + ref,
	}
	for key, value := range inputs {
		args = append(args, "-f", "inputs["+key+"]="+value)
	}

	if _, err := r.gh(ctx, args...); err != nil {
		if classifyHubError(err) == HubErrorNotFound {
			return fmt.Errorf("workflow %q not found: %w", workflowFile, syncererrors.ErrWorkflowDispatchFailed)
		}
		return fmt.Errorf("failed to dispatch %q: %w: %w", workflowFile, syncererrors.ErrWorkflowDispatchFailed, err)
	}

	r.logger.Info().
		Str("workflow", workflowFile).
		Str("ref", ref).
		Msg("workflow dispatched")
	return nil
}

// workflowRun is the subset of the runs API payload that watching needs.
type workflowRun struct {
	ID         int64  `json:"id"`
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
	HTMLURL    string `json:"html_url"`
}

// WatchRun polls the latest workflow run on branch until it completes or
// the timeout elapses.
func (r *CLIHubRunner) WatchRun(ctx context.Context, branch string, interval, timeout time.Duration) (*RunResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if interval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive: %w", syncererrors.ErrInvalidDuration)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive: %w", syncererrors.ErrInvalidDuration)
	}

	start := time.Now()
	deadline := start.Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		run, err := r.latestRun(ctx, branch)
		if err != nil {
			return nil, err
		}

		if run != nil && run.Status == "completed" {
			result := &RunResult{
				ID:         run.ID,
				Conclusion: run.Conclusion,
				URL:        run.HTMLURL,
				Elapsed:    time.Since(start),
			}
			r.logger.Info().
				Int64("run_id", run.ID).
				Str("conclusion", run.Conclusion).
				Dur("elapsed", result.Elapsed).
				Msg("workflow run completed")
			if run.Conclusion != "success" {
				return result, fmt.Errorf("run %d concluded %q: %w",
					run.ID, run.Conclusion, syncererrors.ErrWorkflowFailed)
			}
			return result, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("no completed run on %q after %s: %w",
				branch, timeout, syncererrors.ErrWorkflowTimeout)
		}

		r.logger.Debug().
			Str("branch", branch).
			Msg("workflow still running, waiting")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// latestRun fetches the most recent workflow run on a branch, or nil when
// none exist yet.
func (r *CLIHubRunner) latestRun(ctx context.Context, branch string) (*workflowRun, error) {
	output, err := r.gh(ctx, "api",
		r.apiPath("/actions/runs?branch="+branch+"&per_page=1"),
		"--jq", ".workflow_runs")
	if err != nil {
		return nil, fmt.Errorf("failed to query workflow runs: %w: %w", syncererrors.ErrGitHubOperation, err)
	}

	var runs []workflowRun
	if err := json.Unmarshal(output, &runs); err != nil {
		return nil, fmt.Errorf("failed to parse workflow runs: %w", err)
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
