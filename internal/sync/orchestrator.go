package sync

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dev-users/syncer/internal/constants"
	"github.com/dev-users/syncer/internal/ctxutil"
	"github.com/dev-users/syncer/internal/errors"
	"github.com/dev-users/syncer/internal/git"
)

// Request describes one sync run.
type Request struct {
	// Username and Email set the commit identity. Both are required.
	Username string
	Email    string

	// CommitMessage is used for the sync commit. Empty means "Auto sync".
	CommitMessage string

	// DefaultBranch is the base branch for the pull request. Empty means "main".
	DefaultBranch string

	// WorkBranch stages the sync commit. Empty means "temp-sync".
	WorkBranch string

	// RemoteName is the remote the work branch is pushed to. Empty means "origin".
	RemoteName string
}

// Outcome is the terminal state of a sync run.
type Outcome int

// Sync run outcomes.
const (
	// OutcomeMerged means a pull request was merged into the default branch.
	OutcomeMerged Outcome = iota

	// OutcomeNoChanges means the working tree had nothing to commit; the
	// run stopped before creating a commit or PR.
	OutcomeNoChanges

	// OutcomeNoPR means no open PR matched the head/base filter after
	// creation; nothing was merged.
	OutcomeNoPR
)

// String returns the human-readable outcome message.
func (o Outcome) String() string {
	switch o {
	case OutcomeMerged:
		return "merged"
	case OutcomeNoChanges:
		return "no changes to commit"
	case OutcomeNoPR:
		return "no PR found"
	default:
		return "unknown"
	}
}

// Result reports what a sync run did.
type Result struct {
	Outcome Outcome

	// PRNumber is set when Outcome is OutcomeMerged.
	PRNumber int

	// CommitCreated is true when a sync commit was made on the work branch.
	CommitCreated bool
}

// Orchestrator drives the sync pipeline: stage changes on the work branch,
// open a pull request, and merge it into the default branch.
type Orchestrator struct {
	git         git.Runner
	hub         git.HubRunner
	logger      zerolog.Logger
	mergeMethod string
	acquire     func(branch string) (*BranchGuard, error)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger for sync operations.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithMergeMethod selects the PR merge strategy (merge, squash, rebase).
func WithMergeMethod(method string) Option {
	return func(o *Orchestrator) {
		if method != "" {
			o.mergeMethod = method
		}
	}
}

// WithGuardFunc replaces branch guard acquisition (for testing).
func WithGuardFunc(acquire func(branch string) (*BranchGuard, error)) Option {
	return func(o *Orchestrator) {
		o.acquire = acquire
	}
}

// NewOrchestrator creates an Orchestrator over the given git and hosting
// platform runners.
func NewOrchestrator(gitRunner git.Runner, hub git.HubRunner, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		git:         gitRunner,
		hub:         hub,
		logger:      zerolog.Nop(),
		mergeMethod: constants.DefaultMergeMethod,
		acquire:     AcquireBranchGuard,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one sync. Git steps are never retried; a failure in any of
// them aborts the run. "Nothing staged" and "no matching PR" are reported
// as successful no-op outcomes, not errors.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	if err := normalizeRequest(&req); err != nil {
		return nil, err
	}

	// Two runs syncing the same work branch would race on checkout and
	// commit state; the second fails fast.
	guard, err := o.acquire(req.WorkBranch)
	if err != nil {
		return nil, err
	}
	defer func() { _ = guard.Release() }()

	o.logger.Info().
		Str("work_branch", req.WorkBranch).
		Str("default_branch", req.DefaultBranch).
		Msg("starting sync run")

	committed, err := o.stageAndCommit(ctx, req)
	if err != nil {
		return nil, err
	}
	if !committed {
		o.logger.Info().Msg("no changes to commit")
		return &Result{Outcome: OutcomeNoChanges}, nil
	}

	if err := o.git.Push(ctx, req.RemoteName, req.WorkBranch, true); err != nil {
		return nil, err
	}

	if err := o.openPR(ctx, req); err != nil {
		return nil, err
	}

	return o.mergeMatchingPR(ctx, req)
}

// normalizeRequest validates required fields and applies defaults.
func normalizeRequest(req *Request) error {
	if req.Username == "" || req.Email == "" {
		return errors.Wrap(errors.ErrEmptyValue, "sync identity (username and email) is required")
	}
	if req.CommitMessage == "" {
		req.CommitMessage = constants.DefaultCommitMessage
	}
	if req.DefaultBranch == "" {
		req.DefaultBranch = constants.DefaultBaseBranch
	}
	if req.WorkBranch == "" {
		req.WorkBranch = constants.DefaultWorkBranch
	}
	if req.RemoteName == "" {
		req.RemoteName = constants.DefaultRemoteName
	}
	if req.WorkBranch == req.DefaultBranch {
		return errors.Wrapf(errors.ErrBranchExists,
			"work branch and default branch are both %q", req.WorkBranch)
	}
	return nil
}

// stageAndCommit checks out the work branch, sets the commit identity, and
// commits all staged changes. Returns false when the tree was clean.
func (o *Orchestrator) stageAndCommit(ctx context.Context, req Request) (bool, error) {
	if err := o.git.Checkout(ctx, req.WorkBranch); err != nil {
		return false, err
	}

	if err := o.git.SetUser(ctx, req.Username, req.Email); err != nil {
		return false, err
	}

	if err := o.git.Add(ctx, nil); err != nil {
		return false, err
	}

	staged, err := o.git.HasStagedChanges(ctx)
	if err != nil {
		return false, err
	}
	if !staged {
		return false, nil
	}

	if err := o.git.Commit(ctx, req.CommitMessage); err != nil {
		return false, err
	}

	o.logger.Info().
		Str("message", req.CommitMessage).
		Str("branch", req.WorkBranch).
		Msg("sync commit created")
	return true, nil
}

// openPR creates the sync pull request. An existing PR for the same
// head/base pair counts as success.
func (o *Orchestrator) openPR(ctx context.Context, req Request) error {
	result, err := o.hub.CreatePR(ctx, git.PRCreateOptions{
		Title:      constants.SyncPRTitle,
		Body:       constants.SyncPRBody,
		BaseBranch: req.DefaultBranch,
		HeadBranch: req.WorkBranch,
	})
	if err != nil {
		return err
	}

	if result.Existing {
		o.logger.Info().Int("pr_number", result.Number).Msg("reusing existing pull request")
	} else {
		o.logger.Info().Int("pr_number", result.Number).Msg("pull request opened")
	}
	return nil
}

// mergeMatchingPR looks up the open PR for the head/base pair and merges
// it, deleting the work branch. Multiple matches take the first in the
// platform's list order.
func (o *Orchestrator) mergeMatchingPR(ctx context.Context, req Request) (*Result, error) {
	prs, err := o.hub.ListPRs(ctx, req.WorkBranch, req.DefaultBranch)
	if err != nil {
		return nil, err
	}

	if len(prs) == 0 {
		o.logger.Info().
			Str("head", req.WorkBranch).
			Str("base", req.DefaultBranch).
			Msg("no PR found")
		return &Result{Outcome: OutcomeNoPR, CommitCreated: true}, nil
	}

	pr := prs[0]
	if err := o.hub.MergePR(ctx, pr.Number, o.mergeMethod, true); err != nil {
		return nil, fmt.Errorf("merge PR #%d: %w", pr.Number, err)
	}

	o.logger.Info().
		Int("pr_number", pr.Number).
		Str("method", o.mergeMethod).
		Msg("merged PR and deleted work branch")

	return &Result{
		Outcome:       OutcomeMerged,
		PRNumber:      pr.Number,
		CommitCreated: true,
	}, nil
}
