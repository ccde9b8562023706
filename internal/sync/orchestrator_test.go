package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-users/syncer/internal/errors"
	"github.com/dev-users/syncer/internal/git"
)

// botRequest mirrors the canonical sync inputs used throughout the tests.
func botRequest() Request {
	return Request{
		Username:      "bot",
		Email:         "bot@x.com",
		CommitMessage: "sync",
		DefaultBranch: "main",
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "merged", OutcomeMerged.String())
	assert.Equal(t, "no changes to commit", OutcomeNoChanges.String())
	assert.Equal(t, "no PR found", OutcomeNoPR.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}

func TestOrchestrator_Run_FullSync(t *testing.T) {
	gitRunner := &fakeGitRunner{stagedChanges: true}
	hub := &fakeHubRunner{
		createPRResult: &git.PRResult{Number: 42, URL: "https://github.com/o/r/pull/42"},
		listPRsResult: []git.PullRequest{
			{Number: 42, Title: "Sync vault changes", State: "OPEN"},
		},
	}

	o := NewOrchestrator(gitRunner, hub, WithGuardFunc(noopGuard))

	result, err := o.Run(context.Background(), botRequest())
	require.NoError(t, err)

	assert.Equal(t, OutcomeMerged, result.Outcome)
	assert.Equal(t, 42, result.PRNumber)
	assert.True(t, result.CommitCreated)

	// Exactly one commit with the supplied message on the work branch.
	assert.Equal(t, []string{"sync"}, gitRunner.commitMessages)
	assert.Equal(t, []string{"temp-sync"}, gitRunner.checkedOut)
	assert.Equal(t, []string{"temp-sync"}, gitRunner.pushedBranches)
	assert.Equal(t, "bot", gitRunner.userName)
	assert.Equal(t, "bot@x.com", gitRunner.userEmail)

	// PR opened head=temp-sync base=main, then merged with branch deletion.
	assert.Equal(t, "temp-sync", hub.createOpts.HeadBranch)
	assert.Equal(t, "main", hub.createOpts.BaseBranch)
	assert.Equal(t, 42, hub.mergedNumber)
	assert.Equal(t, "merge", hub.mergedMethod)
	assert.True(t, hub.deletedBranch)
}

func TestOrchestrator_Run_EmptyDiff(t *testing.T) {
	gitRunner := &fakeGitRunner{stagedChanges: false}
	hub := &fakeHubRunner{}

	o := NewOrchestrator(gitRunner, hub, WithGuardFunc(noopGuard))

	result, err := o.Run(context.Background(), botRequest())
	require.NoError(t, err)

	assert.Equal(t, OutcomeNoChanges, result.Outcome)
	assert.False(t, result.CommitCreated)

	// No commit, no push, no PR.
	assert.Empty(t, gitRunner.commitMessages)
	assert.Empty(t, gitRunner.pushedBranches)
	assert.Zero(t, hub.createPRCalls)
	assert.Zero(t, hub.listPRCalls)
}

func TestOrchestrator_Run_NoMatchingPR(t *testing.T) {
	gitRunner := &fakeGitRunner{stagedChanges: true}
	hub := &fakeHubRunner{listPRsResult: nil}

	o := NewOrchestrator(gitRunner, hub, WithGuardFunc(noopGuard))

	result, err := o.Run(context.Background(), botRequest())
	require.NoError(t, err)

	assert.Equal(t, OutcomeNoPR, result.Outcome)
	assert.True(t, result.CommitCreated)
	assert.Zero(t, hub.mergedNumber)
	assert.Equal(t, "temp-sync", hub.listHead)
	assert.Equal(t, "main", hub.listBase)
}

func TestOrchestrator_Run_MultipleMatchesTakeFirst(t *testing.T) {
	gitRunner := &fakeGitRunner{stagedChanges: true}
	hub := &fakeHubRunner{
		listPRsResult: []git.PullRequest{
			{Number: 8},
			{Number: 3},
		},
	}

	o := NewOrchestrator(gitRunner, hub, WithGuardFunc(noopGuard))

	result, err := o.Run(context.Background(), botRequest())
	require.NoError(t, err)
	assert.Equal(t, 8, result.PRNumber)
	assert.Equal(t, 8, hub.mergedNumber)
}

func TestOrchestrator_Run_Defaults(t *testing.T) {
	gitRunner := &fakeGitRunner{stagedChanges: true}
	hub := &fakeHubRunner{
		listPRsResult: []git.PullRequest{{Number: 1}},
	}

	o := NewOrchestrator(gitRunner, hub, WithGuardFunc(noopGuard))

	_, err := o.Run(context.Background(), Request{Username: "bot", Email: "bot@x.com"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Auto sync"}, gitRunner.commitMessages)
	assert.Equal(t, []string{"temp-sync"}, gitRunner.checkedOut)
	assert.Equal(t, "main", hub.createOpts.BaseBranch)
}

func TestOrchestrator_Run_Validation(t *testing.T) {
	o := NewOrchestrator(&fakeGitRunner{}, &fakeHubRunner{}, WithGuardFunc(noopGuard))

	t.Run("missing identity", func(t *testing.T) {
		_, err := o.Run(context.Background(), Request{Username: "bot"})
		require.ErrorIs(t, err, errors.ErrEmptyValue)
	})

	t.Run("work branch equals default", func(t *testing.T) {
		req := botRequest()
		req.WorkBranch = "main"
		_, err := o.Run(context.Background(), req)
		require.ErrorIs(t, err, errors.ErrBranchExists)
	})
}

func TestOrchestrator_Run_GitFailuresAreFatal(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*fakeGitRunner)
	}{
		{"checkout fails", func(f *fakeGitRunner) { f.checkoutErr = errors.ErrGitOperation }},
		{"set user fails", func(f *fakeGitRunner) { f.setUserErr = errors.ErrGitOperation }},
		{"add fails", func(f *fakeGitRunner) { f.addErr = errors.ErrGitOperation }},
		{"staged check fails", func(f *fakeGitRunner) { f.hasStagedErr = errors.ErrGitOperation }},
		{"commit fails", func(f *fakeGitRunner) { f.commitErr = errors.ErrGitOperation }},
		{"push fails", func(f *fakeGitRunner) { f.pushErr = errors.ErrGitOperation }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gitRunner := &fakeGitRunner{stagedChanges: true}
			tt.mutate(gitRunner)
			hub := &fakeHubRunner{}

			o := NewOrchestrator(gitRunner, hub, WithGuardFunc(noopGuard))

			_, err := o.Run(context.Background(), botRequest())
			require.ErrorIs(t, err, errors.ErrGitOperation)
			assert.Zero(t, hub.createPRCalls)
		})
	}
}

func TestOrchestrator_Run_PlatformFailures(t *testing.T) {
	t.Run("PR creation failure propagates", func(t *testing.T) {
		gitRunner := &fakeGitRunner{stagedChanges: true}
		hub := &fakeHubRunner{createPRErr: errors.ErrPRCreationFailed}

		o := NewOrchestrator(gitRunner, hub, WithGuardFunc(noopGuard))

		_, err := o.Run(context.Background(), botRequest())
		require.ErrorIs(t, err, errors.ErrPRCreationFailed)
	})

	t.Run("merge failure propagates", func(t *testing.T) {
		gitRunner := &fakeGitRunner{stagedChanges: true}
		hub := &fakeHubRunner{
			listPRsResult: []git.PullRequest{{Number: 5}},
			mergePRErr:    errors.ErrPRMergeFailed,
		}

		o := NewOrchestrator(gitRunner, hub, WithGuardFunc(noopGuard))

		_, err := o.Run(context.Background(), botRequest())
		require.ErrorIs(t, err, errors.ErrPRMergeFailed)
	})

	t.Run("existing PR is reused", func(t *testing.T) {
		gitRunner := &fakeGitRunner{stagedChanges: true}
		hub := &fakeHubRunner{
			createPRResult: &git.PRResult{Number: 13, Existing: true},
			listPRsResult:  []git.PullRequest{{Number: 13}},
		}

		o := NewOrchestrator(gitRunner, hub, WithGuardFunc(noopGuard))

		result, err := o.Run(context.Background(), botRequest())
		require.NoError(t, err)
		assert.Equal(t, OutcomeMerged, result.Outcome)
		assert.Equal(t, 13, result.PRNumber)
	})
}

func TestOrchestrator_Run_GuardHeld(t *testing.T) {
	gitRunner := &fakeGitRunner{stagedChanges: true}
	hub := &fakeHubRunner{}

	o := NewOrchestrator(gitRunner, hub, WithGuardFunc(func(string) (*BranchGuard, error) {
		return nil, errors.Wrapf(errors.ErrSyncInProgress, "branch %q", "temp-sync")
	}))

	_, err := o.Run(context.Background(), botRequest())
	require.ErrorIs(t, err, errors.ErrSyncInProgress)
	assert.Empty(t, gitRunner.calls)
}

func TestOrchestrator_Run_MergeMethodOption(t *testing.T) {
	gitRunner := &fakeGitRunner{stagedChanges: true}
	hub := &fakeHubRunner{listPRsResult: []git.PullRequest{{Number: 9}}}

	o := NewOrchestrator(gitRunner, hub,
		WithGuardFunc(noopGuard),
		WithMergeMethod("squash"),
	)

	_, err := o.Run(context.Background(), botRequest())
	require.NoError(t, err)
	assert.Equal(t, "squash", hub.mergedMethod)
}

func TestOrchestrator_Run_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := NewOrchestrator(&fakeGitRunner{}, &fakeHubRunner{}, WithGuardFunc(noopGuard))

	_, err := o.Run(ctx, botRequest())
	require.ErrorIs(t, err, context.Canceled)
}
