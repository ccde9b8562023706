package sync

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dev-users/syncer/internal/constants"
	"github.com/dev-users/syncer/internal/ctxutil"
	"github.com/dev-users/syncer/internal/errors"
	"github.com/dev-users/syncer/internal/git"
)

// LocalRequest describes a direct sync of a local vault working copy
// against its remote, without a pull request.
type LocalRequest struct {
	// Username and Email set the commit identity. Both are required.
	Username string
	Email    string

	// CommitMessage is used for pre- and post-merge commits.
	// Empty means "Auto sync".
	CommitMessage string

	// DefaultBranch is the remote branch merged and pushed to.
	// Empty means "main".
	DefaultBranch string

	// RemoteName is the remote to fetch from and push to. Empty means "origin".
	RemoteName string

	// RepoURL, when set, is configured as the remote's URL (added or
	// updated) before fetching.
	RepoURL string
}

// LocalResult reports what a local sync did.
type LocalResult struct {
	// Branch is the branch that was checked out when the sync ran.
	Branch string

	// ChangedFiles counts the staged, unstaged, and untracked paths found
	// before anything was committed.
	ChangedFiles int

	// PreMergeCommit is true when local changes were committed before merging.
	PreMergeCommit bool

	// PostMergeCommit is true when the merge left staged changes that were
	// committed afterwards.
	PostMergeCommit bool

	// UsedUnrelatedHistories is true when the merge needed the
	// unrelated-histories fallback.
	UsedUnrelatedHistories bool
}

// LocalSyncer merges a remote branch into a local vault and pushes the result.
type LocalSyncer struct {
	git    git.Runner
	logger zerolog.Logger
}

// NewLocalSyncer creates a LocalSyncer over the given git runner.
func NewLocalSyncer(gitRunner git.Runner, logger zerolog.Logger) *LocalSyncer {
	return &LocalSyncer{git: gitRunner, logger: logger}
}

// Run performs the local sync: inspect the checked-out branch and pending
// changes, configure identity and remote, fetch, commit
// local changes, merge the remote default branch (falling back to
// --allow-unrelated-histories for fresh repos), commit merge results, push.
// Fetch, merge, and push failures are fatal; clean trees skip their commits.
func (s *LocalSyncer) Run(ctx context.Context, req LocalRequest) (*LocalResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	if err := normalizeLocalRequest(&req); err != nil {
		return nil, err
	}

	branch, err := s.git.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}

	status, err := s.git.Status(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.git.SetUser(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	if err := s.configureRemote(ctx, req); err != nil {
		return nil, err
	}

	if err := s.git.Fetch(ctx, req.RemoteName); err != nil {
		return nil, err
	}

	result := &LocalResult{Branch: branch, ChangedFiles: status.ChangeCount()}

	committed, err := s.commitIfDirty(ctx, req.CommitMessage)
	if err != nil {
		return nil, err
	}
	result.PreMergeCommit = committed

	usedFallback, err := s.mergeRemote(ctx, req)
	if err != nil {
		return nil, err
	}
	result.UsedUnrelatedHistories = usedFallback

	// A merge can leave new staged content (e.g. after the fallback).
	committed, err = s.commitIfDirty(ctx, req.CommitMessage)
	if err != nil {
		return nil, err
	}
	result.PostMergeCommit = committed

	if err := s.git.Push(ctx, req.RemoteName, req.DefaultBranch, true); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("branch", result.Branch).
		Int("changed_files", result.ChangedFiles).
		Bool("pre_merge_commit", result.PreMergeCommit).
		Bool("post_merge_commit", result.PostMergeCommit).
		Bool("unrelated_histories", result.UsedUnrelatedHistories).
		Msg("local sync complete")

	return result, nil
}

// normalizeLocalRequest validates required fields and applies defaults.
func normalizeLocalRequest(req *LocalRequest) error {
	if req.Username == "" || req.Email == "" {
		return errors.Wrap(errors.ErrEmptyValue, "sync identity (username and email) is required")
	}
	if req.CommitMessage == "" {
		req.CommitMessage = constants.DefaultCommitMessage
	}
	if req.DefaultBranch == "" {
		req.DefaultBranch = constants.DefaultBaseBranch
	}
	if req.RemoteName == "" {
		req.RemoteName = constants.DefaultRemoteName
	}
	return nil
}

// configureRemote adds the remote or updates its URL when a repo URL is set.
func (s *LocalSyncer) configureRemote(ctx context.Context, req LocalRequest) error {
	if req.RepoURL == "" {
		return nil
	}

	exists, err := s.git.RemoteExists(ctx, req.RemoteName)
	if err != nil {
		return err
	}

	if exists {
		return s.git.SetRemoteURL(ctx, req.RemoteName, req.RepoURL)
	}
	return s.git.AddRemote(ctx, req.RemoteName, req.RepoURL)
}

// commitIfDirty stages everything and commits when the index is non-empty.
func (s *LocalSyncer) commitIfDirty(ctx context.Context, message string) (bool, error) {
	if err := s.git.Add(ctx, nil); err != nil {
		return false, err
	}

	staged, err := s.git.HasStagedChanges(ctx)
	if err != nil {
		return false, err
	}
	if !staged {
		return false, nil
	}

	if err := s.git.Commit(ctx, message); err != nil {
		return false, err
	}
	return true, nil
}

// mergeRemote merges the remote default branch, retrying with
// --allow-unrelated-histories when the histories do not share a root
// (typical for a vault pushed onto a freshly created repo).
func (s *LocalSyncer) mergeRemote(ctx context.Context, req LocalRequest) (bool, error) {
	ref := req.RemoteName + "/" + req.DefaultBranch

	err := s.git.Merge(ctx, ref, false)
	if err == nil {
		return false, nil
	}

	if stderrors.Is(err, errors.ErrMergeConflict) && strings.Contains(err.Error(), "unrelated histories") {
		s.logger.Warn().Str("ref", ref).Msg("retrying merge allowing unrelated histories")
		if err := s.git.Merge(ctx, ref, true); err != nil {
			return false, err
		}
		return true, nil
	}

	return false, err
}
