package sync

import (
	"context"
	"time"

	"github.com/dev-users/syncer/internal/git"
)

// fakeGitRunner is a configurable git.Runner test double that records calls.
type fakeGitRunner struct {
	calls []string

	stagedChanges bool
	statusResult  *git.Status
	statusErr     error
	branchName    string
	branchErr     error
	checkoutErr   error
	setUserErr    error
	addErr        error
	hasStagedErr  error
	commitErr     error
	mergeErr      func(allowUnrelated bool) error
	pushErr       error
	fetchErr      error
	remoteExists  bool

	commitMessages []string
	checkedOut     []string
	mergedRefs     []string
	pushedBranches []string
	userName       string
	userEmail      string
	remoteURL      string
}

func (f *fakeGitRunner) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeGitRunner) Status(context.Context) (*git.Status, error) {
	f.record("status")
	if f.statusResult != nil {
		return f.statusResult, f.statusErr
	}
	return &git.Status{}, f.statusErr
}

func (f *fakeGitRunner) Checkout(_ context.Context, branch string) error {
	f.record("checkout")
	f.checkedOut = append(f.checkedOut, branch)
	return f.checkoutErr
}

func (f *fakeGitRunner) SetUser(_ context.Context, name, email string) error {
	f.record("set_user")
	f.userName, f.userEmail = name, email
	return f.setUserErr
}

func (f *fakeGitRunner) RemoteExists(context.Context, string) (bool, error) {
	f.record("remote_exists")
	return f.remoteExists, nil
}

func (f *fakeGitRunner) AddRemote(_ context.Context, _, url string) error {
	f.record("add_remote")
	f.remoteURL = url
	return nil
}

func (f *fakeGitRunner) SetRemoteURL(_ context.Context, _, url string) error {
	f.record("set_remote_url")
	f.remoteURL = url
	return nil
}

func (f *fakeGitRunner) Fetch(context.Context, string) error {
	f.record("fetch")
	return f.fetchErr
}

func (f *fakeGitRunner) Add(context.Context, []string) error {
	f.record("add")
	return f.addErr
}

func (f *fakeGitRunner) HasStagedChanges(context.Context) (bool, error) {
	f.record("has_staged")
	return f.stagedChanges, f.hasStagedErr
}

func (f *fakeGitRunner) Commit(_ context.Context, message string) error {
	f.record("commit")
	if f.commitErr != nil {
		return f.commitErr
	}
	f.commitMessages = append(f.commitMessages, message)
	// One commit consumes the staged changes.
	f.stagedChanges = false
	return nil
}

func (f *fakeGitRunner) Merge(_ context.Context, ref string, allowUnrelated bool) error {
	f.record("merge")
	if f.mergeErr != nil {
		if err := f.mergeErr(allowUnrelated); err != nil {
			return err
		}
	}
	f.mergedRefs = append(f.mergedRefs, ref)
	return nil
}

func (f *fakeGitRunner) Push(_ context.Context, _, branch string, _ bool) error {
	f.record("push")
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushedBranches = append(f.pushedBranches, branch)
	return nil
}

func (f *fakeGitRunner) CurrentBranch(context.Context) (string, error) {
	f.record("current_branch")
	if f.branchName != "" {
		return f.branchName, f.branchErr
	}
	return "temp-sync", f.branchErr
}

func (f *fakeGitRunner) BranchExists(context.Context, string) (bool, error) {
	f.record("branch_exists")
	return true, nil
}

var _ git.Runner = (*fakeGitRunner)(nil)

// fakeHubRunner is a configurable git.HubRunner test double.
type fakeHubRunner struct {
	createPRResult *git.PRResult
	createPRErr    error
	listPRsResult  []git.PullRequest
	listPRsErr     error
	mergePRErr     error

	createPRCalls int
	listPRCalls   int
	mergedNumber  int
	mergedMethod  string
	deletedBranch bool
	listHead      string
	listBase      string
	createOpts    git.PRCreateOptions
}

func (f *fakeHubRunner) CreatePR(_ context.Context, opts git.PRCreateOptions) (*git.PRResult, error) {
	f.createPRCalls++
	f.createOpts = opts
	if f.createPRErr != nil {
		return nil, f.createPRErr
	}
	if f.createPRResult != nil {
		return f.createPRResult, nil
	}
	return &git.PRResult{Number: 1, URL: "https://github.com/o/r/pull/1", Attempts: 1}, nil
}

func (f *fakeHubRunner) ListPRs(_ context.Context, head, base string) ([]git.PullRequest, error) {
	f.listPRCalls++
	f.listHead, f.listBase = head, base
	return f.listPRsResult, f.listPRsErr
}

func (f *fakeHubRunner) MergePR(_ context.Context, number int, method string, deleteBranch bool) error {
	if f.mergePRErr != nil {
		return f.mergePRErr
	}
	f.mergedNumber = number
	f.mergedMethod = method
	f.deletedBranch = deleteBranch
	return nil
}

func (f *fakeHubRunner) RepoInfo(context.Context) (*git.Repo, error) {
	return &git.Repo{Owner: "owner", Name: "repo", DefaultBranch: "main"}, nil
}

func (f *fakeHubRunner) ListBranches(context.Context) ([]string, error) {
	return []string{"main"}, nil
}

func (f *fakeHubRunner) BranchSHA(context.Context, string) (string, error) {
	return "abc123", nil
}

func (f *fakeHubRunner) EnsureBranch(context.Context, string, string) (bool, error) {
	return false, nil
}

func (f *fakeHubRunner) UploadFile(context.Context, string, string, string, []byte) error {
	return nil
}

func (f *fakeHubRunner) ListDir(context.Context, string, string) ([]git.RemoteFile, error) {
	return nil, nil
}

func (f *fakeHubRunner) DownloadFile(context.Context, string, string) ([]byte, error) {
	return nil, nil
}

func (f *fakeHubRunner) DispatchWorkflow(context.Context, string, string, map[string]string) error {
	return nil
}

func (f *fakeHubRunner) WatchRun(context.Context, string, time.Duration, time.Duration) (*git.RunResult, error) {
	return &git.RunResult{Conclusion: "success"}, nil
}

var _ git.HubRunner = (*fakeHubRunner)(nil)

// noopGuard is a guard acquisition function that always succeeds.
func noopGuard(string) (*BranchGuard, error) {
	return &BranchGuard{}, nil
}
