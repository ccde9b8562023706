package vault

import (
	"context"
	"sync"
	"time"

	"github.com/dev-users/syncer/internal/errors"
	"github.com/dev-users/syncer/internal/git"
)

// stubHub implements git.HubRunner with canned responses for the
// subset of operations the vault uses. Unused operations fail loudly.
type stubHub struct {
	mu sync.Mutex

	branchSHA    string
	branchSHAErr error

	ensureCreated bool
	ensureErr     error
	ensuredBranch string
	ensuredSHA    string

	uploadErr     error
	uploads       []stubUpload
	uploadsBranch string

	listDirResult []git.RemoteFile
	listDirErr    error

	downloadResult []byte
	downloadErr    error
	downloadedPath string
}

type stubUpload struct {
	path    string
	message string
	content []byte
}

func (s *stubHub) BranchSHA(_ context.Context, _ string) (string, error) {
	return s.branchSHA, s.branchSHAErr
}

func (s *stubHub) EnsureBranch(_ context.Context, branch, fromSHA string) (bool, error) {
	s.ensuredBranch = branch
	s.ensuredSHA = fromSHA
	return s.ensureCreated, s.ensureErr
}

func (s *stubHub) UploadFile(_ context.Context, path, branch, message string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.uploadsBranch = branch
	s.uploads = append(s.uploads, stubUpload{path: path, message: message, content: content})
	return nil
}

func (s *stubHub) ListDir(_ context.Context, _, _ string) ([]git.RemoteFile, error) {
	return s.listDirResult, s.listDirErr
}

func (s *stubHub) DownloadFile(_ context.Context, path, _ string) ([]byte, error) {
	s.downloadedPath = path
	return s.downloadResult, s.downloadErr
}

func (s *stubHub) CreatePR(_ context.Context, _ git.PRCreateOptions) (*git.PRResult, error) {
	return nil, errors.ErrCommandNotConfigured
}

func (s *stubHub) ListPRs(_ context.Context, _, _ string) ([]git.PullRequest, error) {
	return nil, errors.ErrCommandNotConfigured
}

func (s *stubHub) MergePR(_ context.Context, _ int, _ string, _ bool) error {
	return errors.ErrCommandNotConfigured
}

func (s *stubHub) RepoInfo(_ context.Context) (*git.Repo, error) {
	return nil, errors.ErrCommandNotConfigured
}

func (s *stubHub) ListBranches(_ context.Context) ([]string, error) {
	return nil, errors.ErrCommandNotConfigured
}

func (s *stubHub) DispatchWorkflow(_ context.Context, _, _ string, _ map[string]string) error {
	return errors.ErrCommandNotConfigured
}

func (s *stubHub) WatchRun(_ context.Context, _ string, _, _ time.Duration) (*git.RunResult, error) {
	return nil, errors.ErrCommandNotConfigured
}

var _ git.HubRunner = (*stubHub)(nil)
