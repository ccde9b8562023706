// Package git provides git and GitHub operations for syncer.
package git

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncererrors "github.com/dev-users/syncer/internal/errors"
)

func TestCLIHubRunner_RepoInfo(t *testing.T) {
	t.Run("parses repository payload", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _, _ string, args ...string) ([]byte, error) {
				assert.Equal(t, []string{"api", "repos/owner/repo"}, args)
				return []byte(`{"name":"repo","default_branch":"main","owner":{"login":"owner"}}`), nil
			},
		}

		runner := NewCLIHubRunner("/test/dir",
			WithHubRepo("owner/repo"),
			WithHubCommandExecutor(mock),
		)

		repo, err := runner.RepoInfo(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "owner", repo.Owner)
		assert.Equal(t, "repo", repo.Name)
		assert.Equal(t, "main", repo.DefaultBranch)
	})

	t.Run("repository not found", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _, _ string, _ ...string) ([]byte, error) {
				return nil, errors.New("HTTP 404: Not Found")
			},
		}

		runner := NewCLIHubRunner("/test/dir", WithHubCommandExecutor(mock))

		_, err := runner.RepoInfo(context.Background())
		require.ErrorIs(t, err, syncererrors.ErrGitHubOperation)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestCLIHubRunner_ListBranches(t *testing.T) {
	mock := &mockCommandExecutor{
		executeFunc: func(_ context.Context, _, _ string, args ...string) ([]byte, error) {
			assert.Contains(t, args, "--paginate")
			return []byte("main\ntemp-sync\nbackup\n"), nil
		},
	}

	runner := NewCLIHubRunner("/test/dir", WithHubCommandExecutor(mock))

	branches, err := runner.ListBranches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "temp-sync", "backup"}, branches)
}

func TestCLIHubRunner_BranchSHA(t *testing.T) {
	t.Run("resolves branch", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _, _ string, args ...string) ([]byte, error) {
				assert.Contains(t, args, "repos/{owner}/{repo}/branches/main")
				return []byte("abc123def456\n"), nil
			},
		}

		runner := NewCLIHubRunner("/test/dir", WithHubCommandExecutor(mock))

		sha, err := runner.BranchSHA(context.Background(), "main")
		require.NoError(t, err)
		assert.Equal(t, "abc123def456", sha)
	})

	t.Run("empty branch name", func(t *testing.T) {
		runner := NewCLIHubRunner("/test/dir")
		_, err := runner.BranchSHA(context.Background(), "")
		require.ErrorIs(t, err, syncererrors.ErrEmptyValue)
	})

	t.Run("branch not found", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _, _ string, _ ...string) ([]byte, error) {
				return nil, errors.New("HTTP 404: Branch not found")
			},
		}

		runner := NewCLIHubRunner("/test/dir", WithHubCommandExecutor(mock))

		_, err := runner.BranchSHA(context.Background(), "ghost")
		require.ErrorIs(t, err, syncererrors.ErrBranchNotFound)
	})
}

func TestCLIHubRunner_EnsureBranch(t *testing.T) {
	t.Run("branch already exists", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _, _ string, _ ...string) ([]byte, error) {
				return []byte("abc123\n"), nil
			},
		}

		runner := NewCLIHubRunner("/test/dir", WithHubCommandExecutor(mock))

		created, err := runner.EnsureBranch(context.Background(), "backup", "def456")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, 1, mock.callCount)
	})

	t.Run("creates missing branch", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _, _ string, args ...string) ([]byte, error) {
				joined := strings.Join(args, " ")
				if strings.Contains(joined, "/branches/") {
					return nil, errors.New("HTTP 404: Not Found")
				}
				assert.Contains(t, args, "POST")
				assert.Contains(t, args, "ref=refs/heads/backup")
				assert.Contains(t, args, "sha=def456")
				return []byte(`{}`), nil
			},
		}

		runner := NewCLIHubRunner("/test/dir", WithHubCommandExecutor(mock))

		created, err := runner.EnsureBranch(context.Background(), "backup", "def456")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, 2, mock.callCount)
	})

	t.Run("missing source SHA", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _, _ string, _ ...string) ([]byte, error) {
				return nil, errors.New("HTTP 404: Not Found")
			},
		}

		runner := NewCLIHubRunner("/test/dir", WithHubCommandExecutor(mock))

		_, err := runner.EnsureBranch(context.Background(), "backup", "")
		require.ErrorIs(t, err, syncererrors.ErrEmptyValue)
	})

	t.Run("lost creation race", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _, _ string, args ...string) ([]byte, error) {
				if strings.Contains(strings.Join(args, " "), "/branches/") {
					return nil, errors.New("HTTP 404: Not Found")
				}
				return nil, errors.New("HTTP 422: Reference already exists")
			},
		}

		runner := NewCLIHubRunner("/test/dir", WithHubCommandExecutor(mock))

		created, err := runner.EnsureBranch(context.Background(), "backup", "def456")
		require.NoError(t, err)
		assert.False(t, created)
	})
}
