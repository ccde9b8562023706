package vault

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-users/syncer/internal/errors"
	"github.com/dev-users/syncer/internal/git"
)

// zipBytes builds an in-memory zip holding the given files.
func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func remoteZip(name string) git.RemoteFile {
	return git.RemoteFile{Name: name, Path: name, Type: "file"}
}

func TestRestore(t *testing.T) {
	t.Run("RestoresLatestArchive", func(t *testing.T) {
		vault := t.TempDir()
		writeVault(t, vault, map[string]string{
			"stale.md":  "old",
			".git/HEAD": "ref: refs/heads/main",
		})

		hub := &stubHub{
			listDirResult: []git.RemoteFile{
				remoteZip("backup_20240101_000000.zip"),
				remoteZip("backup_20240315_120000.zip"),
				remoteZip("backup_20240201_000000.zip"),
			},
			downloadResult: zipBytes(t, map[string]string{"notes/daily.md": "restored"}),
		}
		m := NewManager(hub)

		info, err := m.Restore(context.Background(), vault, "backup")
		require.NoError(t, err)

		assert.Equal(t, "backup_20240315_120000.zip", info.ArchiveName)
		assert.Equal(t, "backup_20240315_120000.zip", hub.downloadedPath)

		got, err := os.ReadFile(filepath.Join(vault, "notes", "daily.md"))
		require.NoError(t, err)
		assert.Equal(t, "restored", string(got))

		// Previous contents are wiped but the repository is preserved.
		_, err = os.Stat(filepath.Join(vault, "stale.md"))
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(vault, ".git", "HEAD"))
		assert.NoError(t, err)
	})

	t.Run("IgnoresNonArchiveEntries", func(t *testing.T) {
		vault := t.TempDir()
		hub := &stubHub{
			listDirResult: []git.RemoteFile{
				{Name: "README.md", Type: "file"},
				{Name: "backup_20240101_000000.zip", Type: "dir"},
				remoteZip("backup_20240102_000000.zip"),
			},
			downloadResult: zipBytes(t, map[string]string{"a.md": "a"}),
		}
		m := NewManager(hub)

		info, err := m.Restore(context.Background(), vault, "backup")
		require.NoError(t, err)
		assert.Equal(t, "backup_20240102_000000.zip", info.ArchiveName)
	})

	t.Run("NoArchivesOnBranch", func(t *testing.T) {
		hub := &stubHub{listDirResult: []git.RemoteFile{{Name: "README.md", Type: "file"}}}
		m := NewManager(hub)

		_, err := m.Restore(context.Background(), t.TempDir(), "backup")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrNoBackupsFound)
	})

	t.Run("ListFailure", func(t *testing.T) {
		hub := &stubHub{listDirErr: errors.ErrVaultNotFound}
		m := NewManager(hub)

		_, err := m.Restore(context.Background(), t.TempDir(), "backup")
		assert.ErrorIs(t, err, errors.ErrVaultNotFound)
	})

	t.Run("DownloadFailure", func(t *testing.T) {
		hub := &stubHub{
			listDirResult: []git.RemoteFile{remoteZip("backup_20240101_000000.zip")},
			downloadErr:   errors.ErrGitHubOperation,
		}
		m := NewManager(hub)

		_, err := m.Restore(context.Background(), t.TempDir(), "backup")
		assert.ErrorIs(t, err, errors.ErrGitHubOperation)
	})

	t.Run("RequiresArguments", func(t *testing.T) {
		m := NewManager(&stubHub{})
		_, err := m.Restore(context.Background(), "", "backup")
		assert.ErrorIs(t, err, errors.ErrEmptyValue)
	})
}

func TestLatestArchive(t *testing.T) {
	tests := []struct {
		name     string
		entries  []git.RemoteFile
		expected string
	}{
		{
			name:     "empty listing",
			entries:  nil,
			expected: "",
		},
		{
			name: "newest timestamp wins",
			entries: []git.RemoteFile{
				remoteZip("backup_20240301_080000.zip"),
				remoteZip("backup_20231231_235959.zip"),
			},
			expected: "backup_20240301_080000.zip",
		},
		{
			name: "directories and foreign files skipped",
			entries: []git.RemoteFile{
				{Name: "backup_20250101_000000.zip", Type: "dir"},
				{Name: "notes.md", Type: "file"},
				remoteZip("backup_20240101_000000.zip"),
			},
			expected: "backup_20240101_000000.zip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, latestArchive(tt.entries))
		})
	}
}
