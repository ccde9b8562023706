package vault

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/dev-users/syncer/internal/constants"
	"github.com/dev-users/syncer/internal/ctxutil"
	"github.com/dev-users/syncer/internal/errors"
	"github.com/dev-users/syncer/internal/git"
)

// RestoreInfo describes a completed restore.
type RestoreInfo struct {
	// ArchiveName is the name of the archive that was restored.
	ArchiveName string
	// Size is the downloaded archive size in bytes.
	Size int64
}

// Restore downloads the newest archive from backupBranch and replaces
// the contents of vaultDir with it. The vault's .git directory is left
// untouched.
func (m *Manager) Restore(ctx context.Context, vaultDir, backupBranch string) (*RestoreInfo, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if vaultDir == "" || backupBranch == "" {
		return nil, errors.Wrap(errors.ErrEmptyValue, "vault dir and backup branch are required")
	}

	entries, err := m.hub.ListDir(ctx, "", backupBranch)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list branch %s", backupBranch)
	}

	name := latestArchive(entries)
	if name == "" {
		return nil, errors.Wrapf(errors.ErrNoBackupsFound, "branch %s has no archives", backupBranch)
	}

	content, err := m.hub.DownloadFile(ctx, name, backupBranch)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to download %s", name)
	}

	zipPath := filepath.Join(os.TempDir(), name)
	if err := os.WriteFile(zipPath, content, 0o600); err != nil {
		return nil, errors.Wrap(err, "failed to write archive")
	}
	defer func() { _ = os.Remove(zipPath) }()

	if err := clearVault(vaultDir); err != nil {
		return nil, err
	}
	if err := Extract(zipPath, vaultDir); err != nil {
		return nil, err
	}

	m.logger.Info().
		Str("archive", name).
		Int("size_bytes", len(content)).
		Str("vault", vaultDir).
		Msg("restore complete")

	return &RestoreInfo{ArchiveName: name, Size: int64(len(content))}, nil
}

// latestArchive picks the newest backup archive from a directory
// listing. Archive names embed a sortable timestamp, so the
// lexicographically greatest name is the newest.
func latestArchive(entries []git.RemoteFile) string {
	latest := ""
	for _, entry := range entries {
		if entry.Type != "file" {
			continue
		}
		if !strings.HasPrefix(entry.Name, constants.BackupArchivePrefix) || !strings.HasSuffix(entry.Name, ".zip") {
			continue
		}
		if entry.Name > latest {
			latest = entry.Name
		}
	}
	return latest
}

// clearVault removes everything inside dir except the .git directory.
func clearVault(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(errors.ErrVaultNotFound, "%s", dir)
	}

	for _, entry := range entries {
		if entry.Name() == ".git" {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return errors.Wrapf(err, "failed to remove %s", entry.Name())
		}
	}
	return nil
}
