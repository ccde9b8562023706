// Package vault manages backup archives of a local vault directory:
// creating and extracting zip archives, and moving them to and from the
// repository's backup branch.
package vault

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dev-users/syncer/internal/errors"
)

// Archive zips the contents of vaultDir into zipPath. The repository's
// .git directory and any previous archives inside the vault are skipped.
func Archive(vaultDir, zipPath string) error {
	info, err := os.Stat(vaultDir)
	if err != nil {
		return errors.Wrapf(errors.ErrVaultNotFound, "%s", vaultDir)
	}
	if !info.IsDir() {
		return errors.Wrapf(errors.ErrVaultNotFound, "%s is not a directory", vaultDir)
	}

	out, err := os.Create(zipPath) // #nosec G304 -- destination chosen by the caller
	if err != nil {
		return errors.Wrap(err, "failed to create archive file")
	}
	defer func() { _ = out.Close() }()

	w := zip.NewWriter(out)

	walkErr := filepath.Walk(vaultDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(vaultDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if skipEntry(rel, info) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}

		return addToArchive(w, path, filepath.ToSlash(rel))
	})
	if walkErr != nil {
		_ = w.Close()
		return errors.Wrap(walkErr, "failed to archive vault")
	}

	if err := w.Close(); err != nil {
		return errors.Wrap(err, "failed to finalize archive")
	}
	return out.Close()
}

// skipEntry filters repository internals and stale archives out of backups.
func skipEntry(rel string, info os.FileInfo) bool {
	base := filepath.Base(rel)
	if info.IsDir() && base == ".git" {
		return true
	}
	return !info.IsDir() && strings.HasPrefix(base, "backup_") && strings.HasSuffix(base, ".zip")
}

// addToArchive writes one file into the zip using deflate compression.
func addToArchive(w *zip.Writer, path, name string) error {
	f, err := os.Open(path) // #nosec G304 -- path comes from walking the vault
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	entry, err := w.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	})
	if err != nil {
		return err
	}

	_, err = io.Copy(entry, f)
	return err
}

// Extract unpacks zipPath into targetDir, creating directories as needed.
// Entries that would escape targetDir are rejected.
func Extract(zipPath, targetDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return errors.Wrap(err, "failed to open archive")
	}
	defer func() { _ = r.Close() }()

	if err := os.MkdirAll(targetDir, 0o750); err != nil {
		return errors.Wrap(err, "failed to create target directory")
	}

	for _, file := range r.File {
		if err := extractFile(file, targetDir); err != nil {
			return err
		}
	}
	return nil
}

// extractFile writes one archive entry under targetDir.
func extractFile(file *zip.File, targetDir string) error {
	dest := filepath.Join(targetDir, filepath.FromSlash(file.Name))

	// Zip-slip guard: the resolved path must stay inside targetDir.
	cleanTarget := filepath.Clean(targetDir) + string(os.PathSeparator)
	if !strings.HasPrefix(filepath.Clean(dest)+string(os.PathSeparator), cleanTarget) {
		return fmt.Errorf("archive entry %q escapes target directory", file.Name)
	}

	if file.FileInfo().IsDir() {
		return os.MkdirAll(dest, 0o750)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	out, err := os.Create(dest) // #nosec G304 -- path validated against target dir above
	if err != nil {
		return err
	}

	//nolint:gosec // G110: archives are self-created backups, not untrusted input
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
