package vault

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dev-users/syncer/internal/constants"
	"github.com/dev-users/syncer/internal/ctxutil"
	"github.com/dev-users/syncer/internal/errors"
)

// Upload pushes every file in vaultDir to branch through the contents
// API, preserving the directory layout. Uploads run concurrently with a
// bounded worker count. Returns the number of files uploaded.
func (m *Manager) Upload(ctx context.Context, vaultDir, branch, message string) (int, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return 0, err
	}
	if vaultDir == "" || branch == "" {
		return 0, errors.Wrap(errors.ErrEmptyValue, "vault dir and branch are required")
	}
	if message == "" {
		message = "Upload vault files"
	}

	paths, err := collectFiles(vaultDir)
	if err != nil {
		return 0, err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(constants.UploadConcurrency)

	var uploaded atomic.Int64
	for _, rel := range paths {
		group.Go(func() error {
			content, err := os.ReadFile(filepath.Join(vaultDir, rel)) // #nosec G304 -- path comes from walking the vault
			if err != nil {
				return errors.Wrapf(err, "failed to read %s", rel)
			}

			remote := filepath.ToSlash(rel)
			if err := m.hub.UploadFile(groupCtx, remote, branch, message, content); err != nil {
				return errors.Wrapf(err, "failed to upload %s", remote)
			}

			uploaded.Add(1)
			m.logger.Debug().Str("path", remote).Msg("uploaded file")
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return int(uploaded.Load()), err
	}

	m.logger.Info().
		Int("files", len(paths)).
		Str("branch", branch).
		Msg("vault upload complete")
	return len(paths), nil
}

// collectFiles lists the regular files under dir, relative to dir,
// skipping repository internals and backup archives.
func collectFiles(dir string) ([]string, error) {
	var paths []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
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

		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrVaultNotFound, "%s", dir)
		}
		return nil, errors.Wrap(err, "failed to scan vault")
	}
	return paths, nil
}
