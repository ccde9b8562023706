// Package sync implements the vault sync pipeline: staging changes on a
// working branch, opening a pull request, and merging it into the default
// branch.
package sync

import (
	stderrors "errors"
	"path/filepath"
	"strings"

	"github.com/dev-users/syncer/internal/config"
	"github.com/dev-users/syncer/internal/errors"
	"github.com/dev-users/syncer/internal/flock"
)

// BranchGuard serializes sync runs per branch. Two processes syncing the
// same branch would race on checkout and commit state, so the second one
// must fail fast instead of queueing.
type BranchGuard struct {
	lock *flock.Lock
}

// AcquireBranchGuard takes an exclusive lock for the named branch. It
// returns ErrSyncInProgress when another process already holds it.
func AcquireBranchGuard(branch string) (*BranchGuard, error) {
	if branch == "" {
		return nil, errors.Wrap(errors.ErrEmptyValue, "guard branch name")
	}

	dir, err := config.LockDir()
	if err != nil {
		return nil, err
	}

	lock, err := flock.TryLock(filepath.Join(dir, lockFileName(branch)))
	if err != nil {
		if stderrors.Is(err, flock.ErrLockHeld) {
			return nil, errors.Wrapf(errors.ErrSyncInProgress, "branch %q", branch)
		}
		return nil, errors.Wrap(err, "failed to acquire branch lock")
	}

	return &BranchGuard{lock: lock}, nil
}

// Release frees the lock. Safe to call on a nil guard or more than once.
func (g *BranchGuard) Release() error {
	if g == nil {
		return nil
	}
	return g.lock.Release()
}

// lockFileName maps a branch name to a flat lock file name. Slashes in
// branch names (feature/foo) would otherwise create directories.
func lockFileName(branch string) string {
	return strings.ReplaceAll(branch, "/", "_") + ".lock"
}
