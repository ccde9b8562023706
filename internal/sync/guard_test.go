//go:build unix

package sync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-users/syncer/internal/errors"
)

func TestAcquireBranchGuard(t *testing.T) {
	t.Run("acquire and release", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		guard, err := AcquireBranchGuard("temp-sync")
		require.NoError(t, err)
		require.NoError(t, guard.Release())
	})

	t.Run("held lock fails fast", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		first, err := AcquireBranchGuard("temp-sync")
		require.NoError(t, err)
		defer func() { _ = first.Release() }()

		_, err = AcquireBranchGuard("temp-sync")
		require.ErrorIs(t, err, errors.ErrSyncInProgress)
	})

	t.Run("different branches do not conflict", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		first, err := AcquireBranchGuard("temp-sync")
		require.NoError(t, err)
		defer func() { _ = first.Release() }()

		second, err := AcquireBranchGuard("other-branch")
		require.NoError(t, err)
		require.NoError(t, second.Release())
	})

	t.Run("reacquire after release", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		guard, err := AcquireBranchGuard("temp-sync")
		require.NoError(t, err)
		require.NoError(t, guard.Release())

		again, err := AcquireBranchGuard("temp-sync")
		require.NoError(t, err)
		require.NoError(t, again.Release())
	})

	t.Run("empty branch name", func(t *testing.T) {
		_, err := AcquireBranchGuard("")
		require.ErrorIs(t, err, errors.ErrEmptyValue)
	})

	t.Run("slashes flattened in lock file name", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		guard, err := AcquireBranchGuard("feature/sync")
		require.NoError(t, err)
		defer func() { _ = guard.Release() }()

		_, statErr := os.Stat(filepath.Join(home, ".syncer", "locks", "feature_sync.lock"))
		assert.NoError(t, statErr)
	})

	t.Run("nil guard release is safe", func(t *testing.T) {
		var g *BranchGuard
		require.NoError(t, g.Release())
	})
}
