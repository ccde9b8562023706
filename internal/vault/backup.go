package vault

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/dev-users/syncer/internal/constants"
	"github.com/dev-users/syncer/internal/ctxutil"
	"github.com/dev-users/syncer/internal/errors"
	"github.com/dev-users/syncer/internal/git"
)

// Manager moves vault archives between the local filesystem and the
// repository's backup branch.
type Manager struct {
	hub    git.HubRunner
	logger zerolog.Logger
	now    func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets the logger used for backup and restore progress.
func WithManagerLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock overrides the time source used for archive names. Intended
// for tests.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a Manager backed by the given hub runner.
func NewManager(hub git.HubRunner, opts ...ManagerOption) *Manager {
	m := &Manager{
		hub:    hub,
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BackupInfo describes a completed backup.
type BackupInfo struct {
	// ArchiveName is the name of the uploaded archive on the backup branch.
	ArchiveName string
	// Size is the archive size in bytes.
	Size int64
	// BranchCreated reports whether the backup branch had to be created.
	BranchCreated bool
}

// Backup archives vaultDir and uploads it to backupBranch as a
// timestamped zip. The backup branch is created from the tip of
// defaultBranch when it does not exist yet.
func (m *Manager) Backup(ctx context.Context, vaultDir, backupBranch, defaultBranch string) (*BackupInfo, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if vaultDir == "" || backupBranch == "" || defaultBranch == "" {
		return nil, errors.Wrap(errors.ErrEmptyValue, "vault dir, backup branch, and default branch are required")
	}

	sha, err := m.hub.BranchSHA(ctx, defaultBranch)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", defaultBranch)
	}

	created, err := m.hub.EnsureBranch(ctx, backupBranch, sha)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to ensure branch %s", backupBranch)
	}
	if created {
		m.logger.Info().Str("branch", backupBranch).Str("from", sha).Msg("created backup branch")
	}

	name := archiveName(m.now())
	zipPath := filepath.Join(os.TempDir(), name)
	defer func() { _ = os.Remove(zipPath) }()

	if err := Archive(vaultDir, zipPath); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(zipPath) // #nosec G304 -- path built from a fixed prefix and timestamp
	if err != nil {
		return nil, errors.Wrap(err, "failed to read archive")
	}

	message := "Backup " + name
	if err := m.hub.UploadFile(ctx, name, backupBranch, message, content); err != nil {
		return nil, errors.Wrapf(err, "failed to upload %s", name)
	}

	m.logger.Info().
		Str("archive", name).
		Int("size_bytes", len(content)).
		Str("branch", backupBranch).
		Msg("backup uploaded")

	return &BackupInfo{
		ArchiveName:   name,
		Size:          int64(len(content)),
		BranchCreated: created,
	}, nil
}

// archiveName builds the timestamped archive file name. The timestamp
// layout sorts lexicographically, so the newest archive is always the
// last name in sorted order.
func archiveName(t time.Time) string {
	return constants.BackupArchivePrefix + t.Format(constants.BackupTimestampLayout) + ".zip"
}
