package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dev-users/syncer/internal/vault"
)

// backupOutput is the JSON shape of a backup result.
type backupOutput struct {
	Archive       string `json:"archive"`
	SizeBytes     int64  `json:"size_bytes"`
	Branch        string `json:"branch"`
	BranchCreated bool   `json:"branch_created"`
}

// AddBackupCommand adds the backup command to the root command.
func AddBackupCommand(root *cobra.Command, globals *GlobalFlags) {
	var vaultFlag string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Upload a zip archive of the vault to the backup branch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBackup(cmd, globals, vaultFlag)
		},
	}

	cmd.Flags().StringVar(&vaultFlag, "vault", "", "path to the vault working copy")

	root.AddCommand(cmd)
}

// runBackup archives the vault and uploads it remotely.
func runBackup(cmd *cobra.Command, globals *GlobalFlags, vaultFlag string) error {
	ctx := cmd.Context()
	logger := GetLogger()

	cfg, err := loadConfig(ctx, globals)
	if err != nil {
		return err
	}

	vaultDir, err := resolveVaultDir(vaultFlag, cfg)
	if err != nil {
		return err
	}

	hub, err := newHubRunner(cfg, vaultDir, logger)
	if err != nil {
		return err
	}

	manager := vault.NewManager(hub, vault.WithManagerLogger(logger))
	info, err := manager.Backup(ctx, vaultDir, cfg.Vault.BackupBranch, cfg.Git.DefaultBranch)
	if err != nil {
		return err
	}

	out := backupOutput{
		Archive:       info.ArchiveName,
		SizeBytes:     info.Size,
		Branch:        cfg.Vault.BackupBranch,
		BranchCreated: info.BranchCreated,
	}
	return printResult(cmd, globals, out, func(w io.Writer, styles *outputStyles) {
		_, _ = fmt.Fprintln(w, styles.success.Render("Backup uploaded: "+info.ArchiveName))
		if info.BranchCreated {
			_, _ = fmt.Fprintln(w, styles.dim.Render("Created branch "+cfg.Vault.BackupBranch))
		}
	})
}
