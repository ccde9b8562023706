package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dev-users/syncer/internal/vault"
)

// restoreOutput is the JSON shape of a restore result.
type restoreOutput struct {
	Archive   string `json:"archive"`
	SizeBytes int64  `json:"size_bytes"`
	Vault     string `json:"vault"`
}

// AddRestoreCommand adds the restore command to the root command.
func AddRestoreCommand(root *cobra.Command, globals *GlobalFlags) {
	var vaultFlag string

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Replace the vault with the newest remote backup archive",
		Long: `Restore downloads the newest backup archive from the backup branch
and replaces the vault's contents with it. The vault's .git directory is
left untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRestore(cmd, globals, vaultFlag)
		},
	}

	cmd.Flags().StringVar(&vaultFlag, "vault", "", "path to the vault working copy")

	root.AddCommand(cmd)
}

// runRestore downloads the latest archive and unpacks it into the vault.
func runRestore(cmd *cobra.Command, globals *GlobalFlags, vaultFlag string) error {
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
	info, err := manager.Restore(ctx, vaultDir, cfg.Vault.BackupBranch)
	if err != nil {
		return err
	}

	out := restoreOutput{
		Archive:   info.ArchiveName,
		SizeBytes: info.Size,
		Vault:     vaultDir,
	}
	return printResult(cmd, globals, out, func(w io.Writer, styles *outputStyles) {
		_, _ = fmt.Fprintln(w, styles.success.Render("Restored "+info.ArchiveName))
		_, _ = fmt.Fprintln(w, styles.dim.Render("Vault: "+vaultDir))
	})
}
