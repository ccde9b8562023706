package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dev-users/syncer/internal/config"
	"github.com/dev-users/syncer/internal/constants"
	"github.com/dev-users/syncer/internal/vault"
)

// uploadFlags holds flags specific to the upload command.
type uploadFlags struct {
	Branch  string
	Message string
	Vault   string
}

// uploadOutput is the JSON shape of an upload result.
type uploadOutput struct {
	Branch string `json:"branch"`
	Files  int    `json:"files"`
}

// AddUploadCommand adds the upload command to the root command.
func AddUploadCommand(root *cobra.Command, globals *GlobalFlags) {
	flags := &uploadFlags{}

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload vault files to a remote branch one by one",
		Long: `Upload pushes every vault file to the target branch through the
contents API, without needing a local clone with git history. Pair it
with dispatch: upload the files to the working branch first, then
trigger the remote sync workflow on it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpload(cmd, globals, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Branch, "branch", "", "branch to upload to")
	cmd.Flags().StringVarP(&flags.Message, "message", "m", "", "commit message for uploaded files")
	cmd.Flags().StringVar(&flags.Vault, "vault", "", "path to the vault directory")

	root.AddCommand(cmd)
}

// runUpload sends each vault file to the target branch.
func runUpload(cmd *cobra.Command, globals *GlobalFlags, flags *uploadFlags) error {
	ctx := cmd.Context()
	logger := GetLogger()

	cfg, err := loadConfig(ctx, globals)
	if err != nil {
		return err
	}

	vaultDir, err := resolveVaultDir(flags.Vault, cfg)
	if err != nil {
		return err
	}

	hub, err := newHubRunner(cfg, vaultDir, logger)
	if err != nil {
		return err
	}

	manager := vault.NewManager(hub, vault.WithManagerLogger(logger))

	branch := uploadBranch(flags.Branch, cfg)
	message := firstNonEmpty(flags.Message, cfg.Sync.CommitMessage)

	count, err := manager.Upload(ctx, vaultDir, branch, message)
	if err != nil {
		return err
	}

	out := uploadOutput{Branch: branch, Files: count}
	return printResult(cmd, globals, out, func(w io.Writer, styles *outputStyles) {
		_, _ = fmt.Fprintln(w, styles.success.Render(fmt.Sprintf("Uploaded %d files to %s", count, branch)))
		if count == 0 {
			_, _ = fmt.Fprintln(w, styles.dim.Render("Vault had no files to upload"))
		}
	})
}

// uploadBranch resolves the target branch: the flag wins, then the
// configured working branch the remote workflow syncs from.
func uploadBranch(flag string, cfg *config.Config) string {
	return firstNonEmpty(flag, cfg.Git.WorkBranch, constants.DefaultWorkBranch)
}
