package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dev-users/syncer/internal/git"
	"github.com/dev-users/syncer/internal/sync"
)

// localFlags holds flags specific to the local command.
type localFlags struct {
	Username string
	Email    string
	Message  string
	Branch   string
	RepoURL  string
	Vault    string
}

// localOutput is the JSON shape of a local sync result.
type localOutput struct {
	Branch                 string `json:"branch"`
	ChangedFiles           int    `json:"changed_files"`
	PreMergeCommit         bool   `json:"pre_merge_commit"`
	PostMergeCommit        bool   `json:"post_merge_commit"`
	UsedUnrelatedHistories bool   `json:"used_unrelated_histories"`
}

// AddLocalCommand adds the local command to the root command.
func AddLocalCommand(root *cobra.Command, globals *GlobalFlags) {
	flags := &localFlags{}

	cmd := &cobra.Command{
		Use:   "local",
		Short: "Sync the local vault clone with its remote directly",
		Long: `Local commits any outstanding vault changes, fetches the remote,
merges the remote default branch into the working copy (falling back to
--allow-unrelated-histories when the clone and the remote share no
history), commits the merge result, and pushes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLocal(cmd, globals, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Username, "username", "", "git commit author name")
	cmd.Flags().StringVar(&flags.Email, "email", "", "git commit author email")
	cmd.Flags().StringVarP(&flags.Message, "message", "m", "", "commit message")
	cmd.Flags().StringVar(&flags.Branch, "base", "", "remote branch to merge from")
	cmd.Flags().StringVar(&flags.RepoURL, "repo", "", "remote repository URL to configure")
	cmd.Flags().StringVar(&flags.Vault, "vault", "", "path to the vault working copy")

	root.AddCommand(cmd)
}

// runLocal wires configuration and the git runner into the local syncer.
func runLocal(cmd *cobra.Command, globals *GlobalFlags, flags *localFlags) error {
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

	gitRunner, err := git.NewRunner(ctx, vaultDir)
	if err != nil {
		return err
	}

	syncer := sync.NewLocalSyncer(gitRunner, logger)

	req := sync.LocalRequest{
		Username:      firstNonEmpty(flags.Username, cfg.Sync.Username),
		Email:         firstNonEmpty(flags.Email, cfg.Sync.Email),
		CommitMessage: firstNonEmpty(flags.Message, cfg.Sync.CommitMessage),
		DefaultBranch: firstNonEmpty(flags.Branch, cfg.Git.DefaultBranch),
		RemoteName:    cfg.Git.RemoteName,
		RepoURL:       firstNonEmpty(flags.RepoURL, cfg.GitHub.RepoURL),
	}

	result, err := syncer.Run(ctx, req)
	if err != nil {
		return err
	}

	out := localOutput{
		Branch:                 result.Branch,
		ChangedFiles:           result.ChangedFiles,
		PreMergeCommit:         result.PreMergeCommit,
		PostMergeCommit:        result.PostMergeCommit,
		UsedUnrelatedHistories: result.UsedUnrelatedHistories,
	}
	return printResult(cmd, globals, out, func(w io.Writer, styles *outputStyles) {
		_, _ = fmt.Fprintln(w, styles.success.Render("Local sync complete"))
		if result.ChangedFiles > 0 {
			_, _ = fmt.Fprintln(w, styles.info.Render(
				fmt.Sprintf("%d changed files on %s", result.ChangedFiles, result.Branch)))
		}
		if result.UsedUnrelatedHistories {
			_, _ = fmt.Fprintln(w, styles.warn.Render("Merged with --allow-unrelated-histories"))
		}
		if !result.PreMergeCommit && !result.PostMergeCommit {
			_, _ = fmt.Fprintln(w, styles.dim.Render("Working tree was already clean"))
		}
	})
}
