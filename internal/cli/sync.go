package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dev-users/syncer/internal/git"
	"github.com/dev-users/syncer/internal/sync"
)

// syncFlags holds flags specific to the sync command.
type syncFlags struct {
	Username    string
	Email       string
	Message     string
	BaseBranch  string
	WorkBranch  string
	MergeMethod string
	Vault       string
}

// syncOutput is the JSON shape of a sync result.
type syncOutput struct {
	Outcome       string `json:"outcome"`
	PRNumber      int    `json:"pr_number,omitempty"`
	CommitCreated bool   `json:"commit_created"`
}

// AddSyncCommand adds the sync command to the root command.
func AddSyncCommand(root *cobra.Command, globals *GlobalFlags) {
	flags := &syncFlags{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Commit vault changes and merge them through a pull request",
		Long: `Sync checks out the working branch, commits all staged and unstaged
changes with the supplied identity, pushes, opens a pull request against
the base branch, and merges it, deleting the working branch.

A clean tree and a missing pull request are both reported as success.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, globals, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Username, "username", "", "git commit author name")
	cmd.Flags().StringVar(&flags.Email, "email", "", "git commit author email")
	cmd.Flags().StringVarP(&flags.Message, "message", "m", "", "commit message")
	cmd.Flags().StringVar(&flags.BaseBranch, "base", "", "base branch to merge into")
	cmd.Flags().StringVar(&flags.WorkBranch, "branch", "", "working branch for the sync commit")
	cmd.Flags().StringVar(&flags.MergeMethod, "merge-method", "", "merge method (merge|squash|rebase)")
	cmd.Flags().StringVar(&flags.Vault, "vault", "", "path to the vault working copy")

	root.AddCommand(cmd)
}

// runSync wires configuration and runners into the sync orchestrator.
func runSync(cmd *cobra.Command, globals *GlobalFlags, flags *syncFlags) error {
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

	hub, err := newHubRunner(cfg, vaultDir, logger)
	if err != nil {
		return err
	}

	mergeMethod := flags.MergeMethod
	if mergeMethod == "" {
		mergeMethod = cfg.GitHub.MergeMethod
	}

	orch := sync.NewOrchestrator(gitRunner, hub,
		sync.WithLogger(logger),
		sync.WithMergeMethod(mergeMethod),
	)

	req := sync.Request{
		Username:      firstNonEmpty(flags.Username, cfg.Sync.Username),
		Email:         firstNonEmpty(flags.Email, cfg.Sync.Email),
		CommitMessage: firstNonEmpty(flags.Message, cfg.Sync.CommitMessage),
		DefaultBranch: firstNonEmpty(flags.BaseBranch, cfg.Git.DefaultBranch),
		WorkBranch:    firstNonEmpty(flags.WorkBranch, cfg.Git.WorkBranch),
		RemoteName:    cfg.Git.RemoteName,
	}

	result, err := orch.Run(ctx, req)
	if err != nil {
		return err
	}

	out := syncOutput{
		Outcome:       result.Outcome.String(),
		PRNumber:      result.PRNumber,
		CommitCreated: result.CommitCreated,
	}
	return printResult(cmd, globals, out, func(w io.Writer, styles *outputStyles) {
		switch result.Outcome {
		case sync.OutcomeMerged:
			_, _ = fmt.Fprintln(w, styles.success.Render(fmt.Sprintf("Merged pull request #%d", result.PRNumber)))
		case sync.OutcomeNoChanges:
			_, _ = fmt.Fprintln(w, styles.info.Render("No changes to commit"))
		case sync.OutcomeNoPR:
			_, _ = fmt.Fprintln(w, styles.warn.Render("Commit pushed, but no matching pull request was found"))
		}
	})
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
