package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// branchesOutput is the JSON shape of the branches listing.
type branchesOutput struct {
	Repository    string   `json:"repository"`
	DefaultBranch string   `json:"default_branch"`
	Branches      []string `json:"branches"`
}

// AddBranchesCommand adds the branches command to the root command.
func AddBranchesCommand(root *cobra.Command, globals *GlobalFlags) {
	var vault string

	cmd := &cobra.Command{
		Use:   "branches",
		Short: "List the remote repository's branches",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBranches(cmd, globals, vault)
		},
	}

	cmd.Flags().StringVar(&vault, "vault", "", "path to the vault working copy")

	root.AddCommand(cmd)
}

// runBranches fetches repository metadata and the branch listing.
func runBranches(cmd *cobra.Command, globals *GlobalFlags, vault string) error {
	ctx := cmd.Context()
	logger := GetLogger()

	cfg, err := loadConfig(ctx, globals)
	if err != nil {
		return err
	}

	vaultDir, err := resolveVaultDir(vault, cfg)
	if err != nil {
		return err
	}

	hub, err := newHubRunner(cfg, vaultDir, logger)
	if err != nil {
		return err
	}

	repo, err := hub.RepoInfo(ctx)
	if err != nil {
		return err
	}

	branches, err := hub.ListBranches(ctx)
	if err != nil {
		return err
	}

	out := branchesOutput{
		Repository:    repo.Owner + "/" + repo.Name,
		DefaultBranch: repo.DefaultBranch,
		Branches:      branches,
	}
	return printResult(cmd, globals, out, func(w io.Writer, styles *outputStyles) {
		_, _ = fmt.Fprintln(w, styles.info.Render(out.Repository))
		for _, branch := range branches {
			marker := "  "
			if branch == repo.DefaultBranch {
				marker = "* "
			}
			_, _ = fmt.Fprintln(w, marker+branch)
		}
	})
}
