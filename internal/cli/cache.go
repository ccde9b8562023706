package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dev-users/syncer/internal/config"
)

// AddCacheCommand adds the cache command group to the root command.
func AddCacheCommand(root *cobra.Command, globals *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the settings cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newCacheClearCmd(globals))
	cmd.AddCommand(newCacheShowCmd(globals))

	root.AddCommand(cmd)
}

// newCacheClearCmd builds the cache clear subcommand.
func newCacheClearCmd(globals *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the cached setup settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := config.NewSettingsCache()
			if err != nil {
				return err
			}
			if err := cache.Clear(); err != nil {
				return err
			}

			return printResult(cmd, globals, map[string]string{"cleared": cache.Path()},
				func(w io.Writer, styles *outputStyles) {
					_, _ = fmt.Fprintln(w, styles.success.Render("Settings cache cleared"))
				})
		},
	}
}

// newCacheShowCmd builds the cache show subcommand.
func newCacheShowCmd(globals *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the cached setup settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := config.NewSettingsCache()
			if err != nil {
				return err
			}
			settings, err := cache.Load()
			if err != nil {
				return err
			}

			return printResult(cmd, globals, settings, func(w io.Writer, styles *outputStyles) {
				_, _ = fmt.Fprintln(w, styles.info.Render("Cached settings ("+cache.Path()+")"))
				_, _ = fmt.Fprintf(w, "  username:       %s\n", settings.Username)
				_, _ = fmt.Fprintf(w, "  email:          %s\n", settings.Email)
				_, _ = fmt.Fprintf(w, "  repo link:      %s\n", settings.RepoLink)
				_, _ = fmt.Fprintf(w, "  branch:         %s\n", settings.Branch)
				_, _ = fmt.Fprintf(w, "  commit message: %s\n", settings.CommitMessage)
				_, _ = fmt.Fprintf(w, "  vault dir:      %s\n", settings.VaultDir)
			})
		},
	}
}
