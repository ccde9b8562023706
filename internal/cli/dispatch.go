package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dev-users/syncer/internal/config"
	"github.com/dev-users/syncer/internal/constants"
)

// dispatchFlags holds flags specific to the dispatch command.
type dispatchFlags struct {
	Workflow string
	Ref      string
	Watch    bool
	Timeout  time.Duration
	Vault    string
}

// dispatchOutput is the JSON shape of a dispatch result.
type dispatchOutput struct {
	Workflow   string `json:"workflow"`
	Ref        string `json:"ref"`
	Watched    bool   `json:"watched"`
	RunID      int64  `json:"run_id,omitempty"`
	Conclusion string `json:"conclusion,omitempty"`
	RunURL     string `json:"run_url,omitempty"`
}

// AddDispatchCommand adds the dispatch command to the root command.
func AddDispatchCommand(root *cobra.Command, globals *GlobalFlags) {
	flags := &dispatchFlags{}

	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Trigger the remote sync workflow",
		Long: `Dispatch sends a workflow_dispatch event for the configured workflow
file. With --watch it polls the latest run on the target ref until the
run completes or the timeout elapses.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDispatch(cmd, globals, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Workflow, "workflow", "", "workflow file to trigger")
	cmd.Flags().StringVar(&flags.Ref, "ref", "", "git ref to run the workflow on")
	cmd.Flags().BoolVar(&flags.Watch, "watch", false, "poll the run until it completes")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "maximum time to wait for the run")
	cmd.Flags().StringVar(&flags.Vault, "vault", "", "path to the vault working copy")

	root.AddCommand(cmd)
}

// runDispatch triggers the workflow and optionally watches the run.
func runDispatch(cmd *cobra.Command, globals *GlobalFlags, flags *dispatchFlags) error {
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

	workflow := firstNonEmpty(flags.Workflow, cfg.Workflow.File)
	ref := firstNonEmpty(flags.Ref, cfg.Git.DefaultBranch)
	timeout := flags.Timeout
	if timeout == 0 {
		timeout = cfg.Workflow.Timeout
	}

	if err := hub.DispatchWorkflow(ctx, workflow, ref, dispatchInputs(cfg)); err != nil {
		return err
	}

	out := dispatchOutput{Workflow: workflow, Ref: ref, Watched: flags.Watch}

	if flags.Watch {
		run, err := hub.WatchRun(ctx, ref, cfg.Workflow.PollInterval, timeout)
		if run != nil {
			out.RunID = run.ID
			out.Conclusion = run.Conclusion
			out.RunURL = run.URL
		}
		if err != nil {
			// Report what we know about the run before failing.
			_ = printDispatch(cmd, globals, out)
			return err
		}
	}

	return printDispatch(cmd, globals, out)
}

// dispatchInputs builds the workflow_dispatch inputs the sync workflow
// requires: the commit identity, the commit message, and the branch the
// remote job merges into.
func dispatchInputs(cfg *config.Config) map[string]string {
	return map[string]string{
		"username":       cfg.Sync.Username,
		"email":          cfg.Sync.Email,
		"commit_message": firstNonEmpty(cfg.Sync.CommitMessage, constants.DefaultCommitMessage),
		"default_branch": firstNonEmpty(cfg.Git.DefaultBranch, constants.DefaultBaseBranch),
	}
}

// printDispatch renders the dispatch result.
func printDispatch(cmd *cobra.Command, globals *GlobalFlags, out dispatchOutput) error {
	return printResult(cmd, globals, out, func(w io.Writer, styles *outputStyles) {
		_, _ = fmt.Fprintln(w, styles.success.Render(fmt.Sprintf("Dispatched %s on %s", out.Workflow, out.Ref)))
		if out.RunID != 0 {
			_, _ = fmt.Fprintln(w, styles.info.Render(fmt.Sprintf("Run %d concluded: %s", out.RunID, out.Conclusion)))
			if out.RunURL != "" {
				_, _ = fmt.Fprintln(w, styles.dim.Render(out.RunURL))
			}
		}
	})
}
