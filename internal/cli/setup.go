package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dev-users/syncer/internal/config"
	"github.com/dev-users/syncer/internal/errors"
)

// setupAnswers collects the values gathered by the interactive form.
type setupAnswers struct {
	Token         string
	Username      string
	Email         string
	RepoURL       string
	Branch        string
	CommitMessage string
	VaultDir      string
}

// AddSetupCommand adds the setup command to the root command.
func AddSetupCommand(root *cobra.Command, globals *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Interactively configure syncer",
		Long: `Setup walks through the settings syncer needs: a GitHub personal
access token, commit identity, the repository link, the base branch, the
commit message, and the vault folder. Answers are written to the global
config file and remembered in the settings cache for the next run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSetup(cmd, globals)
		},
	}

	root.AddCommand(cmd)
}

// runSetup drives the interactive form and persists the answers.
func runSetup(cmd *cobra.Command, globals *GlobalFlags) error {
	ctx := cmd.Context()
	logger := GetLogger()

	cache, err := config.NewSettingsCache()
	if err != nil {
		return err
	}
	answers := answersFromCache(cache)

	if err := runSetupForm(ctx, globals, answers); err != nil {
		return err
	}

	configPath, err := saveSetupConfig(answers)
	if err != nil {
		return err
	}

	if err := saveSetupCache(cache, answers); err != nil {
		// The config file is already written; a stale cache only affects
		// prefilled form defaults.
		logger.Warn().Err(err).Msg("failed to update settings cache")
	}

	return printResult(cmd, globals, map[string]string{"config": configPath},
		func(w io.Writer, styles *outputStyles) {
			_, _ = fmt.Fprintln(w, styles.success.Render("Configuration saved"))
			_, _ = fmt.Fprintln(w, styles.dim.Render(configPath))
		})
}

// answersFromCache prefills the form with the last-used settings.
func answersFromCache(cache *config.SettingsCache) *setupAnswers {
	settings, _ := cache.Load()

	return &setupAnswers{
		Username:      settings.Username,
		Email:         settings.Email,
		RepoURL:       settings.RepoLink,
		Branch:        settings.Branch,
		CommitMessage: settings.CommitMessage,
		VaultDir:      settings.VaultDir,
	}
}

// runSetupForm walks the user through the configuration questions. The
// branch question offers the repository's branches when they can be
// fetched with the answers given so far, and falls back to free text.
func runSetupForm(ctx context.Context, globals *GlobalFlags, answers *setupAnswers) error {
	identity := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("GitHub personal access token").
				Description("Needs repo scope; stored in the global config file").
				EchoMode(huh.EchoModePassword).
				Value(&answers.Token),
			huh.NewInput().
				Title("Commit author name").
				Value(&answers.Username).
				Validate(requireValue("author name")),
			huh.NewInput().
				Title("Commit author email").
				Value(&answers.Email).
				Validate(requireValue("author email")),
			huh.NewInput().
				Title("Repository link").
				Placeholder("https://github.com/owner/repo").
				Value(&answers.RepoURL).
				Validate(validateRepoLink),
		),
	).WithTheme(huh.ThemeCharm())

	if err := identity.Run(); err != nil {
		return err
	}

	branchField, err := newBranchField(ctx, globals, answers)
	if err != nil {
		return err
	}

	details := huh.NewForm(
		huh.NewGroup(
			branchField,
			huh.NewInput().
				Title("Commit message").
				Placeholder("Auto sync").
				Value(&answers.CommitMessage),
			huh.NewInput().
				Title("Vault folder").
				Description("Leave empty to sync the current directory").
				Value(&answers.VaultDir),
		),
	).WithTheme(huh.ThemeCharm())

	return details.Run()
}

// newBranchField builds the base-branch question. Branch names are
// fetched from the repository when possible; otherwise the question is a
// plain input.
func newBranchField(ctx context.Context, globals *GlobalFlags, answers *setupAnswers) (huh.Field, error) {
	cfg, err := loadConfig(ctx, globals)
	if err != nil {
		// Discovery config may be invalid mid-setup; branch selection
		// degrades to free text.
		cfg = config.DefaultConfig()
	}
	cfg.GitHub.RepoURL = answers.RepoURL
	if answers.Token != "" {
		cfg.GitHub.Token = answers.Token
	}

	branches := fetchBranches(ctx, cfg)
	if len(branches) == 0 {
		return huh.NewInput().
			Title("Base branch").
			Placeholder("main").
			Value(&answers.Branch), nil
	}

	options := make([]huh.Option[string], 0, len(branches))
	for _, branch := range branches {
		options = append(options, huh.NewOption(branch, branch))
	}

	return huh.NewSelect[string]().
		Title("Base branch").
		Description("Branch that receives merged changes").
		Options(options...).
		Value(&answers.Branch), nil
}

// fetchBranches lists remote branches, returning nil on any failure.
func fetchBranches(ctx context.Context, cfg *config.Config) []string {
	workDir, err := os.Getwd()
	if err != nil {
		return nil
	}

	hub, err := newHubRunner(cfg, workDir, GetLogger())
	if err != nil {
		return nil
	}

	branches, err := hub.ListBranches(ctx)
	if err != nil {
		return nil
	}
	return branches
}

// saveSetupConfig writes the answers to the global config file and
// returns its path.
func saveSetupConfig(answers *setupAnswers) (string, error) {
	cfg := config.DefaultConfig()
	cfg.GitHub.Token = answers.Token
	cfg.GitHub.RepoURL = answers.RepoURL
	cfg.Sync.Username = answers.Username
	cfg.Sync.Email = answers.Email
	if answers.Branch != "" {
		cfg.Git.DefaultBranch = answers.Branch
	}
	if answers.CommitMessage != "" {
		cfg.Sync.CommitMessage = answers.CommitMessage
	}
	cfg.Vault.Dir = answers.VaultDir

	if err := config.Validate(cfg); err != nil {
		return "", err
	}

	configPath, err := config.GlobalConfigPath()
	if err != nil {
		return "", err
	}

	// Config holds a token, so keep the directory and file private.
	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return "", errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return "", errors.Wrap(err, "failed to write config file")
	}
	return configPath, nil
}

// saveSetupCache remembers the answers for the next setup run. The
// token is deliberately not cached.
func saveSetupCache(cache *config.SettingsCache, answers *setupAnswers) error {
	return cache.Save(&config.Settings{
		Username:      answers.Username,
		Email:         answers.Email,
		RepoLink:      answers.RepoURL,
		CommitMessage: answers.CommitMessage,
		VaultDir:      answers.VaultDir,
		Branch:        answers.Branch,
	})
}

// requireValue rejects blank answers.
func requireValue(name string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

// validateRepoLink checks the repository link shape.
func validateRepoLink(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	_, _, err := config.ParseRepoURL(value)
	return err
}
