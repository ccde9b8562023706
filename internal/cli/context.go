package cli

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/dev-users/syncer/internal/config"
	"github.com/dev-users/syncer/internal/errors"
	"github.com/dev-users/syncer/internal/git"
)

// loadConfig loads the layered configuration, honoring an explicit
// --config path when given.
func loadConfig(ctx context.Context, flags *GlobalFlags) (*config.Config, error) {
	if flags.ConfigPath != "" {
		return config.LoadFromPaths(ctx, flags.ConfigPath, "")
	}
	return config.Load(ctx)
}

// githubToken resolves the personal access token. Config (which viper
// already fills from SYNCER_GITHUB_TOKEN) wins over the ambient GH_TOKEN
// that the gh CLI reads on its own.
func githubToken(cfg *config.Config) string {
	if cfg.GitHub.Token != "" {
		return cfg.GitHub.Token
	}
	return os.Getenv("GH_TOKEN")
}

// newHubRunner builds the gh-backed hub runner from configuration.
func newHubRunner(cfg *config.Config, workDir string, logger zerolog.Logger) (*git.CLIHubRunner, error) {
	opts := []git.CLIHubRunnerOption{
		git.WithHubLogger(logger),
		git.WithHubRetryConfig(retryFromConfig(cfg.GitHub.Retry)),
	}

	if cfg.GitHub.RepoURL != "" {
		owner, repo, err := config.ParseRepoURL(cfg.GitHub.RepoURL)
		if err != nil {
			return nil, err
		}
		opts = append(opts, git.WithHubRepo(owner+"/"+repo))
	}

	if token := githubToken(cfg); token != "" {
		opts = append(opts, git.WithHubToken(token))
	}

	return git.NewCLIHubRunner(workDir, opts...), nil
}

// retryFromConfig maps the config retry block onto the hub runner's
// retry settings, keeping the default jitter.
func retryFromConfig(rc config.RetryConfig) git.RetryConfig {
	out := git.DefaultRetryConfig()
	out.MaxAttempts = rc.MaxAttempts
	out.InitialDelay = rc.InitialBackoff
	out.MaxDelay = rc.MaxBackoff
	out.Multiplier = rc.Multiplier
	return out
}

// resolveVaultDir picks the vault directory: explicit flag, then config,
// then the current working directory.
func resolveVaultDir(flagValue string, cfg *config.Config) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.Vault.Dir != "" {
		return cfg.Vault.Dir, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "failed to determine working directory")
	}
	return dir, nil
}
