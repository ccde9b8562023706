package config

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/dev-users/syncer/internal/errors"
)

// newViperInstance creates a new Viper instance with standard syncer
// configuration: environment variable prefix (SYNCER_), key replacer,
// and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("SYNCER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file
// not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (SYNCER_* prefix)
//  2. Project config (.syncer/config.yaml)
//  3. Global config (~/.syncer/config.yaml)
//  4. Built-in defaults
//
// For CLI flag overrides, use LoadWithOverrides instead.
//
// The function returns an error only for actual configuration problems,
// not for missing config files (which are expected in many scenarios).
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	// Global config provides user-wide defaults that can be overridden
	// per-project.
	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}

	// Project config merges over global.
	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("git.work_branch", cfg.Git.WorkBranch).
		Str("github.merge_method", cfg.GitHub.MergeMethod).
		Dur("workflow.poll_interval", cfg.Workflow.PollInterval).
		Msg("configuration loaded and unmarshaled")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// loadGlobalConfig attempts to load the global config file
// (~/.syncer/config.yaml). Returns nil if the file doesn't exist or the
// home directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, ok := getGlobalConfigPathIfExists()
	if !ok {
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// getGlobalConfigPathIfExists returns the global config path if it exists.
func getGlobalConfigPathIfExists() (string, bool) {
	globalDir, err := GlobalConfigDir()
	if err != nil {
		return "", false
	}

	globalConfigPath := filepath.Join(globalDir, "config.yaml")
	if _, err := os.Stat(globalConfigPath); err != nil {
		return "", false
	}

	return globalConfigPath, true
}

// loadProjectConfig attempts to load the project config file
// (.syncer/config.yaml). Returns nil if the file doesn't exist.
func loadProjectConfig(v *viper.Viper) error {
	projectConfigPath := ProjectConfigPath()
	if !fileExists(projectConfigPath) {
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// The overrides parameter contains values from CLI flags which have the
// highest precedence in the configuration hierarchy.
//
// Only non-zero values in overrides are applied. Zero values are ignored
// to allow partial overrides.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	// Re-validate after applying overrides
	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths for testing.
//
// projectConfigPath is the path to project-level config (higher priority).
// globalConfigPath is the path to global config (lower priority).
// Either path can be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// These defaults match the values from DefaultConfig().
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	// Git defaults
	v.SetDefault("git.default_branch", "main")
	v.SetDefault("git.work_branch", "temp-sync")
	v.SetDefault("git.remote_name", "origin")

	// GitHub defaults
	v.SetDefault("github.token", "")
	v.SetDefault("github.repo_url", "")
	v.SetDefault("github.merge_method", "merge")
	v.SetDefault("github.retry.max_attempts", 3)
	v.SetDefault("github.retry.initial_backoff", "1s")
	v.SetDefault("github.retry.max_backoff", "30s")
	v.SetDefault("github.retry.multiplier", 2.0)

	// Sync defaults
	v.SetDefault("sync.username", "")
	v.SetDefault("sync.email", "")
	v.SetDefault("sync.commit_message", "Auto sync")

	// Vault defaults
	v.SetDefault("vault.dir", "")
	v.SetDefault("vault.backup_branch", "backup")

	// Workflow defaults
	v.SetDefault("workflow.file", "git-sync.yml")
	v.SetDefault("workflow.poll_interval", "15s")
	v.SetDefault("workflow.timeout", "3m")
}

// applyOverrides merges non-zero override values into the config.
// Only non-zero values are applied to allow partial overrides.
func applyOverrides(cfg, overrides *Config) {
	applyGitOverrides(cfg, overrides)
	applyGitHubOverrides(cfg, overrides)
	applySyncOverrides(cfg, overrides)

	if overrides.Vault.Dir != "" {
		cfg.Vault.Dir = overrides.Vault.Dir
	}
	if overrides.Vault.BackupBranch != "" {
		cfg.Vault.BackupBranch = overrides.Vault.BackupBranch
	}

	if overrides.Workflow.File != "" {
		cfg.Workflow.File = overrides.Workflow.File
	}
	if overrides.Workflow.PollInterval != 0 {
		cfg.Workflow.PollInterval = overrides.Workflow.PollInterval
	}
	if overrides.Workflow.Timeout != 0 {
		cfg.Workflow.Timeout = overrides.Workflow.Timeout
	}
}

// applyGitOverrides applies git-related overrides to the config.
func applyGitOverrides(cfg, overrides *Config) {
	if overrides.Git.DefaultBranch != "" {
		cfg.Git.DefaultBranch = overrides.Git.DefaultBranch
	}
	if overrides.Git.WorkBranch != "" {
		cfg.Git.WorkBranch = overrides.Git.WorkBranch
	}
	if overrides.Git.RemoteName != "" {
		cfg.Git.RemoteName = overrides.Git.RemoteName
	}
}

// applyGitHubOverrides applies hosting-platform overrides to the config.
func applyGitHubOverrides(cfg, overrides *Config) {
	if overrides.GitHub.Token != "" {
		cfg.GitHub.Token = overrides.GitHub.Token
	}
	if overrides.GitHub.RepoURL != "" {
		cfg.GitHub.RepoURL = overrides.GitHub.RepoURL
	}
	if overrides.GitHub.MergeMethod != "" {
		cfg.GitHub.MergeMethod = overrides.GitHub.MergeMethod
	}
	if overrides.GitHub.Retry.MaxAttempts != 0 {
		cfg.GitHub.Retry.MaxAttempts = overrides.GitHub.Retry.MaxAttempts
	}
	if overrides.GitHub.Retry.InitialBackoff != 0 {
		cfg.GitHub.Retry.InitialBackoff = overrides.GitHub.Retry.InitialBackoff
	}
	if overrides.GitHub.Retry.MaxBackoff != 0 {
		cfg.GitHub.Retry.MaxBackoff = overrides.GitHub.Retry.MaxBackoff
	}
	if overrides.GitHub.Retry.Multiplier != 0 {
		cfg.GitHub.Retry.Multiplier = overrides.GitHub.Retry.Multiplier
	}
}

// applySyncOverrides applies sync identity overrides to the config.
func applySyncOverrides(cfg, overrides *Config) {
	if overrides.Sync.Username != "" {
		cfg.Sync.Username = overrides.Sync.Username
	}
	if overrides.Sync.Email != "" {
		cfg.Sync.Email = overrides.Sync.Email
	}
	if overrides.Sync.CommitMessage != "" {
		cfg.Sync.CommitMessage = overrides.Sync.CommitMessage
	}
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// This configures mapstructure to handle time.Duration conversion from strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}
