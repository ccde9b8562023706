package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/dev-users/syncer/internal/constants"
	"github.com/dev-users/syncer/internal/errors"
)

// Settings holds the last-used sync settings, persisted between runs so
// interactive commands can offer previous answers as defaults.
type Settings struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	RepoLink      string `json:"repo_link"`
	CommitMessage string `json:"commit_message"`
	VaultDir      string `json:"vault_dir"`
	Branch        string `json:"branch"`
}

// DefaultSettings returns the settings used when no cache exists yet.
func DefaultSettings() *Settings {
	return &Settings{
		CommitMessage: constants.DefaultCommitMessage,
		Branch:        constants.DefaultBaseBranch,
	}
}

// SettingsCache reads and writes the persisted settings file.
type SettingsCache struct {
	path string
}

// NewSettingsCache returns a cache backed by ~/.syncer/cache.json.
func NewSettingsCache() (*SettingsCache, error) {
	path, err := SettingsCachePath()
	if err != nil {
		return nil, err
	}
	return &SettingsCache{path: path}, nil
}

// NewSettingsCacheAt returns a cache backed by an explicit path (for testing).
func NewSettingsCacheAt(path string) *SettingsCache {
	return &SettingsCache{path: path}
}

// Path returns the cache file location.
func (c *SettingsCache) Path() string {
	return c.path
}

// Load reads the cached settings. A missing file yields defaults without
// error; a corrupt file yields defaults plus ErrCacheCorrupted so callers
// can warn and continue.
func (c *SettingsCache) Load() (*Settings, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, errors.Wrap(err, "failed to read settings cache")
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), errors.Wrapf(errors.ErrCacheCorrupted, "%s", c.path)
	}

	if settings.CommitMessage == "" {
		settings.CommitMessage = constants.DefaultCommitMessage
	}
	if settings.Branch == "" {
		settings.Branch = constants.DefaultBaseBranch
	}

	return &settings, nil
}

// Save writes the settings to disk, creating the parent directory as needed.
func (c *SettingsCache) Save(settings *Settings) error {
	if settings == nil {
		return errors.ErrConfigNil
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o750); err != nil {
		return errors.Wrap(err, "failed to create cache directory")
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal settings")
	}

	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return errors.Wrap(err, "failed to write settings cache")
	}

	return nil
}

// Clear removes the cache file. A missing file is not an error.
func (c *SettingsCache) Clear() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove settings cache")
	}
	return nil
}
