package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dev-users/syncer/internal/constants"
	"github.com/dev-users/syncer/internal/errors"
)

// GlobalConfigDir returns the path to the global syncer configuration
// directory, typically ~/.syncer on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.SyncerHome), nil
}

// ProjectConfigDir returns the relative path to the project configuration
// directory. This is always .syncer relative to the project root.
func ProjectConfigDir() string {
	return constants.SyncerHome
}

// GlobalConfigPath returns the full path to the global configuration file,
// typically ~/.syncer/config.yaml on Unix systems.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ProjectConfigPath returns the relative path to the project configuration
// file. This is always .syncer/config.yaml relative to the project root.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), "config.yaml")
}

// SettingsCachePath returns the full path to the settings cache file,
// typically ~/.syncer/cache.json.
func SettingsCachePath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get settings cache path: %w", err)
	}
	return filepath.Join(dir, constants.CacheFileName), nil
}

// LockDir returns the directory holding branch lock files,
// typically ~/.syncer/locks.
func LockDir() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get lock dir: %w", err)
	}
	return filepath.Join(dir, constants.LocksDir), nil
}

// LogPath returns the full path to the rotating CLI log file,
// typically ~/.syncer/logs/syncer.log.
func LogPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get log path: %w", err)
	}
	return filepath.Join(dir, constants.LogsDir, constants.CLILogFileName), nil
}
