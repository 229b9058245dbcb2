package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigDirName is the directory name used under the platform config root.
const ConfigDirName = "canlog"

// configDir returns the platform-appropriate config directory.
//   - Windows: %APPDATA%\canlog
//   - Unix: ~/.config/canlog (XDG standard)
func configDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, ConfigDirName)
		}
		if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
			return filepath.Join(userProfile, "AppData", "Roaming", ConfigDirName)
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", ConfigDirName)
	}
	return ""
}

// DefaultConfigPath returns the default config file path.
// Falls back to config.ini in the working directory when no home directory is known.
func DefaultConfigPath() string {
	dir := configDir()
	if dir == "" {
		return "config.ini"
	}
	return filepath.Join(dir, "config.ini")
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir := configDir()
	if dir == "" {
		return os.ErrNotExist
	}
	return os.MkdirAll(dir, 0700)
}

// LogDirectory returns the directory for rotating log files.
//
// Locations:
//   - Windows: %LOCALAPPDATA%\canlog\logs
//   - Unix: ~/.config/canlog/logs
func LogDirectory() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "canlog-logs")
			}
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		return filepath.Join(localAppData, ConfigDirName, "logs")
	}

	dir := configDir()
	if dir == "" {
		return filepath.Join(os.TempDir(), "canlog-logs")
	}
	return filepath.Join(dir, "logs")
}

// EnsureLogDirectory creates the log directory with owner-only permissions.
func EnsureLogDirectory() error {
	return os.MkdirAll(LogDirectory(), 0700)
}
