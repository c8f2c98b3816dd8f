package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog/log"

	"timeout/internal/core/model"
	"timeout/internal/storage"
)

// AppName names the settings directory, login item and single-instance lock.
const AppName = "TimeOut"

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
}

// DefaultConfigPath returns <UserConfigDir>/TimeOut/settings.yaml.
func DefaultConfigPath() string {
	path, err := storage.DefaultSettingsPath(AppName)
	if err != nil {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", AppName, "settings.yaml")
	}
	return path
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/TimeOut/timeout.log
// On Linux: $XDG_STATE_HOME/timeout/timeout.log (defaults to ~/.local/state/timeout/timeout.log)
// On Windows: %LocalAppData%\TimeOut\timeout.log
func DefaultLogFile() string {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, "timeout", "timeout.log")
	}

	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Logs", AppName, "timeout.log")
	case "windows":
		if cacheDir, err := os.UserCacheDir(); err == nil {
			return filepath.Join(cacheDir, AppName, "timeout.log")
		}
	}
	return filepath.Join(home, ".local", "state", "timeout", "timeout.log")
}

// loadSettings reads the settings file for a long-running command. Unreadable
// or invalid settings are logged and replaced by the defaults so breaks keep
// running; `config validate` reports the details.
func (flags *Flags) loadSettings() model.Settings {
	settings, err := storage.LoadSettings(flags.ConfigPath)
	if err != nil {
		log.Warn().Err(err).Str("path", flags.ConfigPath).Msg("failed to load settings, using defaults")
		return model.DefaultSettings()
	}
	if err := settings.Validate(); err != nil {
		log.Warn().Err(err).Str("path", flags.ConfigPath).Msg("invalid settings, using defaults")
		return model.DefaultSettings()
	}
	return settings
}
