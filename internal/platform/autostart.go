package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Autostart registers the application to launch at login.
type Autostart interface {
	Enable(execPath string) error
	Disable() error
	Enabled() (bool, error)
}

type autostart struct {
	appName string
}

// NewAutostart returns the login item manager for this OS.
func NewAutostart(appName string) Autostart {
	return &autostart{appName: appName}
}

// SyncAutostart makes the login item match enabled.
func SyncAutostart(service Autostart, enabled bool, execPath string) error {
	current, err := service.Enabled()
	if err != nil {
		return fmt.Errorf("sync autostart: %w", err)
	}
	switch {
	case enabled && !current:
		return service.Enable(execPath)
	case !enabled && current:
		return service.Disable()
	}
	return nil
}

// configDir returns the OS configuration directory, falling back to a
// home-relative path when the environment does not define one.
func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err == nil && dir != "" {
		return dir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}
	return fallbackConfigDir(homeDir), nil
}

func slugName(appName string) string {
	name := strings.TrimSpace(appName)
	if name == "" {
		name = "timeout"
	}
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "-")
}

func requireAppName(action, appName string) error {
	if strings.TrimSpace(appName) == "" {
		return fmt.Errorf("%s: app name is empty", action)
	}
	return nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
