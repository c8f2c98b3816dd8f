//go:build linux

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

func (service *autostart) Enable(execPath string) error {
	if err := requireAppName("enable autostart", service.appName); err != nil {
		return err
	}
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}

	path, err := service.entryPath()
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("enable autostart: create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(buildDesktopEntry(service.appName, execPath)), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write desktop entry: %w", err)
	}
	return nil
}

func (service *autostart) Disable() error {
	if err := requireAppName("disable autostart", service.appName); err != nil {
		return err
	}

	path, err := service.entryPath()
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("disable autostart: remove desktop entry: %w", err)
	}
	return nil
}

func (service *autostart) Enabled() (bool, error) {
	path, err := service.entryPath()
	if err != nil {
		return false, err
	}
	return fileExists(path)
}

func (service *autostart) entryPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "autostart", desktopFileName(service.appName)), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}
