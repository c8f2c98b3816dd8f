package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"timeout/internal/core/model"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	Breaks          []yamlBreak `yaml:"breaks"`
	PostponeMinutes int         `yaml:"postpone_minutes"`
	OverlayOpacity  float64     `yaml:"overlay_opacity"`
	Fullscreen      *bool       `yaml:"fullscreen,omitempty"`
	LaunchAtLogin   bool        `yaml:"launch_at_login"`
}

type yamlBreak struct {
	ID                   string `yaml:"id"`
	Name                 string `yaml:"name"`
	IntervalSeconds      int    `yaml:"interval_seconds"`
	DurationSeconds      int    `yaml:"duration_seconds"`
	Enabled              *bool  `yaml:"enabled,omitempty"`
	ResetOnIdle          *bool  `yaml:"reset_on_idle,omitempty"`
	IdleThresholdSeconds *int   `yaml:"idle_threshold_seconds,omitempty"`
	Strict               bool   `yaml:"strict"`
}

// DefaultSettingsPath returns <UserConfigDir>/<appName>/settings.yaml.
func DefaultSettingsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// LoadSettings reads user preferences from the YAML file at path.
// If the file does not exist, default settings are returned. The result is
// not validated; callers decide how to treat invalid break configs.
func LoadSettings(path string) (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	if err := applyYamlSettings(&settings, fileData); err != nil {
		return model.DefaultSettings(), err
	}
	return settings, nil
}

// SaveSettings writes user preferences to the YAML file at path.
func SaveSettings(path string, settings model.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fullscreen := settings.Fullscreen
	fileData := yamlSettings{
		Breaks:          make([]yamlBreak, 0, len(settings.Breaks)),
		PostponeMinutes: int(settings.PostponeDelay / time.Minute),
		OverlayOpacity:  settings.OverlayOpacity,
		Fullscreen:      &fullscreen,
		LaunchAtLogin:   settings.LaunchAtLogin,
	}
	for _, config := range settings.Breaks {
		fileData.Breaks = append(fileData.Breaks, toYamlBreak(config))
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func toYamlBreak(config model.BreakConfig) yamlBreak {
	enabled := config.Enabled
	resetOnIdle := config.ResetOnIdle
	idleThreshold := int(config.IdleThreshold / time.Second)
	return yamlBreak{
		ID:                   config.ID.String(),
		Name:                 config.Name,
		IntervalSeconds:      int(config.Interval / time.Second),
		DurationSeconds:      int(config.Duration / time.Second),
		Enabled:              &enabled,
		ResetOnIdle:          &resetOnIdle,
		IdleThresholdSeconds: &idleThreshold,
		Strict:               config.Strict,
	}
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) error {
	if len(fileData.Breaks) > 0 {
		breaks := make([]model.BreakConfig, 0, len(fileData.Breaks))
		for i, entry := range fileData.Breaks {
			config, err := fromYamlBreak(entry)
			if err != nil {
				return fmt.Errorf("breaks[%d]: %w", i, err)
			}
			breaks = append(breaks, config)
		}
		settings.Breaks = breaks
	}

	if fileData.PostponeMinutes > 0 {
		settings.PostponeDelay = time.Duration(fileData.PostponeMinutes) * time.Minute
	}
	if fileData.OverlayOpacity >= model.MinOverlayOpacity && fileData.OverlayOpacity <= model.MaxOverlayOpacity {
		settings.OverlayOpacity = fileData.OverlayOpacity
	}
	if fileData.Fullscreen != nil {
		settings.Fullscreen = *fileData.Fullscreen
	}
	settings.LaunchAtLogin = fileData.LaunchAtLogin
	return nil
}

// fromYamlBreak keeps durations as written so validation can report them;
// entries without an id get a fresh one.
func fromYamlBreak(entry yamlBreak) (model.BreakConfig, error) {
	id := uuid.New()
	if entry.ID != "" {
		parsed, err := uuid.Parse(entry.ID)
		if err != nil {
			return model.BreakConfig{}, fmt.Errorf("parse id %q: %w", entry.ID, err)
		}
		id = parsed
	}

	config := model.BreakConfig{
		ID:            id,
		Name:          entry.Name,
		Interval:      time.Duration(entry.IntervalSeconds) * time.Second,
		Duration:      time.Duration(entry.DurationSeconds) * time.Second,
		Enabled:       true,
		ResetOnIdle:   true,
		IdleThreshold: model.DefaultIdleThreshold,
		Strict:        entry.Strict,
	}
	if entry.Enabled != nil {
		config.Enabled = *entry.Enabled
	}
	if entry.ResetOnIdle != nil {
		config.ResetOnIdle = *entry.ResetOnIdle
	}
	if entry.IdleThresholdSeconds != nil {
		config.IdleThreshold = time.Duration(*entry.IdleThresholdSeconds) * time.Second
	}
	return config, nil
}
