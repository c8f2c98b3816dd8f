package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeout/internal/core/model"
)

func writeSettingsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSettings_MissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestSaveLoad_RoundTripKeepsIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TimeOut", settingsFileName)

	stretch, err := model.NewBreakConfig("Stretch", 45*time.Minute, 2*time.Minute)
	require.NoError(t, err)
	stretch.Strict = true
	stretch.ResetOnIdle = false

	want := model.DefaultSettings()
	want.Breaks = append(want.Breaks, stretch)
	want.Breaks[0].Enabled = false
	want.PostponeDelay = 10 * time.Minute
	want.OverlayOpacity = 0.9
	want.Fullscreen = false
	want.LaunchAtLogin = true

	require.NoError(t, SaveSettings(path, want))
	got, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadSettings_FillsMissingFields(t *testing.T) {
	path := writeSettingsFile(t, `
breaks:
  - name: Eyes
    interval_seconds: 1200
    duration_seconds: 20
`)

	settings, err := LoadSettings(path)

	require.NoError(t, err)
	require.Len(t, settings.Breaks, 1)
	eyes := settings.Breaks[0]
	assert.NotEqual(t, uuid.Nil, eyes.ID)
	assert.Equal(t, "Eyes", eyes.Name)
	assert.Equal(t, 20*time.Minute, eyes.Interval)
	assert.Equal(t, 20*time.Second, eyes.Duration)
	assert.True(t, eyes.Enabled)
	assert.True(t, eyes.ResetOnIdle)
	assert.Equal(t, model.DefaultIdleThreshold, eyes.IdleThreshold)

	defaults := model.DefaultSettings()
	assert.Equal(t, defaults.PostponeDelay, settings.PostponeDelay)
	assert.Equal(t, defaults.OverlayOpacity, settings.OverlayOpacity)
	assert.True(t, settings.Fullscreen)
}

func TestLoadSettings_EmptyBreaksUseDefaults(t *testing.T) {
	path := writeSettingsFile(t, "postpone_minutes: 3\n")

	settings, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, model.DefaultBreaks(), settings.Breaks)
	assert.Equal(t, 3*time.Minute, settings.PostponeDelay)
}

func TestLoadSettings_IgnoresOutOfRangeGeneralValues(t *testing.T) {
	path := writeSettingsFile(t, "postpone_minutes: -4\noverlay_opacity: 0.2\n")

	settings, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, model.DefaultPostponeDelay, settings.PostponeDelay)
	assert.Equal(t, model.DefaultSettings().OverlayOpacity, settings.OverlayOpacity)
}

func TestLoadSettings_KeepsInvalidBreakForValidation(t *testing.T) {
	path := writeSettingsFile(t, `
breaks:
  - id: 6f1c1d1e-2f0b-4a55-9a53-0c1b5d1f9e11
    name: Broken
    interval_seconds: 0
    duration_seconds: 30
`)

	settings, err := LoadSettings(path)

	require.NoError(t, err)
	assert.ErrorContains(t, settings.Validate(), "breaks[0].interval")
}

func TestLoadSettings_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "malformed yaml", content: "breaks: [", want: "parse settings yaml"},
		{name: "bad id", content: "breaks:\n  - id: nope\n    name: x\n", want: "breaks[0]: parse id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings, err := LoadSettings(writeSettingsFile(t, tt.content))

			assert.ErrorContains(t, err, tt.want)
			assert.Equal(t, model.DefaultSettings(), settings)
		})
	}
}

func TestDefaultSettingsPath(t *testing.T) {
	path, err := DefaultSettingsPath("TimeOut")
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}

	assert.Equal(t, settingsFileName, filepath.Base(path))
	assert.Equal(t, "TimeOut", filepath.Base(filepath.Dir(path)))
}
