package preferences

import (
	"errors"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeout/internal/core/model"
)

func newTestWindow(t *testing.T, onSave func(model.Settings) error) *Window {
	t.Helper()
	return New(test.NewTempApp(t), model.DefaultSettings(), onSave)
}

func TestNew_FillsSections(t *testing.T) {
	prefs := newTestWindow(t, nil)

	require.Len(t, prefs.sections, 2)
	micro := prefs.sections[0]
	assert.Equal(t, "Micro", micro.name.Text)
	assert.Equal(t, "15", micro.interval.Text)
	assert.Equal(t, "15", micro.duration.Text)
	assert.Equal(t, "2", micro.idleThreshold.Text)
	assert.True(t, micro.enabled.Checked)
	assert.Equal(t, "5", prefs.postpone.Text)
	assert.True(t, prefs.fullscreen.Checked)
}

func TestCollect_UnchangedFormRoundTrips(t *testing.T) {
	prefs := newTestWindow(t, nil)

	settings, err := prefs.collect()

	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestCollect_AppliesEdits(t *testing.T) {
	prefs := newTestWindow(t, nil)
	normal := prefs.sections[1]
	normal.interval.SetText("45")
	normal.duration.SetText("300")
	normal.strict.SetChecked(true)
	prefs.sections[0].enabled.SetChecked(false)
	prefs.postpone.SetText("10")
	prefs.launchAtLogin.SetChecked(true)

	settings, err := prefs.collect()

	require.NoError(t, err)
	assert.False(t, settings.Breaks[0].Enabled)
	assert.Equal(t, model.NormalBreakID, settings.Breaks[1].ID)
	assert.Equal(t, 45*time.Minute, settings.Breaks[1].Interval)
	assert.Equal(t, 5*time.Minute, settings.Breaks[1].Duration)
	assert.True(t, settings.Breaks[1].Strict)
	assert.Equal(t, 10*time.Minute, settings.PostponeDelay)
	assert.True(t, settings.LaunchAtLogin)
}

func TestCollect_ReportsFieldErrors(t *testing.T) {
	prefs := newTestWindow(t, nil)
	prefs.sections[0].interval.SetText("soon")
	prefs.sections[1].duration.SetText("0")
	prefs.postpone.SetText("")

	_, err := prefs.collect()

	require.Error(t, err)
	assert.ErrorContains(t, err, "breaks[0].interval")
	assert.ErrorContains(t, err, "breaks[1].duration")
	assert.ErrorContains(t, err, "postpone_delay")
}

func TestCollect_ValidatesName(t *testing.T) {
	prefs := newTestWindow(t, nil)
	prefs.sections[0].name.SetText("  ")

	_, err := prefs.collect()

	assert.ErrorContains(t, err, "breaks[0].name")
}

func TestHandleSave(t *testing.T) {
	var saved []model.Settings
	prefs := newTestWindow(t, func(settings model.Settings) error {
		saved = append(saved, settings)
		return nil
	})
	prefs.sections[0].duration.SetText("20")

	prefs.handleSave()

	require.Len(t, saved, 1)
	assert.Equal(t, 20*time.Second, saved[0].Breaks[0].Duration)
	assert.Empty(t, prefs.errorLabel.Text)
	assert.Equal(t, saved[0], prefs.settings)
}

func TestHandleSave_ShowsErrors(t *testing.T) {
	calls := 0
	prefs := newTestWindow(t, func(model.Settings) error {
		calls++
		return errors.New("write settings file: permission denied")
	})

	prefs.handleSave()
	assert.Equal(t, 1, calls)
	assert.Contains(t, prefs.errorLabel.Text, "permission denied")

	prefs.sections[0].interval.SetText("-1")
	prefs.handleSave()
	assert.Equal(t, 1, calls, "invalid input never reaches onSave")
	assert.Contains(t, prefs.errorLabel.Text, "breaks[0].interval")
}
