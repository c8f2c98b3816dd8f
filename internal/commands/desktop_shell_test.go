package commands

import (
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeout/internal/core/model"
	"timeout/internal/core/scheduler"
	"timeout/internal/storage"
	"timeout/internal/ui/overlay"
)

type fakeSystemTray struct {
	icons []fyne.Resource
}

func (fake *fakeSystemTray) SetSystemTrayMenu(*fyne.Menu) {}
func (fake *fakeSystemTray) SetSystemTrayIcon(icon fyne.Resource) {
	fake.icons = append(fake.icons, icon)
}

type fakeMenu struct {
	updates int
	breaks  [][]model.BreakConfig
}

func (fake *fakeMenu) Update(scheduler.Snapshot) { fake.updates++ }
func (fake *fakeMenu) SetBreaks(breaks []model.BreakConfig) {
	fake.breaks = append(fake.breaks, breaks)
}

type fakeOverlay struct {
	visible  bool
	sessions []overlay.Session
	updates  int
	hides    int
	config   overlay.Config
}

func (fake *fakeOverlay) Show(session overlay.Session) {
	fake.visible = true
	fake.sessions = append(fake.sessions, session)
}

func (fake *fakeOverlay) Update(time.Duration, float64) { fake.updates++ }

func (fake *fakeOverlay) Hide() {
	fake.visible = false
	fake.hides++
}

func (fake *fakeOverlay) Visible() bool                      { return fake.visible }
func (fake *fakeOverlay) UpdateConfig(config overlay.Config) { fake.config = config }

type fakePrefs struct{ shown int }

func (fake *fakePrefs) Show() { fake.shown++ }

type shellFixture struct {
	desk    *desktopShell
	sched   *scheduler.Scheduler
	tray    *fakeSystemTray
	menu    *fakeMenu
	overlay *fakeOverlay
	prefs   *fakePrefs
	quits   int
}

func newShell(t *testing.T) *shellFixture {
	t.Helper()
	test.NewTempApp(t)

	start := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	sched, err := scheduler.New(model.DefaultBreaks(), scheduler.Options{
		Now:    func() time.Time { return start },
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)

	fixture := &shellFixture{
		sched:   sched,
		tray:    &fakeSystemTray{},
		menu:    &fakeMenu{},
		overlay: &fakeOverlay{},
		prefs:   &fakePrefs{},
	}
	fixture.desk = &desktopShell{
		scheduler:    sched,
		tray:         fixture.tray,
		menu:         fixture.menu,
		overlay:      fixture.overlay,
		prefs:        fixture.prefs,
		settings:     model.DefaultSettings(),
		settingsPath: filepath.Join(t.TempDir(), "settings.yaml"),
		quit:         func() { fixture.quits++ },
		logger:       zerolog.Nop(),
	}
	return fixture
}

func (fixture *shellFixture) emit(eventType scheduler.EventType) {
	fixture.desk.handleEvent(scheduler.Event{Type: eventType, Snapshot: fixture.sched.Snapshot()})
}

func TestHandleEvent_OverlayFollowsBreak(t *testing.T) {
	fixture := newShell(t)

	require.True(t, fixture.sched.ForceBreak(model.MicroBreakID))
	fixture.emit(scheduler.EventStateChange)
	require.Len(t, fixture.overlay.sessions, 1)
	assert.Equal(t, "Micro Break", fixture.overlay.sessions[0].Title)

	fixture.emit(scheduler.EventProgress)
	assert.Equal(t, 1, fixture.overlay.updates)
	assert.Len(t, fixture.overlay.sessions, 1)

	fixture.sched.SkipBreak()
	fixture.emit(scheduler.EventStateChange)
	assert.False(t, fixture.overlay.visible)
	assert.Equal(t, 1, fixture.overlay.hides)

	fixture.emit(scheduler.EventProgress)
	assert.Equal(t, 1, fixture.overlay.hides, "hidden overlay is left alone")
	assert.Equal(t, 4, fixture.menu.updates)
}

func TestHandleEvent_ReopensHiddenOverlay(t *testing.T) {
	fixture := newShell(t)
	require.True(t, fixture.sched.ForceBreak(model.NormalBreakID))

	fixture.emit(scheduler.EventProgress)

	require.Len(t, fixture.overlay.sessions, 1)
	assert.Zero(t, fixture.overlay.updates)
}

func TestHandleEvent_TrayIconTracksPause(t *testing.T) {
	fixture := newShell(t)

	fixture.emit(scheduler.EventProgress)
	fixture.emit(scheduler.EventProgress)
	fixture.sched.TogglePause()
	fixture.emit(scheduler.EventPauseChange)

	require.Len(t, fixture.tray.icons, 2)
	assert.Equal(t, theme.HistoryIcon().Name(), fixture.tray.icons[0].Name())
	assert.Equal(t, theme.MediaPauseIcon().Name(), fixture.tray.icons[1].Name())
}

func TestHandleEvent_ConfigChangeRebuildsMenu(t *testing.T) {
	fixture := newShell(t)

	fixture.emit(scheduler.EventConfigChange)

	require.Len(t, fixture.menu.breaks, 1)
	assert.Equal(t, model.DefaultBreaks(), fixture.menu.breaks[0])
}

func TestApplySettings(t *testing.T) {
	fixture := newShell(t)
	service := &fakeAutostart{}
	fixture.desk.autostart = service
	fixture.desk.execPath = "/usr/bin/timeout"

	updated := model.DefaultSettings()
	updated.Breaks[0].Interval = 20 * time.Minute
	updated.PostponeDelay = 10 * time.Minute
	updated.OverlayOpacity = 0.9
	updated.LaunchAtLogin = true

	require.NoError(t, fixture.desk.applySettings(updated))

	saved, err := storage.LoadSettings(fixture.desk.settingsPath)
	require.NoError(t, err)
	assert.Equal(t, updated, saved)
	assert.Equal(t, 20*time.Minute, fixture.sched.Breaks()[0].Interval)
	assert.Equal(t, overlay.Config{Opacity: 0.9, Fullscreen: true, PostponeDelay: 10 * time.Minute}, fixture.overlay.config)
	assert.True(t, service.enabled)
	assert.Equal(t, "/usr/bin/timeout", service.execPath)
}

func TestApplySettings_RejectsInvalidBreaks(t *testing.T) {
	fixture := newShell(t)

	updated := model.DefaultSettings()
	updated.Breaks[1].Duration = 0

	require.Error(t, fixture.desk.applySettings(updated))
	assert.NoFileExists(t, fixture.desk.settingsPath)
	assert.Equal(t, model.DefaultSettings(), fixture.desk.settings)
}

func TestCallbacks(t *testing.T) {
	fixture := newShell(t)
	callbacks := fixture.desk.callbacks()

	callbacks.OnPreferences()
	assert.Equal(t, 1, fixture.prefs.shown)

	callbacks.OnTakeBreak(model.MicroBreakID)
	_, inBreak := fixture.sched.State().ActiveBreak()
	assert.True(t, inBreak)

	callbacks.OnPostpone()
	assert.True(t, fixture.sched.State().IsWorking())

	callbacks.OnPauseFor(15 * time.Minute)
	assert.True(t, fixture.sched.Paused())

	callbacks.OnQuit()
	assert.Equal(t, 1, fixture.quits)
}
