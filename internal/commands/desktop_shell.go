package commands

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"timeout/internal/core/model"
	"timeout/internal/core/scheduler"
	"timeout/internal/platform"
	"timeout/internal/storage"
	"timeout/internal/ui/overlay"
	"timeout/internal/ui/tray"
)

// systemTray is the part of desktop.App the shell drives.
type systemTray interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

type breakOverlay interface {
	Show(session overlay.Session)
	Update(remaining time.Duration, progress float64)
	Hide()
	Visible() bool
	UpdateConfig(config overlay.Config)
}

type trayMenu interface {
	Update(snapshot scheduler.Snapshot)
	SetBreaks(breaks []model.BreakConfig)
}

type shower interface {
	Show()
}

// desktopShell connects scheduler events and user actions to the fyne
// windows. handleEvent and the callbacks run on the fyne goroutine.
type desktopShell struct {
	scheduler    *scheduler.Scheduler
	tray         systemTray
	menu         trayMenu
	overlay      breakOverlay
	prefs        shower
	settings     model.Settings
	settingsPath string
	autostart    platform.Autostart
	execPath     string
	quit         func()
	logger       zerolog.Logger

	iconPaused *bool
}

func (desk *desktopShell) callbacks() tray.Callbacks {
	return tray.Callbacks{
		OnPreferences: func() { desk.prefs.Show() },
		OnTogglePause: desk.scheduler.TogglePause,
		OnSkipBreak:   desk.scheduler.SkipBreak,
		OnPostpone:    desk.postpone,
		OnPauseFor:    desk.scheduler.PauseFor,
		OnTakeBreak: func(id uuid.UUID) {
			if !desk.scheduler.ForceBreak(id) {
				desk.logger.Info().Str("id", id.String()).Msg("break not started")
			}
		},
		OnQuit: func() {
			desk.scheduler.Stop()
			desk.quit()
		},
	}
}

func (desk *desktopShell) postpone() {
	desk.scheduler.PostponeBreak(desk.settings.PostponeDelay)
}

func (desk *desktopShell) overlayConfig() overlay.Config {
	return overlay.Config{
		Opacity:       desk.settings.OverlayOpacity,
		Fullscreen:    desk.settings.Fullscreen,
		PostponeDelay: desk.settings.PostponeDelay,
	}
}

func (desk *desktopShell) handleEvent(event scheduler.Event) {
	snapshot := event.Snapshot
	if event.Type == scheduler.EventConfigChange {
		desk.menu.SetBreaks(desk.scheduler.Breaks())
	}
	desk.menu.Update(snapshot)
	desk.setTrayIcon(snapshot.Paused)

	active, inBreak := snapshot.State.ActiveBreak()
	switch {
	case inBreak && (!desk.overlay.Visible() || event.Type == scheduler.EventStateChange):
		desk.overlay.Show(overlay.NewSession(active, snapshot.Remaining, snapshot.Progress))
	case inBreak:
		desk.overlay.Update(snapshot.Remaining, snapshot.Progress)
	case desk.overlay.Visible():
		desk.overlay.Hide()
	}
}

func (desk *desktopShell) setTrayIcon(paused bool) {
	if desk.iconPaused != nil && *desk.iconPaused == paused {
		return
	}
	desk.iconPaused = &paused
	if paused {
		desk.tray.SetSystemTrayIcon(theme.MediaPauseIcon())
		return
	}
	desk.tray.SetSystemTrayIcon(theme.HistoryIcon())
}

// applySettings persists validated settings from the preferences window and
// applies them live.
func (desk *desktopShell) applySettings(updated model.Settings) error {
	if err := desk.scheduler.SetBreaks(updated.Breaks); err != nil {
		return err
	}
	if err := storage.SaveSettings(desk.settingsPath, updated); err != nil {
		desk.logger.Error().Err(err).Str("path", desk.settingsPath).Msg("failed to save settings")
		return err
	}

	launchChanged := updated.LaunchAtLogin != desk.settings.LaunchAtLogin
	desk.settings = updated
	desk.overlay.UpdateConfig(desk.overlayConfig())
	if launchChanged {
		desk.syncAutostart()
	}
	desk.logger.Info().Int("breaks", len(updated.Breaks)).Msg("settings applied")
	return nil
}

func (desk *desktopShell) syncAutostart() {
	if desk.autostart == nil || (desk.execPath == "" && desk.settings.LaunchAtLogin) {
		return
	}
	if err := platform.SyncAutostart(desk.autostart, desk.settings.LaunchAtLogin, desk.execPath); err != nil {
		desk.logger.Warn().Err(err).Msg("failed to update launch at login")
	}
}
