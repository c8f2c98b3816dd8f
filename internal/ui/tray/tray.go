package tray

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"github.com/google/uuid"

	"timeout/internal/core/model"
	"timeout/internal/core/scheduler"
)

const appTitle = "TimeOut"

// PauseDurations are the "Disable breaks for" choices.
var PauseDurations = []time.Duration{5 * time.Minute, 15 * time.Minute, 30 * time.Minute, 60 * time.Minute}

// MenuSetter installs the tray menu. desktop.App satisfies it.
type MenuSetter interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnPreferences func()
	OnTogglePause func()
	OnSkipBreak   func()
	OnPostpone    func()
	OnPauseFor    func(time.Duration)
	OnTakeBreak   func(uuid.UUID)
	OnQuit        func()
}

// Manager handles system tray state. Its methods must run on the fyne
// goroutine.
type Manager struct {
	app          MenuSetter
	callbacks    Callbacks
	statusItem   *fyne.MenuItem
	pauseItem    *fyne.MenuItem
	skipItem     *fyne.MenuItem
	postponeItem *fyne.MenuItem
	pauseFor     *fyne.MenuItem
	takeBreak    *fyne.MenuItem
	preferences  *fyne.MenuItem
	quit         *fyne.MenuItem
}

// New creates a tray manager and installs its menu.
func New(app MenuSetter, callbacks Callbacks, breaks []model.BreakConfig) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.preferences = fyne.NewMenuItem("Preferences", func() { call(manager.callbacks.OnPreferences) })

	pauseChoices := make([]*fyne.MenuItem, 0, len(PauseDurations))
	for _, duration := range PauseDurations {
		pauseChoices = append(pauseChoices, fyne.NewMenuItem(fmt.Sprintf("%d minutes", int(duration.Minutes())), func() {
			if manager.callbacks.OnPauseFor != nil {
				manager.callbacks.OnPauseFor(duration)
			}
		}))
	}
	manager.pauseFor = fyne.NewMenuItem("Disable breaks for...", nil)
	manager.pauseFor.ChildMenu = fyne.NewMenu("", pauseChoices...)

	manager.takeBreak = fyne.NewMenuItem("Take a break now", nil)
	manager.pauseItem = fyne.NewMenuItem("Pause", func() { call(manager.callbacks.OnTogglePause) })

	manager.skipItem = fyne.NewMenuItem("Skip break", func() { call(manager.callbacks.OnSkipBreak) })
	manager.skipItem.Disabled = true

	manager.postponeItem = fyne.NewMenuItem("Postpone break", func() { call(manager.callbacks.OnPostpone) })
	manager.postponeItem.Disabled = true

	manager.quit = fyne.NewMenuItem("Quit", func() { call(manager.callbacks.OnQuit) })

	manager.SetBreaks(breaks)
	return manager
}

// SetBreaks rebuilds the "Take a break now" submenu.
func (manager *Manager) SetBreaks(breaks []model.BreakConfig) {
	items := make([]*fyne.MenuItem, 0, len(breaks))
	for _, config := range breaks {
		id := config.ID
		item := fyne.NewMenuItem(config.Name, func() {
			if manager.callbacks.OnTakeBreak != nil {
				manager.callbacks.OnTakeBreak(id)
			}
		})
		item.Disabled = !config.Enabled
		items = append(items, item)
	}
	manager.takeBreak.ChildMenu = fyne.NewMenu("", items...)
	manager.takeBreak.Disabled = len(items) == 0
	manager.refreshMenu()
}

// Update reflects a scheduler snapshot in the menu.
func (manager *Manager) Update(snapshot scheduler.Snapshot) {
	_, inBreak := snapshot.State.ActiveBreak()

	manager.statusItem.Label = "Status: " + StatusText(snapshot)
	if snapshot.Paused {
		manager.pauseItem.Label = "Resume"
	} else {
		manager.pauseItem.Label = "Pause"
	}
	manager.skipItem.Disabled = !inBreak
	manager.postponeItem.Disabled = !inBreak
	manager.takeBreak.Disabled = inBreak || snapshot.Paused || len(manager.takeBreak.ChildMenu.Items) == 0
	manager.refreshMenu()
}

// StatusText renders the one-line tray status for a snapshot.
func StatusText(snapshot scheduler.Snapshot) string {
	var status string
	if active, ok := snapshot.State.ActiveBreak(); ok {
		status = fmt.Sprintf("on %s break (%s left)", active.Config.Name, snapshot.RemainingText)
	} else if snapshot.HasNextBreak {
		status = "next break in " + scheduler.FormatRemaining(snapshot.NextBreakIn)
	} else {
		status = "all breaks disabled"
	}

	switch {
	case snapshot.Paused && !snapshot.PausedUntil.IsZero():
		status = fmt.Sprintf("%s (paused until %s)", status, snapshot.PausedUntil.Format(time.Kitchen))
	case snapshot.Paused:
		status += " (paused)"
	}
	return status
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(appTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.preferences,
		manager.pauseFor,
		manager.takeBreak,
		manager.pauseItem,
		manager.skipItem,
		manager.postponeItem,
		fyne.NewMenuItemSeparator(),
		manager.quit,
	))
}

func call(handler func()) {
	if handler != nil {
		handler()
	}
}
