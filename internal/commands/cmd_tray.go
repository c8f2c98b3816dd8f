package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"timeout/internal/core/scheduler"
	"timeout/internal/platform"
	"timeout/internal/ui/overlay"
	"timeout/internal/ui/preferences"
	"timeout/internal/ui/tray"
)

// ErrTrayUnsupported is returned when the fyne driver has no system tray.
var ErrTrayUnsupported = errors.New("system tray unsupported on this platform")

type TrayCmd struct {
	flags *Flags
}

// NewTrayCmd creates the desktop tray command.
func NewTrayCmd(flags *Flags) *TrayCmd {
	return &TrayCmd{flags: flags}
}

// Run executes the tray app. Exported for use as default command.
func (cmd *TrayCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TrayCmd) run(_ context.Context, _ *cli.Command) error {
	guard, err := platform.AcquireSingleInstance(AppName)
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	settings := cmd.flags.loadSettings()
	sched, err := scheduler.New(settings.Breaks, scheduler.Options{Logger: log.Logger})
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	sched.SetIdleSource(platform.NewIdleSource())

	fyneApp := app.NewWithID("com.timeout.app")
	fyneApp.SetIcon(theme.HistoryIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return ErrTrayUnsupported
	}

	trayWindow := fyneApp.NewWindow(AppName)
	trayWindow.SetContent(widget.NewLabel("TimeOut is running in the system tray."))
	trayWindow.SetCloseIntercept(trayWindow.Hide)
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	execPath, err := os.Executable()
	if err != nil {
		log.Warn().Err(err).Msg("cannot resolve executable, launch at login unavailable")
	}

	desk := &desktopShell{
		scheduler:    sched,
		tray:         desktopApp,
		settings:     settings,
		settingsPath: cmd.flags.ConfigPath,
		autostart:    platform.NewAutostart(AppName),
		execPath:     execPath,
		quit:         fyneApp.Quit,
		logger:       log.With().Str("component", "tray").Logger(),
	}
	breakWindow := overlay.New(fyneApp, desk.overlayConfig())
	breakWindow.SetOnSkip(sched.SkipBreak)
	breakWindow.SetOnPostpone(desk.postpone)
	desk.overlay = breakWindow
	desk.prefs = preferences.New(fyneApp, settings, desk.applySettings)
	desk.menu = tray.New(desktopApp, desk.callbacks(), settings.Breaks)
	desk.syncAutostart()

	events := sched.Subscribe(32)
	go func() {
		for event := range events {
			fyne.Do(func() {
				desk.handleEvent(event)
			})
		}
	}()

	sched.Start()
	defer sched.Stop()

	fyneApp.Run()
	return nil
}
