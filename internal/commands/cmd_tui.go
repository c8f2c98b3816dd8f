package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"timeout/internal/core/scheduler"
	"timeout/internal/platform"
	"timeout/internal/ui/tui"
)

// ErrNotTerminal is returned when the tui command is not attached to a terminal.
var ErrNotTerminal = errors.New("tui requires an interactive terminal")

type TuiCmd struct {
	flags *Flags
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "tui",
		Usage:       "Run the break scheduler in the terminal",
		UsageText:   "timeout tui",
		Description: "Shows upcoming breaks and takes over the terminal while a break runs.",
		Action:      cmd.run,
	})

	return app
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNotTerminal
	}

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

	events := sched.Subscribe(64)
	sched.Start()
	defer sched.Stop()

	m := tui.New(sched, events, tui.Options{PostponeDelay: settings.PostponeDelay, Logger: log.Logger})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
