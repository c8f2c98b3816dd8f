package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"timeout/internal/platform"
	"timeout/internal/storage"
)

type AutostartCmd struct {
	flags   *Flags
	service platform.Autostart
}

// NewAutostartCmd creates the autostart command group.
func NewAutostartCmd(flags *Flags, service platform.Autostart) *AutostartCmd {
	return &AutostartCmd{flags: flags, service: service}
}

// Register adds the autostart commands to the application.
func (cmd *AutostartCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "autostart",
		Usage: "Manage launch at login",
		Commands: []*cli.Command{
			{
				Name:   "enable",
				Usage:  "Launch TimeOut at login",
				Action: func(ctx context.Context, c *cli.Command) error { return cmd.set(c, true) },
			},
			{
				Name:   "disable",
				Usage:  "Stop launching TimeOut at login",
				Action: func(ctx context.Context, c *cli.Command) error { return cmd.set(c, false) },
			},
		},
	})

	return app
}

// set updates the login item and records the choice in the settings file so
// the preferences window agrees with it.
func (cmd *AutostartCmd) set(c *cli.Command, enabled bool) error {
	execPath := ""
	if enabled {
		path, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve executable: %w", err)
		}
		execPath = path
	}
	if err := platform.SyncAutostart(cmd.service, enabled, execPath); err != nil {
		return err
	}

	settings, err := storage.LoadSettings(cmd.flags.ConfigPath)
	if err != nil {
		log.Warn().Err(err).Msg("autostart updated but settings file was not")
	} else if settings.LaunchAtLogin != enabled {
		settings.LaunchAtLogin = enabled
		if err := storage.SaveSettings(cmd.flags.ConfigPath, settings); err != nil {
			return err
		}
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	_, err = fmt.Fprintf(c.Root().Writer, "launch at login %s\n", state)
	return err
}
