package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"timeout/internal/core/model"
	"timeout/internal/storage"
)

// ErrInvalidSettings is returned by `config validate` when the file has problems.
var ErrInvalidSettings = errors.New("settings file is invalid")

type ConfigCmd struct {
	flags *Flags

	// flags
	format string
	force  bool
}

// NewConfigCmd creates the config command group.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config commands to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Settings file commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate the settings file",
				UsageText:   "timeout config validate [--format text|json]",
				Description: "Parses the settings file and checks every break and general setting.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.validate,
			},
			{
				Name:   "path",
				Usage:  "Print the settings file path",
				Action: cmd.path,
			},
			{
				Name:  "init",
				Usage: "Write the default settings file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "force",
						Usage:       "overwrite an existing file",
						Destination: &cmd.force,
					},
				},
				Action: cmd.init,
			},
		},
	})

	return app
}

type validationIssue struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

func (cmd *ConfigCmd) validate(_ context.Context, c *cli.Command) error {
	var issues []validationIssue

	settings, err := storage.LoadSettings(cmd.flags.ConfigPath)
	if err != nil {
		issues = append(issues, validationIssue{Field: "file", Error: err.Error()})
	} else {
		issues = validationIssues(settings.Validate())
	}

	out := c.Root().Writer
	if cmd.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(struct {
			Path   string            `json:"path"`
			Valid  bool              `json:"valid"`
			Issues []validationIssue `json:"issues,omitempty"`
		}{Path: cmd.flags.ConfigPath, Valid: len(issues) == 0, Issues: issues}); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	} else {
		writeIssues(out, cmd.flags.ConfigPath, settings, issues)
	}

	if len(issues) > 0 {
		return ErrInvalidSettings
	}
	return nil
}

func writeIssues(out io.Writer, path string, settings model.Settings, issues []validationIssue) {
	if len(issues) == 0 {
		_, _ = fmt.Fprintf(out, "%s: ok (%d breaks)\n", path, len(settings.Breaks))
		return
	}
	_, _ = fmt.Fprintf(out, "%s: %d problem(s)\n", path, len(issues))
	for _, issue := range issues {
		_, _ = fmt.Fprintf(out, "  %s: %s\n", issue.Field, issue.Error)
	}
}

func validationIssues(err error) []validationIssue {
	if err == nil {
		return nil
	}
	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []validationIssue{{Field: "settings", Error: err.Error()}}
	}
	issues := make([]validationIssue, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		issues = append(issues, validationIssue{Field: fieldErr.Field, Error: fieldErr.Err.Error()})
	}
	return issues
}

func (cmd *ConfigCmd) path(_ context.Context, c *cli.Command) error {
	_, err := fmt.Fprintln(c.Root().Writer, cmd.flags.ConfigPath)
	return err
}

func (cmd *ConfigCmd) init(_ context.Context, c *cli.Command) error {
	if !cmd.force {
		if _, err := os.Stat(cmd.flags.ConfigPath); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cmd.flags.ConfigPath)
		}
	}
	if err := storage.SaveSettings(cmd.flags.ConfigPath, model.DefaultSettings()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(c.Root().Writer, "wrote %s\n", cmd.flags.ConfigPath)
	return err
}
