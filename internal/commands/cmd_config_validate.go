package commands

import (
	"context"
	"errors"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/fmguard/internal/core/config"
	"github.com/colonyops/fmguard/internal/printer"
	"github.com/colonyops/fmguard/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// configError is one failed deep-validation field.
type configError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "fmguard config validate [options]",
				Description: "Validates the configuration file, checking the content directory, git executable and component JSON Schema files.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       formatText,
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	if err := checkFormat(cmd.format); err != nil {
		return err
	}
	p := printer.Ctx(ctx)

	var (
		errs     []configError
		warnings []config.ValidationWarning
	)
	if cmd.flags.Config == nil {
		errs = collectConfigErrors(cmd.flags.LoadErr)
	} else {
		errs = collectConfigErrors(cmd.flags.Config.ValidateDeep(cmd.flags.ResolvedConfigPath()))
		warnings = cmd.flags.Config.Warnings()
	}

	if cmd.format == formatJSON {
		out := struct {
			Valid    bool                       `json:"valid"`
			Errors   []configError              `json:"errors,omitempty"`
			Warnings []config.ValidationWarning `json:"warnings,omitempty"`
		}{
			Valid:    len(errs) == 0,
			Errors:   errs,
			Warnings: warnings,
		}
		if err := iojson.Write(p.Writer(), out); err != nil {
			return err
		}
		if len(errs) > 0 {
			return cli.Exit("", 1)
		}
		return nil
	}

	return cmd.outputText(p, errs, warnings)
}

func collectConfigErrors(err error) []configError {
	if err == nil {
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []configError{{Field: "config", Message: err.Error()}}
	}

	out := make([]configError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, configError{Field: fe.Field, Message: fe.Err.Error()})
	}
	return out
}

func (cmd *ConfigValidateCmd) outputText(p *printer.Printer, errs []configError, warnings []config.ValidationWarning) error {
	for _, warn := range warnings {
		p.Warnf("%s: %s", warn.Category, warn.Message)
		if warn.Item != "" {
			p.Printf("  Item: %s", warn.Item)
		}
	}

	for _, err := range errs {
		p.Errorf("%s: %s", err.Field, err.Message)
	}

	if len(warnings) > 0 || len(errs) > 0 {
		p.Printf("")
	}
	if len(errs) == 0 {
		p.Successf("Configuration is valid")
		return nil
	}

	p.Errorf("%s found", plural(len(errs), "error"))
	return cli.Exit("", 1)
}
