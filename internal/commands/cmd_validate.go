package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/fmguard/internal/core/logging"
	"github.com/colonyops/fmguard/internal/fmguard"
	"github.com/colonyops/fmguard/internal/printer"
	"github.com/colonyops/fmguard/pkg/iojson"
)

type ValidateCmd struct {
	flags      *Flags
	app        *fmguard.App
	format     string
	strict     bool
	strictYAML bool
}

func NewValidateCmd(flags *Flags, app *fmguard.App) *ValidateCmd {
	return &ValidateCmd{flags: flags, app: app}
}

func (cmd *ValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "validate",
		Usage:     "Validate frontmatter of content files",
		UsageText: "fmguard validate [options] [pattern...]",
		Description: `Checks every content file matching the patterns (default: the configured
patterns below content_dir) for frontmatter syntax errors, missing required
fields and field rule violations. Exits 1 when any file fails.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       formatText,
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "strict",
				Usage:       "treat warnings as failures",
				Destination: &cmd.strict,
			},
			&cli.BoolFlag{
				Name:        "strict-yaml",
				Usage:       "also decode frontmatter as YAML and report mismatches",
				Destination: &cmd.strictYAML,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *ValidateCmd) run(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.loaded(); err != nil {
		return err
	}
	if err := checkFormat(cmd.format); err != nil {
		return err
	}

	ctx = logging.WithCommand(ctx, "validate")
	p := printer.Ctx(ctx)

	paths, err := cmd.app.Discover(c.Args().Slice()...)
	if err != nil {
		if cmd.format == formatJSON {
			_ = iojson.WriteError(p.Writer(), err)
			return cli.Exit("", 1)
		}
		return err
	}

	report := cmd.app.ValidateFiles(ctx, paths, fmguard.ValidateOptions{
		Strict:     cmd.strict,
		StrictYAML: cmd.strictYAML,
	})

	if cmd.format == formatJSON {
		if err := iojson.Write(p.Writer(), report); err != nil {
			return err
		}
	} else {
		if len(paths) == 0 {
			p.Infof("no content files matched")
			return nil
		}
		writeReport(p.Writer(), report)
	}

	if !report.Passed() {
		return cli.Exit("", 1)
	}
	return nil
}
