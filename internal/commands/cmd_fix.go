package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/fmguard/internal/core/logging"
	"github.com/colonyops/fmguard/internal/fmguard"
	"github.com/colonyops/fmguard/internal/printer"
	"github.com/colonyops/fmguard/pkg/iojson"
	"github.com/colonyops/fmguard/pkg/logutils"
)

type FixCmd struct {
	flags       *Flags
	app         *fmguard.App
	format      string
	dryRun      bool
	interactive bool
}

func NewFixCmd(flags *Flags, app *fmguard.App) *FixCmd {
	return &FixCmd{flags: flags, app: app}
}

func (cmd *FixCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "fix",
		Usage:     "Rewrite frontmatter into canonical form",
		UsageText: "fmguard fix [options] [pattern...]",
		Description: `Applies the safe mechanical fixes (line endings, delimiters, spacing,
boolean case, Google Drive links) in place and prints a diff per file.
Lines that cannot be parsed are reported and left untouched.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "dry-run",
				Aliases:     []string{"n"},
				Usage:       "show the changes without writing files",
				Destination: &cmd.dryRun,
			},
			&cli.BoolFlag{
				Name:        "interactive",
				Aliases:     []string{"i"},
				Usage:       "ask before writing each file",
				Destination: &cmd.interactive,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       formatText,
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *FixCmd) run(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.loaded(); err != nil {
		return err
	}
	if err := checkFormat(cmd.format); err != nil {
		return err
	}
	if cmd.interactive && cmd.format == formatJSON {
		return fmt.Errorf("--interactive cannot be combined with --format json")
	}
	if cmd.interactive && !logutils.IsTerminal(os.Stdin) {
		return fmt.Errorf("--interactive requires a terminal")
	}

	ctx = logging.WithCommand(ctx, "fix")
	p := printer.Ctx(ctx)

	paths, err := cmd.app.Discover(c.Args().Slice()...)
	if err != nil {
		if cmd.format == formatJSON {
			_ = iojson.WriteError(p.Writer(), err)
			return cli.Exit("", 1)
		}
		return err
	}

	opts := fmguard.FixOptions{DryRun: cmd.dryRun}
	if cmd.interactive {
		opts.Confirm = func(ff fmguard.FileFix) (bool, error) {
			writeDiff(p.Writer(), ff.Diff)
			return confirmFix(ff)
		}
	}

	fixes, err := cmd.app.FixFiles(ctx, paths, opts)
	if errors.Is(err, huh.ErrUserAborted) {
		p.Infof("aborted")
		return nil
	}
	if err != nil {
		return err
	}

	if cmd.format == formatJSON {
		return iojson.Write(p.Writer(), fixes)
	}

	writeFixes(p.Writer(), fixes, !cmd.interactive)

	changed, failed := 0, 0
	for _, ff := range fixes {
		if ff.Changed() && !ff.Skipped {
			changed++
		}
		if ff.Error != "" {
			failed++
		}
	}

	switch {
	case changed == 0:
		p.Successf("nothing to fix in %s", plural(len(fixes), "file"))
	case cmd.dryRun:
		p.Infof("would fix %s (dry run)", plural(changed, "file"))
	default:
		p.Successf("fixed %s", plural(changed, "file"))
	}

	if failed > 0 {
		p.Errorf("%s could not be fixed", plural(failed, "file"))
		return cli.Exit("", 1)
	}
	return nil
}

func confirmFix(ff fmguard.FileFix) (bool, error) {
	apply := true
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Apply %s to %s?", plural(len(ff.Changes), "change"), ff.Path)).
		Affirmative("Apply").
		Negative("Skip").
		Value(&apply).
		Run()
	return apply, err
}
