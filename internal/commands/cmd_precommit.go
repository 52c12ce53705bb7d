package commands

import (
	"context"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/fmguard/internal/core/logging"
	"github.com/colonyops/fmguard/internal/fmguard"
	"github.com/colonyops/fmguard/internal/printer"
)

type PreCommitCmd struct {
	flags      *Flags
	app        *fmguard.App
	fix        bool
	strict     bool
	strictYAML bool
}

func NewPreCommitCmd(flags *Flags, app *fmguard.App) *PreCommitCmd {
	return &PreCommitCmd{flags: flags, app: app}
}

func (cmd *PreCommitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "pre-commit",
		Usage:     "Validate staged content files (git hook)",
		UsageText: "fmguard pre-commit [options]",
		Description: `Validates the staged version of each file below content_dir, so edits
that are not staged do not affect the result. Exits 1, blocking the commit,
when any staged file fails.

With --fix, staged files are fixed in the working tree and re-staged before
validation. Files that also have unstaged changes are left alone, since
re-staging them would commit those changes.

Install as .git/hooks/pre-commit:

    #!/bin/sh
    exec fmguard pre-commit`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "fix",
				Usage:       "fix and re-stage staged files before validating",
				Destination: &cmd.fix,
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

func (cmd *PreCommitCmd) run(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.loaded(); err != nil {
		return err
	}
	ctx = logging.WithCommand(ctx, "pre-commit")
	p := printer.Ctx(ctx)

	files, err := cmd.app.StagedContentFiles(ctx)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		p.Infof("no staged content files")
		return nil
	}

	if cmd.fix {
		partial, err := cmd.app.PartiallyStaged(ctx, files)
		if err != nil {
			return err
		}
		for _, f := range partial {
			p.Warnf("not fixing %s: it has unstaged changes (stage or stash them first)", f)
		}

		fixable := slices.DeleteFunc(slices.Clone(files), func(f string) bool {
			return slices.Contains(partial, f)
		})

		fixes, err := cmd.app.FixFiles(ctx, fixable, fmguard.FixOptions{})
		if err != nil {
			return err
		}

		written := fmguard.Written(fixes)
		if len(written) > 0 {
			if err := cmd.app.Restage(ctx, written); err != nil {
				return err
			}
			writeFixes(p.Writer(), fixes, false)
			p.Successf("fixed and re-staged %s", plural(len(written), "file"))
		}
	}

	report := cmd.app.ValidateStaged(ctx, files, fmguard.ValidateOptions{
		Strict:     cmd.strict,
		StrictYAML: cmd.strictYAML,
	})
	writeReport(p.Writer(), report)

	if !report.Passed() {
		p.Errorf("commit blocked: fix the errors above or run 'fmguard fix'")
		return cli.Exit("", 1)
	}
	return nil
}
