package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/fmguard/internal/core/doctor"
	"github.com/colonyops/fmguard/internal/core/styles"
	"github.com/colonyops/fmguard/internal/fmguard"
	"github.com/colonyops/fmguard/internal/printer"
	"github.com/colonyops/fmguard/pkg/iojson"
)

type DoctorCmd struct {
	flags  *Flags
	app    *fmguard.App
	format string
}

func NewDoctorCmd(flags *Flags, app *fmguard.App) *DoctorCmd {
	return &DoctorCmd{flags: flags, app: app}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your fmguard setup",
		UsageText:   "fmguard doctor [options]",
		Description: "Runs diagnostic checks on configuration, git, the content directory and component schemas.",
		Flags: []cli.Flag{
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

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	if err := checkFormat(cmd.format); err != nil {
		return err
	}

	var results []doctor.Result
	switch {
	case cmd.flags.Config == nil:
		results = []doctor.Result{doctor.LoadFailure(cmd.flags.ResolvedConfigPath(), cmd.flags.LoadErr)}
	case cmd.flags.LoadErr != nil:
		results = fmguard.DoctorConfig(ctx, cmd.flags.Config, cmd.flags.ResolvedConfigPath())
	default:
		results = cmd.app.Doctor(ctx)
	}

	if cmd.format == formatJSON {
		return cmd.outputJSON(ctx, results)
	}

	return cmd.outputText(ctx, results)
}

func (cmd *DoctorCmd) outputJSON(ctx context.Context, results []doctor.Result) error {
	passed, warned, failed := doctor.Summary(results)

	out := struct {
		Healthy bool            `json:"healthy"`
		Summary summaryJSON     `json:"summary"`
		Checks  []doctor.Result `json:"checks"`
	}{
		Healthy: failed == 0,
		Summary: summaryJSON{Passed: passed, Warned: warned, Failed: failed},
		Checks:  results,
	}

	if err := iojson.Write(printer.Ctx(ctx).Writer(), out); err != nil {
		return err
	}
	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

type summaryJSON struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

func (cmd *DoctorCmd) outputText(ctx context.Context, results []doctor.Result) error {
	w := printer.Ctx(ctx).Writer()
	divider := styles.TextMutedStyle.Render(strings.Repeat("─", 40))

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, styles.TextPrimaryBoldStyle.Render("fmguard doctor"))
	_, _ = fmt.Fprintln(w, divider)
	_, _ = fmt.Fprintln(w)

	for _, result := range results {
		_, _ = fmt.Fprintln(w, styles.TextForegroundBoldStyle.Render(result.Name))

		for _, item := range result.Items {
			var detail string
			if item.Detail != "" {
				detail = " " + styles.TextMutedStyle.Render(item.Detail)
			}

			var icon string
			switch item.Status {
			case doctor.StatusPass:
				icon = styles.TextSuccessStyle.Render(styles.IconPass)
			case doctor.StatusWarn:
				icon = styles.TextWarningStyle.Render(styles.IconWarn)
			case doctor.StatusFail:
				icon = styles.TextErrorStyle.Render(styles.IconFail)
			}

			_, _ = fmt.Fprintf(w, "  %s %s%s\n", icon, item.Label, detail)
		}

		_, _ = fmt.Fprintln(w)
	}

	passed, warned, failed := doctor.Summary(results)
	summary := fmt.Sprintf("%s  %s  %s",
		styles.TextSuccessStyle.Render(fmt.Sprintf("%d passed", passed)),
		styles.TextWarningStyle.Render(fmt.Sprintf("%d warnings", warned)),
		styles.TextErrorStyle.Render(fmt.Sprintf("%d failed", failed)),
	)
	_, _ = fmt.Fprintln(w, summary)

	if fixable := doctor.CountFixable(results); fixable > 0 {
		_, _ = fmt.Fprintln(w)
		hint := styles.TextMutedStyle.Render(fmt.Sprintf("Run 'fmguard fix' to fix %s", plural(fixable, "file")))
		_, _ = fmt.Fprintln(w, hint)
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}

	return nil
}
