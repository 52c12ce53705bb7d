package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/colonyops/fmguard/internal/core/styles"
	"github.com/colonyops/fmguard/internal/core/validate"
	"github.com/colonyops/fmguard/internal/fmguard"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func checkFormat(format string) error {
	if format != formatText && format != formatJSON {
		return fmt.Errorf("unknown format %q (expected text or json)", format)
	}
	return nil
}

// writeReport renders a validation report. Files without issues are not
// listed.
func writeReport(w io.Writer, report fmguard.Report) {
	for _, res := range report.Results {
		if len(res.Issues) == 0 {
			continue
		}

		icon := styles.TextWarningStyle.Render(styles.IconWarn)
		if !res.Passed(report.Strict) {
			icon = styles.TextErrorStyle.Render(styles.IconFail)
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", icon, styles.PathStyle.Render(res.Path))

		for _, issue := range res.Issues {
			writeIssue(w, issue)
		}
		_, _ = fmt.Fprintln(w)
	}

	writeReportSummary(w, report)
}

func writeIssue(w io.Writer, issue validate.Issue) {
	msg := issue.Message
	if issue.Line > 0 {
		msg = styles.LineStyle.Render(fmt.Sprintf("Line %d:", issue.Line)) + " " + msg
	}

	style := styles.TextErrorStyle
	if issue.Severity == validate.SeverityWarning {
		style = styles.TextWarningStyle
	}

	_, _ = fmt.Fprintf(w, "    %s %s %s\n",
		style.Render(string(issue.Severity)),
		msg,
		styles.CodeStyle.Render("["+string(issue.Code)+"]"),
	)
}

func writeReportSummary(w io.Writer, report fmguard.Report) {
	counts := fmt.Sprintf("%s, %s", plural(report.Errors, "error"), plural(report.Warnings, "warning"))

	if report.Passed() {
		_, _ = fmt.Fprintf(w, "%s %s valid (%s)\n",
			styles.TextSuccessStyle.Render(styles.IconPass),
			plural(report.Files, "file"),
			counts,
		)
		return
	}

	_, _ = fmt.Fprintf(w, "%s %d of %s failed (%s)\n",
		styles.TextErrorStyle.Render(styles.IconFail),
		report.Failed,
		plural(report.Files, "file"),
		counts,
	)
}

// writeFixes renders fix results: diff, applied changes and anything left
// for a human.
func writeFixes(w io.Writer, fixes []fmguard.FileFix, showDiff bool) {
	for _, ff := range fixes {
		if !ff.Changed() && ff.Error == "" && len(ff.Unfixable) == 0 {
			continue
		}

		_, _ = fmt.Fprintf(w, "%s %s\n", fixIcon(ff), styles.PathStyle.Render(ff.Path))

		if ff.Error != "" {
			_, _ = fmt.Fprintf(w, "    %s %s\n", styles.TextErrorStyle.Render("error"), ff.Error)
		}

		if showDiff && ff.Diff != "" {
			writeDiff(w, ff.Diff)
		}

		for _, c := range ff.Changes {
			_, _ = fmt.Fprintf(w, "    %s %s\n", styles.CodeStyle.Render("["+string(c.Rule)+"]"), c.String())
		}

		for _, p := range ff.Unfixable {
			_, _ = fmt.Fprintf(w, "    %s %s\n", styles.TextWarningStyle.Render("unfixable"), p.String())
		}

		_, _ = fmt.Fprintln(w)
	}
}

func fixIcon(ff fmguard.FileFix) string {
	switch {
	case ff.Error != "":
		return styles.TextErrorStyle.Render(styles.IconFail)
	case ff.Skipped:
		return styles.TextMutedStyle.Render(styles.IconSkip)
	case ff.Changed():
		return styles.TextSuccessStyle.Render(styles.IconFix)
	default:
		return styles.TextWarningStyle.Render(styles.IconWarn)
	}
}

// writeDiff colours a unified diff line by line.
func writeDiff(w io.Writer, diff string) {
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		var out string
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			out = styles.DiffHeaderStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			out = styles.DiffHunkStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			out = styles.DiffAddStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			out = styles.DiffDelStyle.Render(line)
		default:
			out = line
		}
		_, _ = fmt.Fprintf(w, "    %s\n", out)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
