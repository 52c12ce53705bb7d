package fmguard

import (
	"context"
	"os"

	"github.com/colonyops/fmguard/internal/core/logging"
	"github.com/colonyops/fmguard/internal/core/validate"
)

// ValidateOptions tune a validation run.
type ValidateOptions struct {
	// Strict makes warnings fail a file.
	Strict bool
	// StrictYAML enables the YAML cross-check.
	StrictYAML bool
}

// Report aggregates the results of a validation run.
type Report struct {
	Results  []validate.Result `json:"results"`
	Files    int               `json:"files"`
	Failed   int               `json:"failed"`
	Errors   int               `json:"errors"`
	Warnings int               `json:"warnings"`
	Strict   bool              `json:"strict"`
}

// Passed reports whether every file passed.
func (r Report) Passed() bool {
	return r.Failed == 0
}

// Failures returns the results of the files that did not pass.
func (r Report) Failures() []validate.Result {
	var out []validate.Result
	for _, res := range r.Results {
		if !res.Passed(r.Strict) {
			out = append(out, res)
		}
	}
	return out
}

// ValidateFiles checks every path (relative to the project root). Unreadable
// files are reported as read_error results and do not stop the run.
func (a *App) ValidateFiles(ctx context.Context, paths []string, opts ValidateOptions) Report {
	return a.validate(ctx, paths, opts, func(p string) ([]byte, error) {
		return os.ReadFile(a.Scanner.Abs(p))
	})
}

// ValidateStaged checks the index version of every path, which is what a
// commit records even when the working tree has further edits.
func (a *App) ValidateStaged(ctx context.Context, paths []string, opts ValidateOptions) Report {
	return a.validate(ctx, paths, opts, func(p string) ([]byte, error) {
		return a.Git.StagedContent(ctx, a.Config.Root, p)
	})
}

func (a *App) validate(ctx context.Context, paths []string, opts ValidateOptions, read func(string) ([]byte, error)) Report {
	checker := a.Checker(opts.StrictYAML)
	report := Report{
		Results: make([]validate.Result, 0, len(paths)),
		Files:   len(paths),
		Strict:  opts.Strict,
	}

	for _, p := range paths {
		fctx := logging.WithFile(ctx, p)

		var res validate.Result
		data, err := read(p)
		if err != nil {
			a.log.Warn().Ctx(fctx).Err(err).Msg("read failed")
			res = validate.ReadError(p, err)
		} else {
			res = checker.Check(p, data)
		}

		report.Errors += len(res.Errors())
		report.Warnings += len(res.Warnings())
		if !res.Passed(opts.Strict) {
			report.Failed++
			a.log.Debug().Ctx(fctx).Int("issues", len(res.Issues)).Msg("file failed")
		}
		report.Results = append(report.Results, res)
	}

	a.log.Info().Ctx(ctx).
		Int("files", report.Files).
		Int("failed", report.Failed).
		Msg("validation finished")

	return report
}
