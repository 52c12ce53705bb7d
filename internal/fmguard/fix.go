package fmguard

import (
	"context"
	"fmt"
	"os"

	"github.com/colonyops/fmguard/internal/core/fix"
	"github.com/colonyops/fmguard/internal/core/frontmatter"
	"github.com/colonyops/fmguard/internal/core/logging"
)

// FixOptions control a fix run.
type FixOptions struct {
	// DryRun computes changes and diffs without writing.
	DryRun bool
	// Confirm, when set, is asked before each write. Returning false skips
	// the file.
	Confirm func(FileFix) (bool, error)
}

// FileFix is the outcome of fixing one file.
type FileFix struct {
	Path      string                `json:"path"`
	Changes   []fix.Change          `json:"changes"`
	Unfixable []frontmatter.Problem `json:"unfixable,omitempty"`
	Diff      string                `json:"diff,omitempty"`
	Error     string                `json:"error,omitempty"`
	Written   bool                  `json:"written"`
	Skipped   bool                  `json:"skipped,omitempty"`
}

// Changed reports whether the fixer produced new content.
func (f FileFix) Changed() bool {
	return len(f.Changes) > 0
}

// FixFiles applies the fixer to every path (relative to the project root).
// Read failures and missing delimiters are recorded on the FileFix and the run
// continues; write failures and Confirm errors abort it.
func (a *App) FixFiles(ctx context.Context, paths []string, opts FixOptions) ([]FileFix, error) {
	results := make([]FileFix, 0, len(paths))

	for _, p := range paths {
		fctx := logging.WithFile(ctx, p)
		ff := FileFix{Path: p}
		abs := a.Scanner.Abs(p)

		data, err := os.ReadFile(abs)
		if err != nil {
			ff.Error = fmt.Sprintf("read file: %v", err)
			a.log.Warn().Ctx(fctx).Err(err).Msg("read failed")
			results = append(results, ff)
			continue
		}

		out := a.Fixer.Fix(data)
		ff.Changes = out.Changes
		ff.Unfixable = out.Unfixable
		if out.Err != nil {
			ff.Error = out.Err.Error()
			results = append(results, ff)
			continue
		}

		if !out.Changed() {
			results = append(results, ff)
			continue
		}

		ff.Diff, err = fix.Diff(p, data, out.Content)
		if err != nil {
			return results, err
		}

		if opts.DryRun {
			results = append(results, ff)
			continue
		}

		if opts.Confirm != nil {
			ok, err := opts.Confirm(ff)
			if err != nil {
				return results, fmt.Errorf("confirm %s: %w", p, err)
			}
			if !ok {
				ff.Skipped = true
				results = append(results, ff)
				continue
			}
		}

		if err := writeKeepMode(abs, out.Content); err != nil {
			return results, fmt.Errorf("write %s: %w", p, err)
		}
		ff.Written = true
		a.log.Info().Ctx(fctx).Int("changes", len(ff.Changes)).Msg("fixed")

		results = append(results, ff)
	}

	return results, nil
}

// Written returns the paths FixFiles wrote.
func Written(fixes []FileFix) []string {
	var out []string
	for _, f := range fixes {
		if f.Written {
			out = append(out, f.Path)
		}
	}
	return out
}

func writeKeepMode(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, info.Mode().Perm())
}
