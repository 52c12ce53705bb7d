package commands

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/fmguard/internal/core/config"
	"github.com/colonyops/fmguard/internal/fmguard"
)

// ComponentNameCompleter returns a ShellCompleteFunc that suggests component
// schema names as positional completions.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func ComponentNameCompleter(flags *Flags, app *fmguard.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		// Delegate to default flag completion when typing a flag
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		w := cmd.Root().Writer
		for _, name := range componentNames(flags, app) {
			_, _ = fmt.Fprintln(w, name)
		}
	}
}

// componentNames prefers the built registry. The root Before hook does not
// run while completing, so the config is read directly in that case.
func componentNames(flags *Flags, app *fmguard.App) []string {
	if app != nil && app.Registry != nil {
		return app.Registry.Names()
	}

	cfg, err := config.Load(flags.ConfigPath, flags.Root)
	if err != nil {
		return nil
	}
	return slices.Sorted(maps.Keys(cfg.Components))
}
