package fmguard

import (
	"context"

	"github.com/colonyops/fmguard/internal/core/config"
	"github.com/colonyops/fmguard/internal/core/doctor"
)

// Doctor runs the environment checks.
func (a *App) Doctor(ctx context.Context) []doctor.Result {
	checks := []doctor.Check{
		doctor.NewConfigCheck(a.Config, a.ConfigPath),
		doctor.NewToolsCheck(a.Config.GitPath, a.Git, a.Config.Root),
		doctor.NewContentCheck(a.Scanner, a.Fixer),
		doctor.NewComponentsCheck(a.Config),
	}
	return doctor.RunAll(ctx, checks)
}

// DoctorConfig runs the checks that need only a loaded config. It serves
// doctor when the App could not be built, for example because a schema_file
// does not compile.
func DoctorConfig(ctx context.Context, cfg *config.Config, configPath string) []doctor.Result {
	return doctor.RunAll(ctx, []doctor.Check{
		doctor.NewConfigCheck(cfg, configPath),
		doctor.NewComponentsCheck(cfg),
	})
}
