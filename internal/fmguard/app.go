// Package fmguard wires configuration, schemas, the checker, the fixer and git
// into the operations the CLI exposes.
package fmguard

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/fmguard/internal/core/config"
	"github.com/colonyops/fmguard/internal/core/content"
	"github.com/colonyops/fmguard/internal/core/fix"
	"github.com/colonyops/fmguard/internal/core/git"
	"github.com/colonyops/fmguard/internal/core/schema"
	"github.com/colonyops/fmguard/internal/core/validate"
)

// App is the central entry point for all fmguard operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Config     *config.Config
	ConfigPath string
	Registry   *schema.Registry
	Scanner    *content.Scanner
	Fixer      *fix.Fixer
	Git        git.Git

	log zerolog.Logger
}

// NewApp constructs an App from a loaded config. It compiles any JSON Schema
// files the components reference.
func NewApp(cfg *config.Config, configPath string, g git.Git, log zerolog.Logger) (*App, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}

	return &App{
		Config:     cfg,
		ConfigPath: configPath,
		Registry:   reg,
		Scanner:    content.NewScanner(cfg.Root, cfg.ContentDir, cfg.Patterns, cfg.Exclude),
		Fixer: fix.New(fix.Options{
			RewriteDrive:     cfg.Drive.RewriteEnabled(),
			MinDriveIDLength: cfg.Drive.MinIDLength,
		}),
		Git: g,
		log: log,
	}, nil
}

// Checker returns a checker configured from the config file. strictYAML
// forces the YAML cross-check on regardless of config.
func (a *App) Checker(strictYAML bool) *validate.Checker {
	return validate.NewChecker(a.Registry, validate.Options{
		Languages:        a.Config.Languages,
		StrictComponents: a.Config.StrictComponents,
		StrictYAML:       a.Config.StrictYAML || strictYAML,
		ForbidBodyH1:     a.Config.ForbidBodyH1,
		MinDriveIDLength: a.Config.Drive.MinIDLength,
	}, a.log.With().Str("cmp", "validate").Logger())
}

// Discover resolves patterns (or the configured ones) to content files.
func (a *App) Discover(patterns ...string) ([]string, error) {
	return a.Scanner.Discover(patterns...)
}
