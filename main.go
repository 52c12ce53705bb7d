package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/fmguard/internal/commands"
	"github.com/colonyops/fmguard/internal/core/logging"
	"github.com/colonyops/fmguard/internal/core/styles"
	"github.com/colonyops/fmguard/internal/fmguard"
	"github.com/colonyops/fmguard/internal/printer"
	"github.com/colonyops/fmguard/pkg/executil"
	"github.com/colonyops/fmguard/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	// FMGUARD_* variables may live in a .env next to the project
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	var (
		logCloser func()
		fmApp     = &fmguard.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "fmguard",
		Usage:     "Validate and fix content frontmatter",
		UsageText: "fmguard [global options] command [command options]",
		Description: `fmguard checks the frontmatter blocks of the markdown files under the
content directory against component schemas such as ProgramPage.

Run 'fmguard validate' to check every content file, 'fmguard fix' to
normalize them, and 'fmguard pre-commit' from a git hook.`,
		Version:               build(),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("FMGUARD_LOG_LEVEL"),
				Value:       "warn",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "write JSON logs to this file instead of stderr",
				Sources:     cli.EnvVars("FMGUARD_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file, relative to --root",
				Sources:     cli.EnvVars("FMGUARD_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "root",
				Usage:       "project root directory",
				Sources:     cli.EnvVars("FMGUARD_ROOT"),
				Value:       ".",
				Destination: &flags.Root,
			},
			&cli.BoolFlag{
				Name:        "no-color",
				Usage:       "disable coloured output",
				Sources:     cli.EnvVars("NO_COLOR"),
				Destination: &flags.NoColor,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			flags.Load(fmApp, &executil.RealExecutor{})

			theme := styles.DefaultTheme
			if flags.Config != nil {
				theme = flags.Config.Theme
			}

			// Apply configured theme (validation ensures name is valid)
			if flags.NoColor || !logutils.IsTerminal(os.Stdout) {
				styles.Disable()
			} else {
				styles.UseTheme(theme)
			}

			return printer.NewContext(ctx, printer.New(c.Root().Writer)), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewValidateCmd(flags, fmApp).Register(app)
	app = commands.NewFixCmd(flags, fmApp).Register(app)
	app = commands.NewPreCommitCmd(flags, fmApp).Register(app)
	app = commands.NewSchemaCmd(flags, fmApp).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)
	app = commands.NewDoctorCmd(flags, fmApp).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
