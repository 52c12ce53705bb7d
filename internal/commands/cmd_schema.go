package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/fmguard/internal/core/schema"
	"github.com/colonyops/fmguard/internal/core/styles"
	"github.com/colonyops/fmguard/internal/fmguard"
	"github.com/colonyops/fmguard/internal/printer"
	"github.com/colonyops/fmguard/pkg/iojson"
)

type SchemaCmd struct {
	flags  *Flags
	app    *fmguard.App
	format string
}

func NewSchemaCmd(flags *Flags, app *fmguard.App) *SchemaCmd {
	return &SchemaCmd{flags: flags, app: app}
}

func (cmd *SchemaCmd) Register(app *cli.Command) *cli.Command {
	formatFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:        "format",
			Usage:       "output format (text, json)",
			Value:       formatText,
			Destination: &cmd.format,
		}
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "schema",
		Usage: "Inspect component schemas",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List known components",
				UsageText: "fmguard schema list [options]",
				Flags:     []cli.Flag{formatFlag()},
				Action:    cmd.runList,
			},
			{
				Name:          "show",
				Usage:         "Show the schema of one component",
				UsageText:     "fmguard schema show [options] <component>",
				Flags:         []cli.Flag{formatFlag()},
				ShellComplete: ComponentNameCompleter(cmd.flags, cmd.app),
				Action:        cmd.runShow,
			},
		},
	})
	return app
}

func (cmd *SchemaCmd) runList(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.loaded(); err != nil {
		return err
	}
	if err := checkFormat(cmd.format); err != nil {
		return err
	}
	p := printer.Ctx(ctx)

	names := cmd.app.Registry.Names()
	if cmd.format == formatJSON {
		comps := make([]*schema.Component, 0, len(names))
		for _, name := range names {
			comp, _ := cmd.app.Registry.Lookup(name)
			comps = append(comps, comp)
		}
		return iojson.Write(p.Writer(), comps)
	}

	for _, name := range names {
		comp, _ := cmd.app.Registry.Lookup(name)
		p.Printf("%s %s", styles.FieldStyle.Render(name), styles.TextMutedStyle.Render(fmt.Sprintf(
			"(%d required, %d optional, body %s)", len(comp.Required), len(comp.Optional), comp.BodyPolicy(),
		)))
	}
	return nil
}

func (cmd *SchemaCmd) runShow(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.loaded(); err != nil {
		return err
	}
	if err := checkFormat(cmd.format); err != nil {
		return err
	}
	p := printer.Ctx(ctx)

	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one component name")
	}

	name := c.Args().First()
	comp, ok := cmd.app.Registry.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown component %q (known: %s)", name, strings.Join(cmd.app.Registry.Names(), ", "))
	}

	if cmd.format == formatJSON {
		return iojson.Write(p.Writer(), comp)
	}

	out, err := yaml.Marshal(map[string]*schema.Component{name: comp})
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	_, _ = fmt.Fprint(p.Writer(), string(out))
	return nil
}
