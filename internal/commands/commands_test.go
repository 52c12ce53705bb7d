package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/fmguard/internal/core/config"
	"github.com/colonyops/fmguard/internal/core/styles"
	"github.com/colonyops/fmguard/internal/fmguard"
	"github.com/colonyops/fmguard/internal/printer"
	"github.com/colonyops/fmguard/pkg/executil"
)

const validPage = `---
language: es
title: Noches de Radio
slug: noches-de-radio
id: 12
component: ProgramPage
public: true
program_order: 3
schedule: "Viernes 22:00"
talent: Ana y Luis
social: ["https://instagram.com/noches"]
logo: /images/noches.png
---
`

// fixablePage differs from validPage only in the boolean case.
var fixablePage = strings.Replace(validPage, "public: true", "public: TRUE", 1)

type harness struct {
	root  string
	rec   *executil.RecordingExecutor
	flags *Flags
	app   *fmguard.App
	out   bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := newHarnessWithConfig(t, "")
	require.NoError(t, h.flags.LoadErr)
	return h
}

// newHarnessWithConfig loads the app the way the root command does, so a
// broken config leaves LoadErr set instead of failing the test.
func newHarnessWithConfig(t *testing.T, cfgYAML string) *harness {
	t.Helper()
	styles.Disable()

	h := &harness{
		root: t.TempDir(),
		rec:  &executil.RecordingExecutor{},
		app:  &fmguard.App{},
	}
	require.NoError(t, os.MkdirAll(filepath.Join(h.root, "src", "content"), 0o755))
	if cfgYAML != "" {
		h.write(t, config.DefaultFileName, cfgYAML)
	}

	h.flags = &Flags{ConfigPath: config.DefaultFileName, Root: h.root}
	h.flags.Load(h.app, h.rec)
	return h
}

func (h *harness) write(t *testing.T, rel, data string) {
	t.Helper()
	full := filepath.Join(h.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(data), 0o644))
}

func (h *harness) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(h.root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func (h *harness) run(args ...string) error {
	h.out.Reset()

	app := &cli.Command{
		Name:                  "fmguard",
		Writer:                &h.out,
		ErrWriter:             &h.out,
		EnableShellCompletion: true,
		ExitErrHandler:        func(context.Context, *cli.Command, error) {},
	}
	app = NewValidateCmd(h.flags, h.app).Register(app)
	app = NewFixCmd(h.flags, h.app).Register(app)
	app = NewPreCommitCmd(h.flags, h.app).Register(app)
	app = NewSchemaCmd(h.flags, h.app).Register(app)
	app = NewConfigValidateCmd(h.flags).Register(app)
	app = NewDoctorCmd(h.flags, h.app).Register(app)

	ctx := printer.NewContext(context.Background(), printer.New(&h.out))
	return app.Run(ctx, append([]string{"fmguard"}, args...))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return -1
}

func TestValidateCmd(t *testing.T) {
	t.Run("all valid", func(t *testing.T) {
		h := newHarness(t)
		h.write(t, "src/content/good.md", validPage)

		err := h.run("validate")
		require.NoError(t, err)
		assert.Contains(t, h.out.String(), "1 file valid")
	})

	t.Run("failure exits 1", func(t *testing.T) {
		h := newHarness(t)
		h.write(t, "src/content/good.md", validPage)
		h.write(t, "src/content/bad.md", "---\ntitle: x\ncomponent: ProgramPage\n---\n")

		err := h.run("validate")
		assert.Equal(t, 1, exitCode(err))

		out := h.out.String()
		assert.Contains(t, out, "src/content/bad.md")
		assert.Contains(t, out, "[missing_required_field]")
		assert.Contains(t, out, "1 of 2 files failed")
		assert.NotContains(t, out, "src/content/good.md", "passing files are not listed")
	})

	t.Run("pattern argument", func(t *testing.T) {
		h := newHarness(t)
		h.write(t, "src/content/es/good.md", validPage)
		h.write(t, "src/content/en/bad.md", "---\ntitle: x\n---\n")

		require.NoError(t, h.run("validate", "es/**/*.md"))
		assert.Contains(t, h.out.String(), "1 file valid")
	})

	t.Run("no matches", func(t *testing.T) {
		h := newHarness(t)

		require.NoError(t, h.run("validate"))
		assert.Contains(t, h.out.String(), "no content files matched")
	})

	t.Run("json", func(t *testing.T) {
		h := newHarness(t)
		h.write(t, "src/content/bad.md", "---\ntitle: x\ncomponent: ProgramPage\n---\n")

		err := h.run("validate", "--format", "json")
		assert.Equal(t, 1, exitCode(err))

		var report fmguard.Report
		require.NoError(t, json.Unmarshal(h.out.Bytes(), &report))
		assert.Equal(t, 1, report.Files)
		assert.Equal(t, 1, report.Failed)
		require.Len(t, report.Results, 1)
		assert.Equal(t, "src/content/bad.md", report.Results[0].Path)
	})

	t.Run("json discovery error", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, os.RemoveAll(filepath.Join(h.root, "src", "content")))

		err := h.run("validate", "--format", "json")
		assert.Equal(t, 1, exitCode(err))

		var out map[string]any
		require.NoError(t, json.Unmarshal(h.out.Bytes(), &out))
		assert.Contains(t, out["error"], "content dir")
	})

	t.Run("unknown format", func(t *testing.T) {
		h := newHarness(t)

		err := h.run("validate", "--format", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown format "xml"`)
	})
}

func TestFixCmd(t *testing.T) {
	t.Run("writes fixes", func(t *testing.T) {
		h := newHarness(t)
		h.write(t, "src/content/fixme.md", fixablePage)

		require.NoError(t, h.run("fix"))
		assert.Equal(t, validPage, h.read(t, "src/content/fixme.md"))

		out := h.out.String()
		assert.Contains(t, out, "+public: true")
		assert.Contains(t, out, "[boolean_case]")
		assert.Contains(t, out, "fixed 1 file")
	})

	t.Run("dry run", func(t *testing.T) {
		h := newHarness(t)
		h.write(t, "src/content/fixme.md", fixablePage)

		require.NoError(t, h.run("fix", "--dry-run"))
		assert.Equal(t, fixablePage, h.read(t, "src/content/fixme.md"))
		assert.Contains(t, h.out.String(), "would fix 1 file")
	})

	t.Run("nothing to fix", func(t *testing.T) {
		h := newHarness(t)
		h.write(t, "src/content/good.md", validPage)

		require.NoError(t, h.run("fix"))
		assert.Contains(t, h.out.String(), "nothing to fix in 1 file")
	})

	t.Run("missing delimiter exits 1", func(t *testing.T) {
		h := newHarness(t)
		h.write(t, "src/content/plain.md", "# no frontmatter\n")

		err := h.run("fix")
		assert.Equal(t, 1, exitCode(err))
		assert.Contains(t, h.out.String(), "1 file could not be fixed")
		assert.Equal(t, "# no frontmatter\n", h.read(t, "src/content/plain.md"))
	})

	t.Run("json", func(t *testing.T) {
		h := newHarness(t)
		h.write(t, "src/content/fixme.md", fixablePage)

		require.NoError(t, h.run("fix", "--dry-run", "--format", "json"))

		var fixes []fmguard.FileFix
		require.NoError(t, json.Unmarshal(h.out.Bytes(), &fixes))
		require.Len(t, fixes, 1)
		assert.False(t, fixes[0].Written)
		require.Len(t, fixes[0].Changes, 1)
		assert.Equal(t, 7, fixes[0].Changes[0].Line)
	})

	t.Run("interactive rejects json", func(t *testing.T) {
		h := newHarness(t)

		err := h.run("fix", "--interactive", "--format", "json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--interactive cannot be combined")
	})
}

func TestPreCommitCmd(t *testing.T) {
	// stage fakes an index holding files, each with the staged content blob
	stage := func(h *harness, blob string, files ...string) {
		h.rec.Outputs = map[string][]byte{
			"git rev-parse": []byte(h.root + "\n"),
			"git diff":      []byte(strings.Join(files, "\x00") + "\x00"),
			"git show":      []byte(blob),
		}
	}

	addCommands := func(h *harness) [][]string {
		var out [][]string
		for _, c := range h.rec.Commands {
			if len(c.Args) > 0 && c.Args[0] == "add" {
				out = append(out, c.Args)
			}
		}
		return out
	}

	t.Run("no staged content", func(t *testing.T) {
		h := newHarness(t)
		stage(h, "", "README.md")

		require.NoError(t, h.run("pre-commit"))
		assert.Contains(t, h.out.String(), "no staged content files")
	})

	t.Run("blocks invalid staged file", func(t *testing.T) {
		h := newHarness(t)
		h.write(t, "src/content/unstaged.md", "---\ntitle: x\n---\n")
		stage(h, "---\ntitle: x\ncomponent: ProgramPage\n---\n", "src/content/bad.md")

		err := h.run("pre-commit")
		assert.Equal(t, 1, exitCode(err))

		out := h.out.String()
		assert.Contains(t, out, "src/content/bad.md")
		assert.Contains(t, out, "commit blocked")
		assert.NotContains(t, out, "unstaged.md")
	})

	t.Run("checks the index not the working tree", func(t *testing.T) {
		h := newHarness(t)
		h.write(t, "src/content/show.md", "---\ntitle: half edited\n")
		stage(h, validPage, "src/content/show.md")

		require.NoError(t, h.run("pre-commit"))
		assert.Contains(t, h.out.String(), "1 file valid")
	})

	t.Run("non-ascii file name", func(t *testing.T) {
		h := newHarness(t)
		stage(h, "---\ntitle: x\n---\n", "src/content/programa-niño.md")

		err := h.run("pre-commit")
		assert.Equal(t, 1, exitCode(err))
		assert.Contains(t, h.out.String(), "src/content/programa-niño.md")
	})

	t.Run("fix restages", func(t *testing.T) {
		h := newHarness(t)
		h.write(t, "src/content/fixme.md", fixablePage)
		// the index as it looks after the re-stage
		stage(h, validPage, "src/content/fixme.md")

		require.NoError(t, h.run("pre-commit", "--fix"))
		assert.Equal(t, validPage, h.read(t, "src/content/fixme.md"))
		assert.Contains(t, h.out.String(), "fixed and re-staged 1 file")

		require.Equal(t, [][]string{{"add", "--", "src/content/fixme.md"}}, addCommands(h))
	})

	t.Run("fix skips partially staged files", func(t *testing.T) {
		h := newHarness(t)
		h.write(t, "src/content/fixme.md", fixablePage)
		stage(h, fixablePage, "src/content/fixme.md")
		h.rec.Outputs["git diff-files"] = []byte("src/content/fixme.md\x00")

		err := h.run("pre-commit", "--fix")
		assert.Equal(t, 1, exitCode(err))
		assert.Contains(t, h.out.String(), "not fixing src/content/fixme.md: it has unstaged changes")
		assert.Equal(t, fixablePage, h.read(t, "src/content/fixme.md"))
		assert.Empty(t, addCommands(h))
	})

	t.Run("not a repository", func(t *testing.T) {
		h := newHarness(t)
		h.rec.Errors = map[string]error{"git rev-parse": errors.New("fatal: not a git repository")}

		err := h.run("pre-commit")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a git repository")
	})
}

func TestSchemaCmd(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		h := newHarness(t)

		require.NoError(t, h.run("schema", "list"))
		assert.Contains(t, h.out.String(), "ProgramPage (11 required")
	})

	t.Run("show json", func(t *testing.T) {
		h := newHarness(t)

		require.NoError(t, h.run("schema", "show", "--format", "json", "ProgramPage"))

		var comp map[string]any
		require.NoError(t, json.Unmarshal(h.out.Bytes(), &comp))
		assert.Contains(t, comp, "required")
	})

	t.Run("show yaml", func(t *testing.T) {
		h := newHarness(t)

		require.NoError(t, h.run("schema", "show", "ProgramPage"))
		assert.True(t, strings.HasPrefix(h.out.String(), "ProgramPage:"))
	})

	t.Run("completes component names", func(t *testing.T) {
		h := newHarness(t)

		require.NoError(t, h.run("schema", "show", "--generate-shell-completion"))
		assert.Contains(t, h.out.String(), "ProgramPage\n")
	})

	t.Run("completion reads config without a built app", func(t *testing.T) {
		h := newHarness(t)
		h.write(t, config.DefaultFileName, "components:\n  AboutPage:\n    required: [title]\n")
		h.app = &fmguard.App{}

		require.NoError(t, h.run("schema", "show", "--generate-shell-completion"))
		assert.Contains(t, h.out.String(), "AboutPage\nProgramPage\n")
	})

	t.Run("unknown component", func(t *testing.T) {
		h := newHarness(t)

		err := h.run("schema", "show", "Nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown component "Nope"`)
	})
}

func TestConfigValidateCmd_MissingContentDir(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.RemoveAll(filepath.Join(h.root, "src", "content")))

	err := h.run("config", "validate", "--format", "json")
	assert.Equal(t, 1, exitCode(err))

	var out struct {
		Valid  bool          `json:"valid"`
		Errors []configError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &out))
	assert.False(t, out.Valid)

	var fields []string
	for _, e := range out.Errors {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "content_dir")
}

func TestBrokenConfig(t *testing.T) {
	const brokenYAML = "content_dir: [\n"

	t.Run("config validate reports the parse error", func(t *testing.T) {
		h := newHarnessWithConfig(t, brokenYAML)
		require.Error(t, h.flags.LoadErr)

		err := h.run("config", "validate", "--format", "json")
		assert.Equal(t, 1, exitCode(err))

		var out struct {
			Valid  bool          `json:"valid"`
			Errors []configError `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(h.out.Bytes(), &out))
		assert.False(t, out.Valid)
		require.Len(t, out.Errors, 1)
		assert.Equal(t, "config", out.Errors[0].Field)
		assert.Contains(t, out.Errors[0].Message, "load config")
	})

	t.Run("doctor reports the config failure", func(t *testing.T) {
		h := newHarnessWithConfig(t, brokenYAML)

		err := h.run("doctor", "--format", "json")
		assert.Equal(t, 1, exitCode(err))

		var out struct {
			Healthy bool `json:"healthy"`
			Checks  []struct {
				Name  string `json:"name"`
				Items []struct {
					Label  string `json:"label"`
					Status string `json:"status"`
				} `json:"items"`
			} `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(h.out.Bytes(), &out))
		assert.False(t, out.Healthy)
		require.Len(t, out.Checks, 1)
		assert.Equal(t, "Configuration", out.Checks[0].Name)
		require.Len(t, out.Checks[0].Items, 1)
		assert.Equal(t, "fail", out.Checks[0].Items[0].Status)
	})

	t.Run("validate returns the load error", func(t *testing.T) {
		h := newHarnessWithConfig(t, brokenYAML)

		err := h.run("validate")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load config")
	})
}

func TestBrokenSchemaFile(t *testing.T) {
	const cfgYAML = "components:\n  AboutPage:\n    schema_file: missing.json\n"

	t.Run("config validate names the component", func(t *testing.T) {
		h := newHarnessWithConfig(t, cfgYAML)
		require.Error(t, h.flags.LoadErr)
		require.NotNil(t, h.flags.Config)

		err := h.run("config", "validate", "--format", "json")
		assert.Equal(t, 1, exitCode(err))

		var out struct {
			Errors []configError `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(h.out.Bytes(), &out))

		var fields []string
		for _, e := range out.Errors {
			fields = append(fields, e.Field)
		}
		assert.Contains(t, fields, `components["AboutPage"].schema_file`)
	})

	t.Run("doctor still runs the config checks", func(t *testing.T) {
		h := newHarnessWithConfig(t, cfgYAML)

		err := h.run("doctor", "--format", "json")
		assert.Equal(t, 1, exitCode(err))

		var out struct {
			Checks []struct {
				Name string `json:"name"`
			} `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(h.out.Bytes(), &out))

		var names []string
		for _, c := range out.Checks {
			names = append(names, c.Name)
		}
		assert.Contains(t, names, "Configuration")
		assert.Contains(t, names, "Components")
	})
}
